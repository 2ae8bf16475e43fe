package models

import (
	"strings"
	"time"
)

// News represents a news article shown on the latest-news pages
type News struct {
	ID        int64     `db:"id" json:"-"`
	Slug      string    `db:"slug" json:"slug" yaml:"slug"`
	Title     string    `db:"title" json:"title" yaml:"title" validate:"required"`
	Summary   string    `db:"summary" json:"summary" yaml:"summary"`
	Image     string    `db:"image" json:"image" yaml:"image"`
	Tag       string    `db:"tag" json:"tag" yaml:"tag"`
	Time      string    `db:"time" json:"time" yaml:"time"`
	ReadTime  string    `db:"read_time" json:"readTime" yaml:"readTime"`
	Content   string    `db:"content" json:"content" yaml:"content" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"createdAt" yaml:"createdAt"`
}

// RecordKey returns the slug, the natural key of a news article
func (n News) RecordKey() string {
	return n.Slug
}

// Label returns the human readable name of the article
func (n News) Label() string {
	return n.Title
}

// Normalize trims surrounding whitespace from the text fields.
// Image and Content are left as is since they may carry data URIs or markup.
func (n *News) Normalize() {
	n.Slug = strings.TrimSpace(n.Slug)
	n.Title = strings.TrimSpace(n.Title)
	n.Summary = strings.TrimSpace(n.Summary)
	n.Image = strings.TrimSpace(n.Image)
	n.Tag = strings.TrimSpace(n.Tag)
	n.Time = strings.TrimSpace(n.Time)
	n.ReadTime = strings.TrimSpace(n.ReadTime)
	if strings.TrimSpace(n.Content) == "" {
		n.Content = ""
	}
}

// Validate checks the required fields of the article
func (n News) Validate() error {
	n.Normalize()
	return validateStruct(n)
}

// NewsKey is the body of a delete request
type NewsKey struct {
	Slug string `json:"slug" validate:"required"`
}

func (k *NewsKey) Normalize() {
	k.Slug = strings.TrimSpace(k.Slug)
}

// NewsUpdate is the body of an update request; the slug addresses the record
type NewsUpdate struct {
	News
	Slug string `json:"slug" validate:"required"`
}

func (u *NewsUpdate) Normalize() {
	u.News.Normalize()
	u.Slug = strings.TrimSpace(u.Slug)
}

// Record returns the article addressed by the update
func (u *NewsUpdate) Record() *News {
	n := u.News
	n.Slug = u.Slug
	return &n
}
