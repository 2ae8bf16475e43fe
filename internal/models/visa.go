package models

import "strings"

// Visa represents a visa program page
type Visa struct {
	ID              int64  `db:"id" json:"-"`
	Slug            string `db:"slug" json:"slug" yaml:"slug"`
	Name            string `db:"name" json:"name" yaml:"name" validate:"required"`
	Description     string `db:"description" json:"description" yaml:"description"`
	Info            string `db:"info" json:"info" yaml:"info"`
	MetaTitle       string `db:"meta_title" json:"metaTitle" yaml:"metaTitle"`
	MetaDescription string `db:"meta_description" json:"metaDescription" yaml:"metaDescription"`
	MetaKeywords    string `db:"meta_keywords" json:"metaKeywords" yaml:"metaKeywords"`
	Image           string `db:"image" json:"image" yaml:"image"`
}

func (v Visa) RecordKey() string {
	return v.Slug
}

func (v Visa) Label() string {
	return v.Name
}

func (v *Visa) Normalize() {
	v.Slug = strings.TrimSpace(v.Slug)
	v.Name = strings.TrimSpace(v.Name)
	v.Description = strings.TrimSpace(v.Description)
	v.MetaTitle = strings.TrimSpace(v.MetaTitle)
	v.MetaDescription = strings.TrimSpace(v.MetaDescription)
	v.MetaKeywords = strings.TrimSpace(v.MetaKeywords)
	v.Image = strings.TrimSpace(v.Image)
}

func (v Visa) Validate() error {
	v.Normalize()
	return validateStruct(v)
}

// VisaKey is the body of a delete request
type VisaKey struct {
	Slug string `json:"slug" validate:"required"`
}

func (k *VisaKey) Normalize() {
	k.Slug = strings.TrimSpace(k.Slug)
}

// VisaUpdate is the body of an update request
type VisaUpdate struct {
	Visa
	Slug string `json:"slug" validate:"required"`
}

func (u *VisaUpdate) Normalize() {
	u.Visa.Normalize()
	u.Slug = strings.TrimSpace(u.Slug)
}

func (u *VisaUpdate) Record() *Visa {
	v := u.Visa
	v.Slug = u.Slug
	return &v
}
