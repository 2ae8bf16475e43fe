package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bilgisen/visacms/internal/models"
	"github.com/bilgisen/visacms/internal/utils"
)

const newsColumns = `id,
	COALESCE(slug, '') AS slug,
	COALESCE(title, '') AS title,
	COALESCE(summary, '') AS summary,
	COALESCE(image, '') AS image,
	COALESCE(tag, '') AS tag,
	COALESCE("time", '') AS "time",
	COALESCE(read_time, '') AS read_time,
	COALESCE(content, '') AS content,
	created_at`

// ListNews returns every article, newest first
func (s *Store) ListNews(ctx context.Context) ([]models.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news ORDER BY created_at DESC, id DESC`

	items := []models.News{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, storeErr("list news", err)
	}
	return items, nil
}

// CreateNews inserts a new article. The slug is derived from the title and a
// duplicate slug yields models.ErrConflict.
func (s *Store) CreateNews(ctx context.Context, n *models.News) (*models.News, error) {
	rec := *n
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	rec.Slug = utils.Slugify(rec.Title)
	if rec.Slug == "" {
		return nil, models.NewValidationError("title", "not sluggable")
	}

	query := `
		INSERT INTO news (title, slug, summary, image, tag, "time", read_time, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO NOTHING
		RETURNING ` + newsColumns

	var out models.News
	err := s.db.GetContext(ctx, &out, query,
		rec.Title,
		rec.Slug,
		rec.Summary,
		rec.Image,
		rec.Tag,
		rec.Time,
		rec.ReadTime,
		rec.Content,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, storeErr("create news", err)
	}
	return &out, nil
}

// UpdateNews overwrites the editable fields of the article addressed by n.Slug.
// The slug and creation time never change.
func (s *Store) UpdateNews(ctx context.Context, n *models.News) (*models.News, error) {
	rec := *n
	rec.Normalize()
	if rec.Slug == "" {
		return nil, models.NewValidationError("slug", "required")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE news SET
			title = $2,
			summary = $3,
			image = $4,
			tag = $5,
			"time" = $6,
			read_time = $7,
			content = $8
		WHERE slug = $1
		RETURNING ` + newsColumns

	var out models.News
	err := s.db.GetContext(ctx, &out, query,
		rec.Slug,
		rec.Title,
		rec.Summary,
		rec.Image,
		rec.Tag,
		rec.Time,
		rec.ReadTime,
		rec.Content,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("update news", err)
	}
	return &out, nil
}

// DeleteNews removes the article and returns it
func (s *Store) DeleteNews(ctx context.Context, slug string) (*models.News, error) {
	if slug == "" {
		return nil, models.NewValidationError("slug", "required")
	}

	var out models.News
	err := s.db.GetContext(ctx, &out, `DELETE FROM news WHERE slug = $1 RETURNING `+newsColumns, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("delete news", err)
	}
	return &out, nil
}
