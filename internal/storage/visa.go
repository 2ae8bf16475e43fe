package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bilgisen/visacms/internal/models"
	"github.com/bilgisen/visacms/internal/utils"
)

const visaColumns = `id,
	COALESCE(slug, '') AS slug,
	COALESCE(name, '') AS name,
	COALESCE(description, '') AS description,
	COALESCE(info, '') AS info,
	COALESCE(meta_title, '') AS meta_title,
	COALESCE(meta_description, '') AS meta_description,
	COALESCE(meta_keywords, '') AS meta_keywords,
	COALESCE(image, '') AS image`

// attempts made to find a free visa slug before giving up
const maxSlugAttempts = 3

// newSuffix is replaced in tests
var newSuffix = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ListVisas returns every visa program in insertion order
func (s *Store) ListVisas(ctx context.Context) ([]models.Visa, error) {
	query := `SELECT ` + visaColumns + ` FROM visas ORDER BY id ASC`

	items := []models.Visa{}
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, storeErr("list visas", err)
	}
	return items, nil
}

// CreateVisa inserts a visa program. The slug comes from v.Slug or the name;
// when taken, a short random suffix is appended.
func (s *Store) CreateVisa(ctx context.Context, v *models.Visa) (*models.Visa, error) {
	rec := *v
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	base := utils.Slugify(rec.Slug)
	if base == "" {
		base = utils.Slugify(rec.Name)
	}
	if base == "" {
		return nil, models.NewValidationError("name", "not sluggable")
	}

	query := `
		INSERT INTO visas (slug, name, description, info, meta_title, meta_description, meta_keywords, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO NOTHING
		RETURNING ` + visaColumns

	slug := base
	for i := 0; i < maxSlugAttempts; i++ {
		var out models.Visa
		err := s.db.GetContext(ctx, &out, query,
			slug,
			rec.Name,
			rec.Description,
			rec.Info,
			rec.MetaTitle,
			rec.MetaDescription,
			rec.MetaKeywords,
			rec.Image,
		)
		if err == nil {
			return &out, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, storeErr("create visa", err)
		}
		slug = base + "-" + newSuffix()
	}
	return nil, models.ErrConflict
}

// UpdateVisa overwrites the visa addressed by v.Slug
func (s *Store) UpdateVisa(ctx context.Context, v *models.Visa) (*models.Visa, error) {
	rec := *v
	rec.Normalize()
	if rec.Slug == "" {
		return nil, models.NewValidationError("slug", "required")
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE visas SET
			name = $2,
			description = $3,
			info = $4,
			meta_title = $5,
			meta_description = $6,
			meta_keywords = $7,
			image = $8
		WHERE slug = $1
		RETURNING ` + visaColumns

	var out models.Visa
	err := s.db.GetContext(ctx, &out, query,
		rec.Slug,
		rec.Name,
		rec.Description,
		rec.Info,
		rec.MetaTitle,
		rec.MetaDescription,
		rec.MetaKeywords,
		rec.Image,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("update visa", err)
	}
	return &out, nil
}

func (s *Store) DeleteVisa(ctx context.Context, slug string) (*models.Visa, error) {
	if slug == "" {
		return nil, models.NewValidationError("slug", "required")
	}

	var out models.Visa
	err := s.db.GetContext(ctx, &out, `DELETE FROM visas WHERE slug = $1 RETURNING `+visaColumns, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, storeErr("delete visa", err)
	}
	return &out, nil
}
