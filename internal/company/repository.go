package company

import (
	"context"
	"database/sql"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/database"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db}
}

// RegisterCompany stores c under a slug derived from its name.
// A second company with the same slug is rejected.
func (r *Repository) RegisterCompany(ctx context.Context, c Company) (Company, error) {
	if c.ID == "" {
		companyID, err := ksuid.NewRandom()
		if err != nil {
			return Company{}, err
		}
		c.ID = companyID.String()
	}
	c.Slug = slug.Make(c.Name)
	if c.Slug == "" {
		return Company{}, apperror.Invalid("company name cannot be empty")
	}
	c.CreatedAt = time.Now().UTC()
	stmt := `INSERT INTO company (id, name, slug, url, owner_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (slug) DO NOTHING
	RETURNING id`
	var id string
	err := r.db.QueryRowContext(ctx, stmt, c.ID, c.Name, c.Slug, c.URL, c.OwnerID, c.CreatedAt).Scan(&id)
	if err == sql.ErrNoRows {
		return Company{}, apperror.CompanyAlreadyRegistered()
	}
	if err != nil {
		return Company{}, errors.Wrap(err, "unable to register company")
	}
	return c, nil
}

func (r *Repository) CompanyBySlug(ctx context.Context, s string) (Company, error) {
	c := Company{}
	row := r.db.QueryRowContext(ctx, `SELECT id, name, slug, url, owner_id, created_at FROM company WHERE slug = $1`, s)
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.URL, &c.OwnerID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return c, apperror.CompanyNotFound()
	}
	if err != nil {
		return c, errors.Wrap(err, "unable to get company by slug")
	}
	return c, nil
}

func (r *Repository) OwnerByCompanyID(ctx context.Context, id string) (string, error) {
	var ownerID string
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM company WHERE id = $1`, id).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return "", apperror.CompanyNotFound()
	}
	if err != nil {
		return "", errors.Wrap(err, "unable to get company owner")
	}
	return ownerID, nil
}
