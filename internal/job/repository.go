package job

import (
	"context"
	"database/sql"
	"fmt"
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

func (r *Repository) SaveJobPost(ctx context.Context, job JobPost) (JobPost, error) {
	if job.ID == "" {
		jobID, err := ksuid.NewRandom()
		if err != nil {
			return JobPost{}, err
		}
		job.ID = jobID.String()
	}
	if job.CompanyID == "" || job.JobTitle == "" {
		return JobPost{}, apperror.Invalid("job title and company are required")
	}
	job.CreatedAt = time.Now().UTC()
	job.Slug = slug.Make(fmt.Sprintf("%s %d", job.JobTitle, job.CreatedAt.Unix()))
	_, err := r.db.ExecContext(ctx, `INSERT INTO job (id, company_id, title, slug, location, description, created_at, expired_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, job.ID, job.CompanyID, job.JobTitle, job.Slug, job.Location, job.Description, job.CreatedAt, job.ExpiredAt)
	if err != nil {
		return JobPost{}, errors.Wrap(err, "unable to save job post")
	}
	return job, nil
}

// JobPostByID returns apperror JobNotFound for unknown ids.
func (r *Repository) JobPostByID(ctx context.Context, id string) (JobPost, error) {
	job := JobPost{}
	var expiredAt sql.NullTime
	row := r.db.QueryRowContext(ctx, `SELECT id, company_id, title, slug, location, description, created_at, expired_at FROM job WHERE id = $1`, id)
	err := row.Scan(&job.ID, &job.CompanyID, &job.JobTitle, &job.Slug, &job.Location, &job.Description, &job.CreatedAt, &expiredAt)
	if err == sql.ErrNoRows {
		return job, apperror.JobNotFound()
	}
	if err != nil {
		return job, errors.Wrapf(err, "unable to get job %s", id)
	}
	if expiredAt.Valid {
		job.ExpiredAt = &expiredAt.Time
	}
	return job, nil
}
