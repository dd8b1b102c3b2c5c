package application

import (
	"context"
	"database/sql"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/database"

	"github.com/pkg/errors"
)

const applicationColumns = `id, user_id, company_id, job_id, job_title, cover_letter_text, application_date, status`

type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db}
}

func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{tx}
}

// Insert stores a new application. The (user_id, job_id) unique index turns
// a second application for the same job into DuplicateApplication.
func (r *Repository) Insert(ctx context.Context, a Application) error {
	row := r.db.QueryRowContext(ctx, `INSERT INTO application (`+applicationColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (user_id, job_id) DO NOTHING
	RETURNING id`, a.ID, a.UserID, a.CompanyID, a.JobID, a.JobTitle, a.CoverLetterText, a.ApplicationDate, a.Status)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return apperror.DuplicateApplication()
	}
	if err != nil {
		return errors.Wrap(err, "unable to insert application")
	}
	return nil
}

func (r *Repository) ApplicationByID(ctx context.Context, id string) (Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM application WHERE id = $1`, id))
}

// ApplicationByIDForUpdate locks the row until the surrounding transaction ends.
func (r *Repository) ApplicationByIDForUpdate(ctx context.Context, id string) (Application, error) {
	return scanApplication(r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM application WHERE id = $1 FOR UPDATE`, id))
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE application SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return errors.Wrap(err, "unable to update application status")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.ApplicationNotFound()
	}
	return nil
}

func (r *Repository) ApplicationsByUser(ctx context.Context, userID string, limit, offset int) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+`
	FROM application
	WHERE user_id = $1
	ORDER BY application_date DESC, id DESC
	LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list applications by user")
	}
	return scanApplications(rows)
}

func (r *Repository) ApplicationsByCompany(ctx context.Context, companyID string) ([]Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+`
	FROM application
	WHERE company_id = $1
	ORDER BY application_date DESC, id DESC`, companyID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list applications by company")
	}
	return scanApplications(rows)
}

func scanApplication(row *sql.Row) (Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.UserID, &a.CompanyID, &a.JobID, &a.JobTitle, &a.CoverLetterText, &a.ApplicationDate, &a.Status)
	if err == sql.ErrNoRows {
		return a, apperror.ApplicationNotFound()
	}
	if err != nil {
		return a, errors.Wrap(err, "unable to get application")
	}
	return a, nil
}

func scanApplications(rows *sql.Rows) ([]Application, error) {
	defer rows.Close()
	res := make([]Application, 0)
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.UserID, &a.CompanyID, &a.JobID, &a.JobTitle, &a.CoverLetterText, &a.ApplicationDate, &a.Status); err != nil {
			return res, errors.Wrap(err, "unable to scan application")
		}
		res = append(res, a)
	}
	return res, rows.Err()
}
