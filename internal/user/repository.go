package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/database"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db}
}

// SaveUser inserts u, generating an id when missing. Users are matched by
// email, an existing user is returned untouched.
func (r *Repository) SaveUser(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		userID, err := ksuid.NewRandom()
		if err != nil {
			return User{}, err
		}
		u.ID = userID.String()
	}
	if !u.Role.Valid() {
		return User{}, apperror.Invalid("unknown role " + string(u.Role))
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `INSERT INTO users (id, email, first_name, last_name, role, company_id, profile_id, created_at)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
	ON CONFLICT (email) DO NOTHING
	RETURNING id`, u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.CompanyID, u.ProfileID, u.CreatedAt)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return r.GetUser(ctx, u.Email)
	}
	if err != nil {
		return User{}, errors.Wrap(err, "unable to save user")
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt)
	return u, nil
}

func (r *Repository) GetUser(ctx context.Context, email string) (User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `SELECT id, email, first_name, last_name, role, COALESCE(company_id, ''), COALESCE(profile_id, ''), created_at FROM users WHERE email = $1`, email))
}

// DisplayNameByID returns the first name shown to the other party of a conversation.
func (r *Repository) DisplayNameByID(ctx context.Context, id string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT first_name FROM users WHERE id = $1`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", apperror.UserNotFound()
	}
	if err != nil {
		return "", errors.Wrapf(err, "unable to get display name for user %s", id)
	}
	return name, nil
}

// SetCompany links an employer account to the company it manages.
func (r *Repository) SetCompany(ctx context.Context, userID, companyID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET company_id = $1 WHERE id = $2`, companyID, userID)
	if err != nil {
		return errors.Wrap(err, "unable to set user company")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.UserNotFound()
	}
	return nil
}

func (r *Repository) scanUser(row *sql.Row) (User, error) {
	u := User{}
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.CompanyID, &u.ProfileID, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, apperror.UserNotFound()
	}
	if err != nil {
		return u, errors.Wrap(err, "unable to get user")
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}
