package activity

import (
	"context"
	"database/sql"
	"time"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/database"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/pkg/errors"
)

// Repository is the append-only activity log. There is no update or delete.
type Repository struct {
	db database.Querier
}

func NewRepository(db database.Querier) *Repository {
	return &Repository{db}
}

func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{tx}
}

func (r *Repository) Append(ctx context.Context, applicationID, status string, changedBy user.Role, note string) (Activity, error) {
	if applicationID == "" {
		return Activity{}, apperror.Invalid("application id is required")
	}
	a := Activity{
		ApplicationID:   applicationID,
		Status:          status,
		StatusChangedBy: changedBy,
		Timestamp:       time.Now().UTC(),
		Note:            note,
	}
	row := r.db.QueryRowContext(ctx, `INSERT INTO application_activity (application_id, status, status_changed_by, note, created_at)
	VALUES ($1, $2, $3, $4, $5) RETURNING id`, a.ApplicationID, a.Status, a.StatusChangedBy, a.Note, a.Timestamp)
	if err := row.Scan(&a.ID); err != nil {
		return Activity{}, errors.Wrap(err, "unable to append application activity")
	}
	return a, nil
}

// HistoryFor returns the entries of an application oldest first.
// Entries sharing a timestamp keep their insertion order.
func (r *Repository) HistoryFor(ctx context.Context, applicationID string) ([]Activity, error) {
	res := make([]Activity, 0)
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, status, status_changed_by, note, created_at
	FROM application_activity
	WHERE application_id = $1
	ORDER BY created_at ASC, id ASC`, applicationID)
	if err != nil {
		return res, errors.Wrap(err, "unable to get application history")
	}
	defer rows.Close()
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.ApplicationID, &a.Status, &a.StatusChangedBy, &a.Note, &a.Timestamp); err != nil {
			return res, errors.Wrap(err, "unable to scan application activity")
		}
		res = append(res, a)
	}
	return res, rows.Err()
}
