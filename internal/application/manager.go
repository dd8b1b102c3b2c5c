package application

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/0x13a/jobstream/internal/activity"
	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/conversation"
	"github.com/0x13a/jobstream/internal/database"
	"github.com/0x13a/jobstream/internal/job"
	"github.com/0x13a/jobstream/internal/metrics"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

const (
	noteSubmitted       = "Application submitted successfully."
	noteStatusChangeFmt = "Status changed from %s to %s."
)

type jobGetter interface {
	JobPostByID(ctx context.Context, id string) (job.JobPost, error)
}

type conversationOpener interface {
	Bootstrap(ctx context.Context, q database.Querier, seed conversation.Seed) (conversation.Conversation, error)
}

// Manager owns the application lifecycle: submission, status transitions
// and the queries built on top of them.
type Manager struct {
	db            *sql.DB
	apps          *Repository
	activities    *activity.Repository
	jobs          jobGetter
	conversations conversationOpener
	log           zerolog.Logger
	perPage       int
}

func NewManager(db *sql.DB, jobs jobGetter, conversations conversationOpener, logger zerolog.Logger, perPage int) *Manager {
	if perPage <= 0 {
		perPage = 10
	}
	return &Manager{
		db:            db,
		apps:          NewRepository(db),
		activities:    activity.NewRepository(db),
		jobs:          jobs,
		conversations: conversations,
		log:           logger.With().Str("component", "application").Logger(),
		perPage:       perPage,
	}
}

// Submit applies actor to jobID. The application, its conversation with the
// two seed messages and the APPLIED activity are written in one transaction.
func (m *Manager) Submit(ctx context.Context, actor user.Actor, jobID, coverLetterText string) (Application, error) {
	if actor.ProfileID == "" {
		return Application{}, apperror.ProfileIncomplete()
	}
	j, err := m.jobs.JobPostByID(ctx, jobID)
	if err != nil {
		return Application{}, err
	}
	applicationID, err := ksuid.NewRandom()
	if err != nil {
		return Application{}, err
	}
	app := Application{
		ID:              applicationID.String(),
		UserID:          actor.UserID,
		CompanyID:       j.CompanyID,
		JobID:           j.ID,
		JobTitle:        j.JobTitle,
		CoverLetterText: coverLetterText,
		ApplicationDate: time.Now().UTC(),
		Status:          StatusApplied,
	}
	err = database.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		if err := m.apps.WithTx(tx).Insert(ctx, app); err != nil {
			return err
		}
		if _, err := m.conversations.Bootstrap(ctx, tx, conversation.Seed{
			ApplicationID:   app.ID,
			CompanyID:       app.CompanyID,
			JobTitle:        app.JobTitle,
			CoverLetterText: app.CoverLetterText,
			ApplicantID:     actor.UserID,
			ApplicantName:   actor.Name,
		}); err != nil {
			return err
		}
		_, err := m.activities.WithTx(tx).Append(ctx, app.ID, string(StatusApplied), user.RoleApplicant, noteSubmitted)
		return err
	})
	if err != nil {
		return Application{}, err
	}
	metrics.ApplicationsSubmitted.Inc()
	m.log.Info().Str("application_id", app.ID).Str("job_id", app.JobID).Msg("application submitted")
	return app, nil
}

// TransitionStatus moves an application to newStatus when the actor is
// allowed to. Any known status can follow any other.
func (m *Manager) TransitionStatus(ctx context.Context, actor user.Actor, applicationID, newStatus string) error {
	next, err := ParseStatus(newStatus)
	if err != nil {
		return err
	}
	var previous Status
	err = database.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		apps := m.apps.WithTx(tx)
		app, err := apps.ApplicationByIDForUpdate(ctx, applicationID)
		if err != nil {
			return err
		}
		if !CanTransition(actor, app, next) {
			return apperror.AccessDenied()
		}
		previous = app.Status
		if err := apps.UpdateStatus(ctx, app.ID, next); err != nil {
			return err
		}
		// the log records every transition as an employer action
		_, err = m.activities.WithTx(tx).Append(ctx, app.ID, string(next), user.RoleEmployer, fmt.Sprintf(noteStatusChangeFmt, previous, next))
		return err
	})
	if err != nil {
		return err
	}
	metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	m.log.Info().Str("application_id", applicationID).Str("from", string(previous)).Str("to", string(next)).Msg("application status changed")
	return nil
}

func (m *Manager) History(ctx context.Context, actor user.Actor, applicationID string) ([]activity.Activity, error) {
	app, err := m.apps.ApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, app) {
		return nil, apperror.AccessDenied()
	}
	return m.activities.HistoryFor(ctx, applicationID)
}

// Get hides applications the actor may not see behind ApplicationNotFound.
func (m *Manager) Get(ctx context.Context, actor user.Actor, applicationID string) (Application, error) {
	app, err := m.apps.ApplicationByID(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	if !CanView(actor, app) {
		return Application{}, apperror.ApplicationNotFound()
	}
	return app, nil
}

// ListForCandidate pages through the actor's own applications, newest first.
// An empty first page is reported as NoApplications, later pages may be empty.
func (m *Manager) ListForCandidate(ctx context.Context, actor user.Actor, page, size int) ([]Application, error) {
	if actor.ProfileID == "" {
		return nil, apperror.ProfileIncomplete()
	}
	if page < 0 {
		return nil, apperror.Invalid("page cannot be negative")
	}
	if size <= 0 {
		size = m.perPage
	}
	apps, err := m.apps.ApplicationsByUser(ctx, actor.UserID, size, page*size)
	if err != nil {
		return nil, err
	}
	if page == 0 && len(apps) == 0 {
		return nil, apperror.NoApplications()
	}
	return apps, nil
}

func (m *Manager) ListForEmployer(ctx context.Context, actor user.Actor) ([]Application, error) {
	if actor.CompanyID == "" {
		return nil, apperror.AccessDenied()
	}
	return m.apps.ApplicationsByCompany(ctx, actor.CompanyID)
}
