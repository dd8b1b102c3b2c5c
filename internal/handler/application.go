package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/0x13a/jobstream/internal/activity"
	"github.com/0x13a/jobstream/internal/application"
	"github.com/0x13a/jobstream/internal/server"
	"github.com/0x13a/jobstream/internal/user"

	humanize "github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

type applicationManager interface {
	Submit(ctx context.Context, actor user.Actor, jobID, coverLetterText string) (application.Application, error)
	TransitionStatus(ctx context.Context, actor user.Actor, applicationID, newStatus string) error
	History(ctx context.Context, actor user.Actor, applicationID string) ([]activity.Activity, error)
	Get(ctx context.Context, actor user.Actor, applicationID string) (application.Application, error)
	ListForCandidate(ctx context.Context, actor user.Actor, page, size int) ([]application.Application, error)
	ListForEmployer(ctx context.Context, actor user.Actor) ([]application.Application, error)
}

type applicationResponse struct {
	application.Application
	AppliedAgo string `json:"appliedAgo"`
}

func toApplicationResponse(app application.Application) applicationResponse {
	return applicationResponse{Application: app, AppliedAgo: humanize.Time(app.ApplicationDate)}
}

func toApplicationResponses(apps []application.Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, toApplicationResponse(app))
	}
	return out
}

func SubmitApplicationHandler(svr server.Server, apps applicationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		req := &struct {
			JobID           string `json:"jobId"`
			CoverLetterText string `json:"coverLetterText"`
		}{}
		if err := decodeJSON(w, r, req); err != nil {
			svr.Error(w, err, "")
			return
		}
		coverLetter := strings.TrimSpace(stripTags(req.CoverLetterText))
		app, err := apps.Submit(r.Context(), actor, strings.TrimSpace(req.JobID), coverLetter)
		if err != nil {
			svr.Error(w, err, "unable to submit application")
			return
		}
		svr.JSON(w, http.StatusCreated, toApplicationResponse(app))
	}
}

func MyApplicationsHandler(svr server.Server, apps applicationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		page, size, err := pageParams(r)
		if err != nil {
			svr.Error(w, err, "")
			return
		}
		list, err := apps.ListForCandidate(r.Context(), actor, page, size)
		if err != nil {
			svr.Error(w, err, "unable to list candidate applications")
			return
		}
		svr.JSON(w, http.StatusOK, toApplicationResponses(list))
	}
}

func GetApplicationHandler(svr server.Server, apps applicationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		app, err := apps.Get(r.Context(), actor, mux.Vars(r)["id"])
		if err != nil {
			svr.Error(w, err, "unable to get application")
			return
		}
		svr.JSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func EmployerApplicationsHandler(svr server.Server, apps applicationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		list, err := apps.ListForEmployer(r.Context(), actor)
		if err != nil {
			svr.Error(w, err, "unable to list employer applications")
			return
		}
		svr.JSON(w, http.StatusOK, toApplicationResponses(list))
	}
}

func ApplicationHistoryHandler(svr server.Server, apps applicationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		history, err := apps.History(r.Context(), actor, mux.Vars(r)["applicationId"])
		if err != nil {
			svr.Error(w, err, "unable to get application history")
			return
		}
		svr.JSON(w, http.StatusOK, history)
	}
}

func UpdateApplicationStatusHandler(svr server.Server, apps applicationManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(svr, w, r)
		if !ok {
			return
		}
		req := &struct {
			ApplicationID string `json:"applicationId"`
			Status        string `json:"status"`
		}{}
		if err := decodeJSON(w, r, req); err != nil {
			svr.Error(w, err, "")
			return
		}
		if err := apps.TransitionStatus(r.Context(), actor, strings.TrimSpace(req.ApplicationID), req.Status); err != nil {
			svr.Error(w, err, "unable to update application status")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"applicationId": req.ApplicationID,
			"status":        strings.ToUpper(strings.TrimSpace(req.Status)),
			"updatedAt":     time.Now().UTC(),
		})
	}
}
