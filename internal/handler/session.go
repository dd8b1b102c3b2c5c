package handler

import (
	"net/http"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/middleware"
	"github.com/0x13a/jobstream/internal/server"
)

// SaveSessionHandler copies a valid bearer token into the session cookie so
// browsers can open chat sockets, which cannot carry an Authorization header.
func SaveSessionHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tk := middleware.BearerToken(r)
		if tk == "" {
			svr.Error(w, apperror.Unauthenticated("bearer token required"), "")
			return
		}
		claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.Error(w, apperror.Unauthenticated("authentication required"), "")
			return
		}
		if err := middleware.SaveJWT(w, r, svr.SessionStore, tk); err != nil {
			svr.Error(w, err, "unable to save jwt in session")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"userId": claims.UserID})
	}
}

func HealthHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svr.Health(r.Context()); err != nil {
			l := svr.Logger()
			l.Warn().Err(err).Msg("health check failed")
			svr.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
