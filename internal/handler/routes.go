package handler

import (
	"net/http"

	"github.com/0x13a/jobstream/internal/middleware"
	"github.com/0x13a/jobstream/internal/server"
)

// RegisterRoutes mounts the public API. Everything except the health check
// and the session exchange requires a valid token.
func RegisterRoutes(svr server.Server, apps applicationManager, conversations conversationService, hub subscriber) {
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), h)
	}

	svr.RegisterRoute("/healthz", HealthHandler(svr), []string{http.MethodGet})

	// exchange a bearer token for a session cookie
	svr.RegisterRoute("/api/v1/session", SaveSessionHandler(svr), []string{http.MethodPost})

	// applications
	svr.RegisterRoute("/api/v1/applications/submit", authed(SubmitApplicationHandler(svr, apps)), []string{http.MethodPost})
	svr.RegisterRoute("/api/v1/applications/my-applications", authed(MyApplicationsHandler(svr, apps)), []string{http.MethodGet})
	svr.RegisterRoute("/api/v1/applications/getById/{id}", authed(GetApplicationHandler(svr, apps)), []string{http.MethodGet})
	svr.RegisterRoute("/api/v1/applications/by-employer", authed(EmployerApplicationsHandler(svr, apps)), []string{http.MethodGet})
	svr.RegisterRoute("/api/v1/applications/history/{applicationId}", authed(ApplicationHistoryHandler(svr, apps)), []string{http.MethodGet})
	svr.RegisterRoute("/api/v1/applications/status/update", authed(UpdateApplicationStatusHandler(svr, apps)), []string{http.MethodPut})

	// conversations
	svr.RegisterRoute("/api/v1/conversation/my", authed(MyConversationsHandler(svr, conversations)), []string{http.MethodGet})
	svr.RegisterRoute("/api/v1/conversation/{id}/getMessages", authed(ConversationMessagesHandler(svr, conversations)), []string{http.MethodGet})
	svr.RegisterRoute("/api/v1/conversation/{id}/messages", authed(SendMessageHandler(svr, conversations)), []string{http.MethodPost})
	svr.RegisterRoute("/chat/{id}", authed(ChatHandler(svr, conversations, hub)), []string{http.MethodGet})
}
