package http

import (
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the route tree.
//
// Three route groups share the tracing/logging/compression stack:
//   - public auth endpoints (no session required)
//   - the authenticated API behind the bearer-token middleware
//   - the admin surface behind the X-Admin-Key gate
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	router.Get("/api/health", h.health)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/verify-email", h.verifyEmail)
		r.Post("/api/auth/resend-verification", h.resendVerification)
		r.Post("/api/auth/forgot-password", h.forgotPassword)
		r.Post("/api/auth/reset-password", h.resetPassword)
		r.Post("/api/auth/logout", h.logout)
	})

	// authenticated API
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/me", h.me)
		r.Get("/api/auth/delete-account", h.deleteAccountPreview)
		r.Delete("/api/auth/delete-account", h.deleteAccount)

		r.Post("/api/chat/query", h.ask)

		r.Get("/api/conversations", h.listConversations)
		r.Delete("/api/conversations/clear", h.clearConversations)
		r.Get("/api/conversations/clear", h.clearConversationsPreview)
		r.Get("/api/conversations/{conversationID}", h.getConversation)
		r.Post("/api/conversations/{conversationID}/archive", h.archiveConversation)

		r.Patch("/api/messages/edit", h.editMessage)
		r.Post("/api/messages/feedback", h.recordFeedback)
		r.Get("/api/messages/feedback", h.getFeedback)

		r.Get("/api/user/theme", h.getTheme)
		r.Post("/api/user/theme", h.setTheme)
		r.Get("/api/user/recently-viewed", h.getRecentlyViewed)
		r.Post("/api/user/recently-viewed", h.addRecentlyViewed)
		r.Delete("/api/user/recently-viewed", h.clearRecentlyViewed)
	})

	// admin surface
	router.Group(func(r chi.Router) {
		r.Use(h.admin)

		r.Post("/api/admin/restore-account", h.restoreAccount)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "ok"}, http.StatusOK)
}
