package http

import (
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/models"
)

// recordFeedback handles POST /api/messages/feedback.
func (h *Handler) recordFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.FeedbackRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	response, err := h.services.ConversationService.RecordFeedback(r.Context(), userID, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}

// getFeedback handles GET /api/messages/feedback. The message is addressed
// by the conversationId and messageId query parameters.
func (h *Handler) getFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	response, err := h.services.ConversationService.GetFeedback(r.Context(), userID,
		query.Get("conversationId"), query.Get("messageId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}
