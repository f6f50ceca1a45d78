package http

import (
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/service"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/models"
	"github.com/go-chi/chi/v5"
)

// ask handles POST /api/chat/query.
func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.AskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	response, err := h.services.ConversationService.Ask(r.Context(), userID, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}

// listConversations handles GET /api/conversations. Archived conversations
// are included with ?include_archived=true.
func (h *Handler) listConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	includeArchived := r.URL.Query().Get("include_archived") == "true"

	conversations, err := h.services.ConversationService.ListConversations(r.Context(), userID, includeArchived)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.ConversationListResponse{
		Conversations: conversations,
		Count:         len(conversations),
	}, http.StatusOK)
}

// getConversation handles GET /api/conversations/{conversationID}.
func (h *Handler) getConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	conversation, err := h.services.ConversationService.GetConversation(r.Context(), userID, chi.URLParam(r, "conversationID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, conversation, http.StatusOK)
}

// archiveConversation handles POST /api/conversations/{conversationID}/archive.
func (h *Handler) archiveConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	outcome, err := h.services.ConversationService.ArchiveConversation(r.Context(), userID, chi.URLParam(r, "conversationID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: string(outcome)}, http.StatusOK)
}

// clearConversations handles DELETE /api/conversations/clear.
//
// By default every conversation is archived. ?permanent=true switches to a
// hard delete and additionally requires the admin key.
func (h *Handler) clearConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if permanent && !h.adminKeyMatches(r) {
		h.writeError(w, r, service.ErrForbidden)
		return
	}

	result, err := h.services.ConversationService.ClearAll(r.Context(), userID, permanent)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}

// clearConversationsPreview handles GET /api/conversations/clear, the dry-run
// variant of the bulk clear. Nothing is mutated, so the admin key is not
// required even with ?permanent=true.
func (h *Handler) clearConversationsPreview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"

	result, err := h.services.ConversationService.ClearAllPreview(r.Context(), userID, permanent)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, result, http.StatusOK)
}

// editMessage handles PATCH /api/messages/edit.
func (h *Handler) editMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.EditMessageRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	response, err := h.services.ConversationService.EditMessage(r.Context(), userID, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}
