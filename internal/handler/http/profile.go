package http

import (
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/models"
)

// getTheme handles GET /api/user/theme.
func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	theme, err := h.services.ProfileService.Theme(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.ThemeResponse{Theme: theme}, http.StatusOK)
}

// setTheme handles POST /api/user/theme.
func (h *Handler) setTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.ThemeRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	theme, err := h.services.ProfileService.SetTheme(r.Context(), userID, request.Theme)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.ThemeResponse{Theme: theme}, http.StatusOK)
}

// regionParam reads the region query parameter.
func regionParam(r *http.Request) models.Region {
	return models.Region(r.URL.Query().Get("region"))
}

// getRecentlyViewed handles GET /api/user/recently-viewed?region=….
func (h *Handler) getRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	region := regionParam(r)
	pdfs, err := h.services.ProfileService.RecentlyViewed(r.Context(), userID, region)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.RecentlyViewedResponse{
		Region: region,
		PDFs:   pdfs,
		Count:  len(pdfs),
	}, http.StatusOK)
}

// addRecentlyViewed handles POST /api/user/recently-viewed?region=….
func (h *Handler) addRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.RecentlyViewedRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	region := regionParam(r)
	pdfs, err := h.services.ProfileService.AddRecentlyViewed(r.Context(), userID, region, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.RecentlyViewedResponse{
		Region: region,
		PDFs:   pdfs,
		Count:  len(pdfs),
	}, http.StatusOK)
}

// clearRecentlyViewed handles DELETE /api/user/recently-viewed?region=….
func (h *Handler) clearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.services.ProfileService.ClearRecentlyViewed(r.Context(), userID, regionParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "cleared"}, http.StatusOK)
}
