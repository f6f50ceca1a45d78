package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
	"github.com/MKhiriev/go-reg-assist/models"
)

// decodeJSON decodes the request body into dst, answering 400 on malformed
// input. Reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid JSON body")
		utils.WriteJSONError(w, "invalid JSON body", "VALIDATION_ERROR", "", http.StatusBadRequest)
		return false
	}
	return true
}

// signup handles POST /api/auth/signup.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var request models.SignupRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	response, err := h.services.AccountService.Signup(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusCreated)
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	response, err := h.services.AccountService.Login(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, response, http.StatusOK)
}

// verifyEmail handles POST /api/auth/verify-email.
func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var request models.VerifyEmailRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.services.AccountService.VerifyEmail(r.Context(), request.Token); err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "email verified"}, http.StatusOK)
}

// resendVerification handles POST /api/auth/resend-verification.
func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	var request models.ResendVerificationRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.services.AccountService.ResendVerification(r.Context(), request.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "verification email sent"}, http.StatusOK)
}

// forgotPassword handles POST /api/auth/forgot-password. The response is the
// same whether or not the address is registered.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ForgotPasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.services.AccountService.ForgotPassword(r.Context(), request.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "if the address is registered, a reset email is on its way"}, http.StatusOK)
}

// resetPassword handles POST /api/auth/reset-password.
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var request models.ResetPasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.services.AccountService.ResetPassword(r.Context(), request.Token, request.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.MessageResponse{Message: "password updated"}, http.StatusOK)
}

// logout handles POST /api/auth/logout. Sessions are stateless JWTs, so
// there is nothing to revoke server-side; a session cookie, when the client
// uses one, is expired here.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie("session"); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}

	_, _ = utils.WriteJSON(w, struct{}{}, http.StatusOK)
}

// me handles GET /api/auth/me.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.services.AccountService.Me(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

// deleteAccount handles DELETE /api/auth/delete-account. The body is
// optional; an empty body means no deletion reason.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var request models.DeleteAccountRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &request) {
			return
		}
	}

	summary, err := h.services.AccountService.SoftDelete(r.Context(), userID, request.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, summary, http.StatusOK)
}

// deleteAccountPreview handles GET /api/auth/delete-account, the dry-run
// variant of the deletion. Nothing is mutated.
func (h *Handler) deleteAccountPreview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	summary, err := h.services.AccountService.DeletionPreview(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, summary, http.StatusOK)
}

// restoreAccount handles the admin-only POST /api/admin/restore-account.
func (h *Handler) restoreAccount(w http.ResponseWriter, r *http.Request) {
	var request models.RestoreAccountRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	user, err := h.services.AccountService.Restore(r.Context(), request.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}
