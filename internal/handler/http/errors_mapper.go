package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/mailer"
	"github.com/MKhiriev/go-reg-assist/internal/rag"
	"github.com/MKhiriev/go-reg-assist/internal/service"
	"github.com/MKhiriev/go-reg-assist/internal/store"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
)

// errorMapping pairs the HTTP status with the stable machine-readable code
// clients branch on.
type errorMapping struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorMapping{
	service.ErrValidation:              {http.StatusBadRequest, "VALIDATION_ERROR"},
	service.ErrEmailInUse:              {http.StatusConflict, "EMAIL_IN_USE"},
	service.ErrInvalidCredentials:      {http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	service.ErrAccountDeleted:          {http.StatusUnauthorized, "ACCOUNT_DELETED"},
	service.ErrEmailNotVerified:        {http.StatusUnauthorized, "EMAIL_NOT_VERIFIED"},
	service.ErrAlreadyVerified:         {http.StatusBadRequest, "ALREADY_VERIFIED"},
	service.ErrResendRateLimited:       {http.StatusTooManyRequests, "RATE_LIMITED"},
	service.ErrInvalidOrExpiredToken:   {http.StatusBadRequest, "INVALID_TOKEN"},
	service.ErrAccountNotFound:         {http.StatusNotFound, "ACCOUNT_NOT_FOUND"},
	service.ErrNotDeleted:              {http.StatusBadRequest, "NOT_DELETED"},
	service.ErrTokenCreationFailed:     {http.StatusInternalServerError, "TOKEN_CREATION_FAILED"},
	service.ErrTokenIsExpiredOrInvalid: {http.StatusUnauthorized, "INVALID_SESSION"},

	service.ErrConversationNotFound: {http.StatusNotFound, "CONVERSATION_NOT_FOUND"},
	service.ErrMessageNotFound:      {http.StatusNotFound, "MESSAGE_NOT_FOUND"},
	service.ErrInvalidIndex:         {http.StatusBadRequest, "INVALID_INDEX"},
	service.ErrNotEditable:          {http.StatusBadRequest, "NOT_EDITABLE"},
	service.ErrEmptyContent:         {http.StatusBadRequest, "EMPTY_CONTENT"},
	service.ErrFeedbackNotAllowed:   {http.StatusBadRequest, "FEEDBACK_NOT_ALLOWED"},
	service.ErrInvalidVote:          {http.StatusBadRequest, "INVALID_VOTE"},
	service.ErrInvalidIssueType:     {http.StatusBadRequest, "INVALID_ISSUE_TYPE"},
	service.ErrDetailsTooLong:       {http.StatusBadRequest, "DETAILS_TOO_LONG"},
	service.ErrForbidden:            {http.StatusForbidden, "FORBIDDEN"},

	rag.ErrBackendUnavailable: {http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE"},
	rag.ErrReferenceNotFound:  {http.StatusNotFound, "REFERENCE_NOT_FOUND"},
	mailer.ErrDeliveryFailed:  {http.StatusServiceUnavailable, "EMAIL_DELIVERY_FAILED"},

	store.ErrBuildingSQLQuery:   {http.StatusInternalServerError, "INTERNAL"},
	store.ErrExecutingQuery:     {http.StatusInternalServerError, "INTERNAL"},
	store.ErrExecutingStatement: {http.StatusInternalServerError, "INTERNAL"},
	store.ErrScanningRow:        {http.StatusInternalServerError, "INTERNAL"},
	store.ErrScanningRows:       {http.StatusInternalServerError, "INTERNAL"},
	store.ErrEncodingDocument:   {http.StatusInternalServerError, "INTERNAL"},
	store.ErrDecodingDocument:   {http.StatusInternalServerError, "INTERNAL"},
}

// mapError resolves a service error chain to its HTTP mapping. Unmapped
// errors collapse to 500 INTERNAL so nothing internal leaks by accident.
func mapError(err error) errorMapping {
	for target, mapping := range errorStatusMap {
		if errors.Is(err, target) {
			return mapping
		}
	}
	return errorMapping{status: http.StatusInternalServerError, code: "INTERNAL"}
}

// writeError translates a service error into the uniform JSON error body.
// Internal detail is attached in development mode only.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	mapping := mapError(err)

	if mapping.status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("code", mapping.code).Msg("request failed")
	}

	message := err.Error()
	detail := ""
	if h.devMode() {
		detail = err.Error()
	}
	if mapping.status >= http.StatusInternalServerError && !h.devMode() {
		// internal error chains stay out of production responses
		message = http.StatusText(mapping.status)
	}

	utils.WriteJSONError(w, message, mapping.code, detail, mapping.status)
}
