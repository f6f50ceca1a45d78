package service

import (
	"errors"

	"github.com/MKhiriev/go-reg-assist/internal/validators"
)

// Validation and account lifecycle errors. Handlers map these to HTTP
// statuses and stable error codes; see the handler error map.
var (
	// ErrValidation is returned for malformed or missing input. It is always
	// wrapped with a short description of what failed.
	ErrValidation = errors.New("validation error")

	// ErrEmailInUse is returned when signup (or restore) targets an email
	// that is already registered.
	ErrEmailInUse = errors.New("email already in use")

	// ErrInvalidCredentials is returned when login fails because the account
	// does not exist or the password does not match. The two cases are not
	// distinguished to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDeleted is returned when login targets a soft-deleted
	// account, regardless of password correctness.
	ErrAccountDeleted = errors.New("account is deleted")

	// ErrEmailNotVerified is returned when login succeeds credential-wise
	// but the account has not completed email verification.
	ErrEmailNotVerified = errors.New("email is not verified")

	// ErrAlreadyVerified is returned when a verification resend targets an
	// account that already completed verification.
	ErrAlreadyVerified = errors.New("email is already verified")

	// ErrResendRateLimited is returned when verification emails are requested
	// too frequently or the attempt budget is exhausted.
	ErrResendRateLimited = errors.New("verification resend rate limited")

	// ErrInvalidOrExpiredToken is returned when a one-time token does not
	// match any account or has expired. The two cases are deliberately not
	// distinguished in the response.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrAccountNotFound is returned when an operation targets an account
	// that does not exist or is hidden by soft deletion.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotDeleted is returned when a restore targets an account that
	// exists but was never deleted.
	ErrNotDeleted = errors.New("account is not deleted")

	// ErrTokenCreationFailed is returned when signing a session JWT fails.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpiredOrInvalid is the normalised error for any session
	// token validation failure (expired, wrong issuer/audience, malformed).
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)

// Conversation lifecycle errors.
var (
	// ErrConversationNotFound is returned when a conversation does not exist
	// or belongs to another account.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound is returned when a message ID does not exist inside
	// the targeted conversation.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidIndex is returned when a message index is out of range.
	ErrInvalidIndex = errors.New("message index out of range")

	// ErrNotEditable is returned when an edit targets a message that is not
	// user-authored.
	ErrNotEditable = errors.New("message is not editable")

	// ErrEmptyContent is returned when an edit supplies blank content.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrFeedbackNotAllowed is returned when feedback targets a message that
	// is not assistant-authored.
	ErrFeedbackNotAllowed = errors.New("feedback is only allowed on assistant messages")

	// ErrInvalidVote is returned for a vote outside {helpful, unhelpful}.
	ErrInvalidVote = validators.ErrInvalidVote

	// ErrInvalidIssueType is returned for an issue type outside the fixed
	// catalogue.
	ErrInvalidIssueType = validators.ErrInvalidIssueType

	// ErrDetailsTooLong is returned when feedback details exceed the cap.
	ErrDetailsTooLong = validators.ErrDetailsTooLong

	// ErrForbidden is returned when the permanent clear path is requested
	// without the separate admin gate.
	ErrForbidden = errors.New("operation forbidden")
)
