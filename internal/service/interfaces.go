package service

import (
	"context"

	"github.com/MKhiriev/go-reg-assist/models"
)

// AccountService implements the account lifecycle: registration, email
// verification, login, password reset, soft deletion and admin restore.
//
// All operations return sentinel errors from this package; transport-level
// handlers translate them to HTTP statuses without inspecting messages.
type AccountService interface {
	// Signup registers a new account, issues a session token, and sends a
	// verification email best-effort. A failed email delivery does not fail
	// signup; it is reported in AuthResponse.EmailStatus instead.
	Signup(ctx context.Context, request models.SignupRequest) (models.AuthResponse, error)

	// VerifyEmail consumes a plaintext verification token. Unknown and
	// expired tokens both surface as [ErrInvalidOrExpiredToken].
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification re-issues the verification token and sends a fresh
	// email. Rate-limited per account.
	ResendVerification(ctx context.Context, email string) error

	// Login authenticates an account and issues a session token.
	Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error)

	// ParseToken validates a session JWT and returns its decoded form.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// ForgotPassword starts a password reset. It always succeeds from the
	// caller's point of view so account existence is not disclosed.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a plaintext reset token and sets a new password.
	ResetPassword(ctx context.Context, token string, newPassword string) error

	// SoftDelete marks the account deleted, rewrites its email to a
	// placeholder, and archives all of its conversations.
	SoftDelete(ctx context.Context, userID string, reason string) (models.DeletionSummary, error)

	// DeletionPreview reports what SoftDelete would do without mutating
	// anything.
	DeletionPreview(ctx context.Context, userID string) (models.DeletionSummary, error)

	// Restore reverses a soft deletion, looked up by the account's original
	// (pre-deletion) email. Admin-only at the transport layer.
	Restore(ctx context.Context, originalEmail string) (models.User, error)

	// Me returns the account record for the authenticated user.
	Me(ctx context.Context, userID string) (models.User, error)
}

// ConversationService implements the regulation Q&A flow: asking questions
// through the retrieval backend, conversation listing and retrieval, message
// editing with optional truncation, answer feedback, archiving and bulk
// clearing.
type ConversationService interface {
	// Ask submits a regulation question, appends the question and the
	// backend's answer to the target conversation (creating one when no
	// conversation ID is given), and persists the result. Nothing is
	// persisted when the retrieval backend fails.
	Ask(ctx context.Context, userID string, request models.AskRequest) (models.AskResponse, error)

	// ListConversations returns the user's conversations, newest-updated
	// first. Archived conversations are excluded unless includeArchived.
	ListConversations(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error)

	// GetConversation returns one conversation with its full message log.
	GetConversation(ctx context.Context, userID string, conversationID string) (models.Conversation, error)

	// EditMessage rewrites a user message addressed by index. With
	// ShouldRegenerate set, every message after the edited one is discarded
	// so the answer can be recomputed.
	EditMessage(ctx context.Context, userID string, request models.EditMessageRequest) (models.EditMessageResponse, error)

	// RecordFeedback attaches a vote to an assistant message. Re-voting
	// overwrites the record and preserves the prior vote.
	RecordFeedback(ctx context.Context, userID string, request models.FeedbackRequest) (models.FeedbackResponse, error)

	// GetFeedback returns the feedback record of one assistant message, or a
	// response with nil Feedback when no vote was recorded.
	GetFeedback(ctx context.Context, userID string, conversationID string, messageID string) (models.FeedbackResponse, error)

	// ArchiveConversation archives one conversation. Archiving an already
	// archived conversation is a reported no-op.
	ArchiveConversation(ctx context.Context, userID string, conversationID string) (models.ArchiveOutcome, error)

	// ClearAll archives every conversation of the account, or permanently
	// deletes them when permanent is set. Per-item failures are collected,
	// not fatal.
	ClearAll(ctx context.Context, userID string, permanent bool) (models.ClearResult, error)

	// ClearAllPreview reports what ClearAll would do without mutating
	// anything.
	ClearAllPreview(ctx context.Context, userID string, permanent bool) (models.ClearResult, error)
}

// ProfileService implements per-account preferences: UI theme and the
// per-region recently-viewed document lists.
type ProfileService interface {
	// Theme returns the account's UI theme.
	Theme(ctx context.Context, userID string) (models.Theme, error)

	// SetTheme updates the account's UI theme.
	SetTheme(ctx context.Context, userID string, theme models.Theme) (models.Theme, error)

	// RecentlyViewed returns the region's recently-viewed document list,
	// newest first.
	RecentlyViewed(ctx context.Context, userID string, region models.Region) ([]models.RecentlyViewedPDF, error)

	// AddRecentlyViewed records a document view, deduplicating by document ID
	// and clamping the list to its cap.
	AddRecentlyViewed(ctx context.Context, userID string, region models.Region, request models.RecentlyViewedRequest) ([]models.RecentlyViewedPDF, error)

	// ClearRecentlyViewed drops the region's recently-viewed list.
	ClearRecentlyViewed(ctx context.Context, userID string, region models.Region) error
}
