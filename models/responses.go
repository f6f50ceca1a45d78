package models

import "time"

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	// User is the account record with credential fields stripped.
	User *User `json:"user"`

	// Token is the compact session JWT.
	Token string `json:"token"`

	// EmailSent reports whether the verification email was handed to the
	// mail provider. Signup succeeds even when delivery fails; the failure
	// is surfaced here instead of aborting account creation.
	EmailSent bool `json:"email_sent,omitempty"`

	// EmailStatus carries a short delivery status message ("sent", or the
	// reason delivery failed).
	EmailStatus string `json:"email_status,omitempty"`
}

// MessageResponse is a generic human-readable status payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// EditMessageResponse is returned by PATCH /api/messages/edit.
type EditMessageResponse struct {
	// Conversation is the post-edit conversation state.
	Conversation *Conversation `json:"conversation"`

	// ShouldRegenerate echoes whether the caller must recompute the answer
	// for the edited question.
	ShouldRegenerate bool `json:"should_regenerate"`

	// RemovedMessages is how many messages were discarded by truncation.
	RemovedMessages int `json:"removed_messages"`
}

// FeedbackResponse is returned by the feedback endpoints.
type FeedbackResponse struct {
	MessageID string           `json:"message_id"`
	Feedback  *MessageFeedback `json:"feedback"`
}

// AskResponse is returned by POST /api/chat/query.
type AskResponse struct {
	Conversation *Conversation `json:"conversation"`

	// Answer is the assistant message appended by this query.
	Answer *Message `json:"answer"`
}

// ConversationListResponse is returned by GET /api/conversations.
type ConversationListResponse struct {
	Conversations []Conversation `json:"conversations"`
	Count         int            `json:"count"`
}

// ArchiveOutcome classifies the result of archiving one conversation during
// a bulk clear.
type ArchiveOutcome string

// Bulk-archive outcomes. already_archived is a reported no-op, not an error.
const (
	OutcomeArchived        ArchiveOutcome = "archived"
	OutcomeAlreadyArchived ArchiveOutcome = "already_archived"
	OutcomeDeleted         ArchiveOutcome = "deleted"
	OutcomeError           ArchiveOutcome = "error"
)

// ClearDetail records the outcome for a single conversation of a bulk clear.
type ClearDetail struct {
	ConversationID string         `json:"conversation_id"`
	Outcome        ArchiveOutcome `json:"outcome"`
	Error          string         `json:"error,omitempty"`
}

// ClearResult summarizes a bulk clear (or its dry-run preview).
//
// For the soft path DeletedCount counts conversations newly archived by this
// call; AlreadyArchived counts no-ops; Errors counts per-item failures that
// did not abort the batch.
type ClearResult struct {
	DeletedCount    int           `json:"deleted_count"`
	AlreadyArchived int           `json:"already_archived"`
	Errors          int           `json:"errors"`
	Permanent       bool          `json:"permanent"`
	Details         []ClearDetail `json:"details,omitempty"`
}

// DeletionSummary is returned by account deletion (and its dry-run preview).
type DeletionSummary struct {
	// UserID is the soft-deleted account's ID.
	UserID string `json:"user_id"`

	// ConversationsArchived is how many conversations the cascade archived
	// (preview: how many it would archive).
	ConversationsArchived int `json:"conversations_archived"`

	// AlreadyArchived is how many owned conversations were archived before
	// the cascade ran.
	AlreadyArchived int `json:"already_archived"`

	// Errors counts conversations the cascade failed to archive. Failures
	// do not abort the deletion.
	Errors int `json:"errors"`

	// DeletedAt is when the soft deletion took effect. Zero for previews.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Preview marks a dry run that mutated nothing.
	Preview bool `json:"preview,omitempty"`
}

// RecentlyViewedResponse is returned by the recently-viewed endpoints.
type RecentlyViewedResponse struct {
	Region Region              `json:"region"`
	PDFs   []RecentlyViewedPDF `json:"pdfs"`
	Count  int                 `json:"count"`
}

// ThemeResponse is returned by the theme endpoints.
type ThemeResponse struct {
	Theme Theme `json:"theme"`
}

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	// Error is a short human-readable message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code (e.g. "ACCOUNT_DELETED").
	Code string `json:"code,omitempty"`

	// Detail carries internal error detail in development mode only.
	Detail string `json:"detail,omitempty"`
}
