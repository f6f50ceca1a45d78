package models

// SignupRequest is the payload of POST /api/auth/signup.
type SignupRequest struct {
	// Name is the display name for the new account.
	Name string `json:"name"`

	// Email is the account email. Normalized to lower case before storage.
	Email string `json:"email"`

	// Password is the plaintext password. Minimum 8 characters; hashed with
	// bcrypt before storage and never retained in plaintext.
	Password string `json:"password"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the payload of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload of POST /api/auth/reset-password.
// Token is the plaintext reset token from the emailed link.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyEmailRequest is the payload of POST /api/auth/verify-email.
// Token is the plaintext verification token from the emailed link.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ResendVerificationRequest is the payload of POST /api/auth/resend-verification.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// DeleteAccountRequest is the optional payload of DELETE /api/auth/delete-account.
type DeleteAccountRequest struct {
	// Reason is the optional user-supplied deletion reason, kept for audit.
	Reason string `json:"reason,omitempty"`
}

// RestoreAccountRequest is the payload of the admin-only
// POST /api/admin/restore-account.
type RestoreAccountRequest struct {
	// Email is the original (pre-deletion) email of the account to restore.
	Email string `json:"email"`
}

// AskRequest is the payload of POST /api/chat/query.
type AskRequest struct {
	// ConversationID continues an existing conversation when set; a new
	// conversation is created when empty.
	ConversationID string `json:"conversation_id,omitempty"`

	// Question is the user's regulation query.
	Question string `json:"question"`

	// CodeType is the target region. Falls back to the account's default
	// when empty.
	CodeType Region `json:"code_type,omitempty"`
}

// EditMessageRequest is the payload of PATCH /api/messages/edit.
type EditMessageRequest struct {
	ConversationID string `json:"conversation_id"`

	// MessageIndex addresses the message by its position in the log.
	MessageIndex int `json:"message_index"`

	NewContent string `json:"new_content"`

	// ShouldRegenerate requests truncation of every message after the edited
	// one so the answer can be recomputed. When false the content is
	// replaced in place and the rest of the log is kept.
	ShouldRegenerate bool `json:"should_regenerate"`
}

// FeedbackRequest is the payload of POST /api/messages/feedback.
type FeedbackRequest struct {
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Vote           Vote      `json:"vote"`
	IssueType      IssueType `json:"issue_type,omitempty"`
	Details        string    `json:"details,omitempty"`
}

// RecentlyViewedRequest is the payload of POST /api/user/recently-viewed.
// The target region travels in the region query parameter.
type RecentlyViewedRequest struct {
	DocumentID  string `json:"document_id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	Page        int    `json:"page"`
}

// ThemeRequest is the payload of POST /api/user/theme.
type ThemeRequest struct {
	Theme Theme `json:"theme"`
}
