package models

import (
	"fmt"
	"time"
)

// Theme is a UI color scheme preference stored per account.
type Theme string

// Supported themes. Any other value is rejected at the service boundary.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is one of the supported themes.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Region identifies a building-code jurisdiction supported by the assistant.
type Region string

// Supported regions. Each region has its own regulation corpus on the
// retrieval backend and its own recently-viewed document list on the account.
const (
	RegionIndia    Region = "india"
	RegionScotland Region = "scotland"
	RegionDubai    Region = "dubai"
)

// Valid reports whether r is one of the supported regions.
func (r Region) Valid() bool {
	return r == RegionIndia || r == RegionScotland || r == RegionDubai
}

// MaxRecentlyViewed caps the per-region recently-viewed document list.
// Adding an entry beyond the cap evicts the oldest one.
const MaxRecentlyViewed = 10

// RecentlyViewedPDF is a single entry of the per-region recently-viewed
// document list kept on the account.
type RecentlyViewedPDF struct {
	// DocumentID identifies the regulation document on the retrieval backend.
	DocumentID string `json:"document_id"`

	// DisplayName is the human-readable document title shown in the UI.
	DisplayName string `json:"display_name"`

	// Filename is the source PDF file name.
	Filename string `json:"filename"`

	// Page is the 1-based page number that was viewed. Always >= 1.
	Page int `json:"page"`

	// ViewedAt is when the user opened the document.
	ViewedAt time.Time `json:"viewed_at"`
}

// Preferences holds per-account UI and query defaults.
// Stored as a JSONB document inside the users row.
type Preferences struct {
	// Theme is the UI color scheme, one of [ThemeLight] or [ThemeDark].
	Theme Theme `json:"theme"`

	// DefaultCodeType is the region whose building codes are queried when a
	// request does not specify one.
	DefaultCodeType Region `json:"default_code_type"`
}

// UsageStats holds lightweight per-account usage counters.
// Stored as a JSONB document inside the users row.
type UsageStats struct {
	// QueriesCount is the total number of regulation queries the account
	// has submitted.
	QueriesCount int `json:"queries_count"`

	// LastLoginAt is the time of the most recent successful login.
	// Nil until the first login.
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// User represents an account record: identity, credentials, one-time token
// state, soft-deletion markers, and nested preference/usage documents.
//
// Credential-bearing fields (PasswordHash, token hashes) are never serialized
// to JSON. One-time tokens are stored hashed only — the plaintext exists
// transiently in the outbound email and the inbound verification request.
type User struct {
	// ID is the unique account identifier (UUID string).
	ID string `json:"id"`

	// Email is the unique, lowercased account email. For soft-deleted
	// accounts this holds a synthesized placeholder so the original address
	// becomes re-registrable; the pre-deletion value lives in OriginalEmail.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never plaintext, never serialized.
	PasswordHash string `json:"-"`

	// IsEmailVerified reports whether the account completed email
	// verification. Login requires a verified account.
	IsEmailVerified bool `json:"is_email_verified"`

	// VerificationTokenHash is the SHA-256 hash of the outstanding email
	// verification token. Empty once the account is verified.
	VerificationTokenHash string `json:"-"`

	// VerificationExpiresAt bounds the validity of the verification token.
	VerificationExpiresAt *time.Time `json:"-"`

	// VerificationAttempts counts how many verification emails were sent.
	VerificationAttempts int `json:"-"`

	// VerificationLastSentAt is when the last verification email was sent.
	// Used to rate-limit resend requests.
	VerificationLastSentAt *time.Time `json:"-"`

	// ResetTokenHash is the SHA-256 hash of the outstanding password reset
	// token. Empty when no reset is in flight.
	ResetTokenHash string `json:"-"`

	// ResetExpiresAt bounds the validity of the reset token.
	ResetExpiresAt *time.Time `json:"-"`

	// IsDeleted marks the account as soft-deleted. Soft-deleted accounts are
	// excluded from authentication but their data is retained for recovery.
	IsDeleted bool `json:"is_deleted"`

	// DeletedAt is when the account was soft-deleted.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// DeletionReason is the optional user-supplied reason for deletion.
	DeletionReason string `json:"-"`

	// OriginalEmail preserves the pre-deletion email for admin restore.
	OriginalEmail string `json:"-"`

	// OriginalName preserves the pre-deletion name for admin restore.
	OriginalName string `json:"-"`

	// Preferences holds UI and query defaults.
	Preferences Preferences `json:"preferences"`

	// Stats holds usage counters.
	Stats UsageStats `json:"stats"`

	// RecentlyViewed maps a region to its bounded, newest-first list of
	// recently opened regulation documents.
	RecentlyViewed map[Region][]RecentlyViewedPDF `json:"recently_viewed,omitempty"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the account row was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// PlaceholderEmail synthesizes the non-colliding email a soft-deleted account
// is rewritten to. The original address is embedded so operators can still
// correlate the row, and the nanosecond timestamp keeps the value unique.
func PlaceholderEmail(original string, deletedAt time.Time) string {
	return fmt.Sprintf("deleted_%d_%s", deletedAt.UnixNano(), original)
}

// MarkDeleted applies the soft-deletion rewrite: flags the account, preserves
// the original email/name, and replaces Email with a placeholder.
// It is a no-op shape-wise if called twice; callers guard against that.
func (u *User) MarkDeleted(reason string, now time.Time) {
	u.IsDeleted = true
	u.DeletedAt = &now
	u.DeletionReason = reason
	u.OriginalEmail = u.Email
	u.OriginalName = u.Name
	u.Email = PlaceholderEmail(u.Email, now)
}

// Undelete reverses MarkDeleted from the preserved fields and clears all
// deletion markers.
func (u *User) Undelete() {
	u.Email = u.OriginalEmail
	u.Name = u.OriginalName
	u.IsDeleted = false
	u.DeletedAt = nil
	u.DeletionReason = ""
	u.OriginalEmail = ""
	u.OriginalName = ""
}

// AddRecentlyViewed prepends entry to the region's recently-viewed list,
// removing any existing entry for the same document and clamping the list
// to [MaxRecentlyViewed] items (newest first).
func (u *User) AddRecentlyViewed(region Region, entry RecentlyViewedPDF) {
	if u.RecentlyViewed == nil {
		u.RecentlyViewed = make(map[Region][]RecentlyViewedPDF)
	}

	current := u.RecentlyViewed[region]
	filtered := make([]RecentlyViewedPDF, 0, len(current)+1)
	filtered = append(filtered, entry)
	for _, item := range current {
		if item.DocumentID == entry.DocumentID {
			continue
		}
		filtered = append(filtered, item)
	}

	if len(filtered) > MaxRecentlyViewed {
		filtered = filtered[:MaxRecentlyViewed]
	}

	u.RecentlyViewed[region] = filtered
}
