package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-reg-assist/models"
)

// UserRepository persists account records in the "users" table.
//
// Lookup methods return [ErrNoUserWasFound] when no row matches; CreateUser
// returns [ErrEmailAlreadyExists] on a unique email collision. Token lookups
// match against stored hashes only — the repository never sees plaintext
// one-time tokens.
type UserRepository interface {
	// CreateUser inserts a new account row and returns it with
	// server-assigned timestamps populated.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail retrieves the account whose email matches exactly.
	// Soft-deleted accounts are matchable only via their placeholder email.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByID retrieves the account with the given ID.
	FindUserByID(ctx context.Context, userID string) (models.User, error)

	// FindUserByOriginalEmail retrieves the soft-deleted account whose
	// pre-deletion email matches. Used by the admin restore path, where the
	// live email column holds only the placeholder.
	FindUserByOriginalEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByVerificationToken retrieves the account holding the given
	// email verification token hash.
	FindUserByVerificationToken(ctx context.Context, tokenHash string) (models.User, error)

	// FindUserByResetToken retrieves the account holding the given password
	// reset token hash.
	FindUserByResetToken(ctx context.Context, tokenHash string) (models.User, error)

	// UpdateUser writes the full account row identified by user.ID and bumps
	// updated_at. The row is written as a whole: callers load, mutate, save.
	UpdateUser(ctx context.Context, user models.User) error

	// ClearExpiredTokens erases verification and reset token hashes whose
	// expiry precedes now, and reports how many rows were touched.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// ConversationRepository persists conversation documents in the
// "conversations" table. Each conversation row embeds its full message
// array as a JSONB document, so message-level edits are expressed as a
// whole-array rewrite through Update.
//
// All lookups are scoped by the owning user ID: a conversation ID that
// exists but belongs to another user behaves as not found.
type ConversationRepository interface {
	// Create inserts a new conversation row and returns it with
	// server-assigned timestamps populated.
	Create(ctx context.Context, conversation models.Conversation) (models.Conversation, error)

	// FindByID retrieves the user's conversation with the given ID.
	FindByID(ctx context.Context, userID string, conversationID string) (models.Conversation, error)

	// List returns the user's conversations ordered by most recently
	// updated. Archived conversations are excluded unless includeArchived
	// is set.
	List(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error)

	// Update rewrites the conversation's title, message array and metadata,
	// and bumps updated_at. Returns [ErrConversationNotFound] when the row
	// does not exist or belongs to another user.
	Update(ctx context.Context, conversation models.Conversation) error

	// Archive marks the conversation as archived at the given time.
	Archive(ctx context.Context, userID string, conversationID string, archivedAt time.Time) error

	// Delete permanently removes the conversation row.
	Delete(ctx context.Context, userID string, conversationID string) error
}
