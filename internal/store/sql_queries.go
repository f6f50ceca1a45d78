package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (
		id,
		email,
		name,
		password_hash,
		is_email_verified,
		verification_token_hash,
		verification_token_expires_at,
		verification_attempts,
		verification_last_sent_at,
		reset_token_hash,
		reset_token_expires_at,
		is_deleted,
		deleted_at,
		deletion_reason,
		original_email,
		original_name,
		preferences,
		stats,
		recently_viewed
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	RETURNING created_at, updated_at;`

	selectUserColumns = `SELECT id, email, name, password_hash, is_email_verified,
		verification_token_hash, verification_token_expires_at, verification_attempts, verification_last_sent_at,
		reset_token_hash, reset_token_expires_at,
		is_deleted, deleted_at, deletion_reason, original_email, original_name,
		preferences, stats, recently_viewed, created_at, updated_at
	FROM users`

	findUserByEmail = selectUserColumns + `
	WHERE email = $1;`

	findUserByID = selectUserColumns + `
	WHERE id = $1;`

	findUserByOriginalEmail = selectUserColumns + `
	WHERE original_email = $1 AND is_deleted;`

	findUserByVerificationToken = selectUserColumns + `
	WHERE verification_token_hash = $1 AND verification_token_hash <> '';`

	findUserByResetToken = selectUserColumns + `
	WHERE reset_token_hash = $1 AND reset_token_hash <> '';`

	updateUser = `UPDATE users SET
		email = $2,
		name = $3,
		password_hash = $4,
		is_email_verified = $5,
		verification_token_hash = $6,
		verification_token_expires_at = $7,
		verification_attempts = $8,
		verification_last_sent_at = $9,
		reset_token_hash = $10,
		reset_token_expires_at = $11,
		is_deleted = $12,
		deleted_at = $13,
		deletion_reason = $14,
		original_email = $15,
		original_name = $16,
		preferences = $17,
		stats = $18,
		recently_viewed = $19,
		updated_at = NOW()
	WHERE id = $1;`

	clearExpiredVerificationTokens = `UPDATE users SET
		verification_token_hash = '',
		verification_token_expires_at = NULL
	WHERE verification_token_hash <> '' AND verification_token_expires_at < $1;`

	clearExpiredResetTokens = `UPDATE users SET
		reset_token_hash = '',
		reset_token_expires_at = NULL
	WHERE reset_token_hash <> '' AND reset_token_expires_at < $1;`

	createConversation = `INSERT INTO conversations (
		id,
		user_id,
		title,
		messages,
		is_archived,
		archived_at,
		code_type
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at;`

	findConversationByID = `SELECT id, user_id, title, messages, is_archived, archived_at, code_type, created_at, updated_at
	FROM conversations
	WHERE id = $1 AND user_id = $2;`

	updateConversation = `UPDATE conversations SET
		title = $3,
		messages = $4,
		is_archived = $5,
		archived_at = $6,
		code_type = $7,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2;`

	archiveConversation = `UPDATE conversations SET
		is_archived = TRUE,
		archived_at = $3,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2;`

	deleteConversation = `DELETE FROM conversations
	WHERE id = $1 AND user_id = $2;`
)

// conversationColumns is the canonical column order shared by the static
// queries above and the squirrel-built listing query.
var conversationColumns = []string{
	"id", "user_id", "title", "messages",
	"is_archived", "archived_at", "code_type",
	"created_at", "updated_at",
}

// buildListConversationsQuery builds the SELECT used to list a user's
// conversations, newest-updated first. Archived conversations are filtered
// out unless includeArchived is set.
func buildListConversationsQuery(_ context.Context, userID string, includeArchived bool) (string, []any, error) {
	builder := sq.Select(conversationColumns...).
		From("conversations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		PlaceholderFormat(sq.Dollar)

	if !includeArchived {
		builder = builder.Where(sq.Eq{"is_archived": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
