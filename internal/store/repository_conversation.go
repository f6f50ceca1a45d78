package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/models"
)

// conversationRepository is the PostgreSQL-backed implementation of
// [ConversationRepository]. Each conversation row embeds its message array
// as a JSONB document; metadata fields (archived flag, archive time, code
// type) are stored as plain columns so listing can filter on them.
//
// Every method obtains a context-scoped logger via [logger.FromContext] so
// that all database interactions are traced with structured fields
// (user_id, conversation_id, message count, etc.).
type conversationRepository struct {
	*DB
	logger *logger.Logger
}

// NewConversationRepository constructs a [ConversationRepository] backed by
// the provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewConversationRepository(db *DB, logger *logger.Logger) ConversationRepository {
	return &conversationRepository{
		DB:     db,
		logger: logger,
	}
}

// encodeMessages marshals a conversation's message array for JSONB storage.
// A nil slice is stored as an empty array so reads never see JSON null.
func encodeMessages(messages []models.Message) ([]byte, error) {
	if messages == nil {
		messages = []models.Message{}
	}

	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("%w: messages: %w", ErrEncodingDocument, err)
	}

	return encoded, nil
}

// scanConversation scans a full conversations row, decoding the embedded
// message array.
func scanConversation(row rowScanner) (models.Conversation, error) {
	var conversation models.Conversation
	var messages []byte

	err := row.Scan(
		&conversation.ID,
		&conversation.UserID,
		&conversation.Title,
		&messages,
		&conversation.Metadata.IsArchived,
		&conversation.Metadata.ArchivedAt,
		&conversation.Metadata.CodeType,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return models.Conversation{}, err
	}

	if err = json.Unmarshal(messages, &conversation.Messages); err != nil {
		return models.Conversation{}, fmt.Errorf("%w: messages: %w", ErrDecodingDocument, err)
	}

	return conversation, nil
}

// Create inserts a new conversation row and returns it with server-assigned
// timestamps (CreatedAt, UpdatedAt) populated.
func (r *conversationRepository) Create(ctx context.Context, conversation models.Conversation) (models.Conversation, error) {
	log := logger.FromContext(ctx)

	messages, err := encodeMessages(conversation.Messages)
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Create").
			Str("user_id", conversation.UserID).
			Msg("failed to encode message array")
		return models.Conversation{}, err
	}

	row := r.DB.QueryRowContext(ctx, createConversation,
		conversation.ID,
		conversation.UserID,
		conversation.Title,
		messages,
		conversation.Metadata.IsArchived,
		conversation.Metadata.ArchivedAt,
		conversation.Metadata.CodeType,
	)

	if err = row.Err(); err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Create").
			Str("user_id", conversation.UserID).
			Msg("failed to execute insert")
		return models.Conversation{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = row.Scan(&conversation.CreatedAt, &conversation.UpdatedAt); err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Create").
			Str("user_id", conversation.UserID).
			Msg("failed to scan inserted row")
		return models.Conversation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return conversation, nil
}

// FindByID retrieves the user's conversation with the given ID.
//
// A conversation that exists but belongs to another user is reported as
// [ErrConversationNotFound]: ownership is part of the row's identity here.
func (r *conversationRepository) FindByID(ctx context.Context, userID string, conversationID string) (models.Conversation, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, findConversationByID, conversationID, userID)

	if err := row.Err(); err != nil {
		log.Err(err).
			Str("func", "conversationRepository.FindByID").
			Str("user_id", userID).
			Str("conversation_id", conversationID).
			Msg("failed to execute query")
		return models.Conversation{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	conversation, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Conversation{}, ErrConversationNotFound
		}
		log.Err(err).
			Str("func", "conversationRepository.FindByID").
			Str("user_id", userID).
			Str("conversation_id", conversationID).
			Msg("failed to scan conversation row")
		return models.Conversation{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return conversation, nil
}

// List returns the user's conversations ordered by most recently updated.
// Archived conversations are excluded unless includeArchived is set.
//
// Returns an empty slice when the user has no matching conversations.
func (r *conversationRepository) List(ctx context.Context, userID string, includeArchived bool) ([]models.Conversation, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListConversationsQuery(ctx, userID, includeArchived)
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.List").
			Str("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.List").
			Str("user_id", userID).
			Bool("include_archived", includeArchived).
			Msg("failed to execute query for listing conversations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Conversation, 0, 20)

	for rows.Next() {
		conversation, scanErr := scanConversation(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "conversationRepository.List").
				Str("user_id", userID).
				Msg("failed to scan conversation row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, conversation)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "conversationRepository.List").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// Update rewrites the conversation's title, message array and metadata, and
// bumps updated_at. The message array is always written as a whole, so
// concurrent writers resolve last-write-wins at the row level.
func (r *conversationRepository) Update(ctx context.Context, conversation models.Conversation) error {
	log := logger.FromContext(ctx)

	messages, err := encodeMessages(conversation.Messages)
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Update").
			Str("conversation_id", conversation.ID).
			Msg("failed to encode message array")
		return err
	}

	result, err := r.DB.ExecContext(ctx, updateConversation,
		conversation.ID,
		conversation.UserID,
		conversation.Title,
		messages,
		conversation.Metadata.IsArchived,
		conversation.Metadata.ArchivedAt,
		conversation.Metadata.CodeType,
	)
	if err != nil {
		if r.errorClassificator.Classify(err) == Retryable {
			log.Warn().
				Str("func", "conversationRepository.Update").
				Str("conversation_id", conversation.ID).
				Msg("transient database error, safe to retry")
		}
		log.Err(err).
			Str("func", "conversationRepository.Update").
			Str("user_id", conversation.UserID).
			Str("conversation_id", conversation.ID).
			Int("messages_count", len(conversation.Messages)).
			Msg("failed to execute update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Update").
			Str("conversation_id", conversation.ID).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Warn().
			Str("func", "conversationRepository.Update").
			Str("user_id", conversation.UserID).
			Str("conversation_id", conversation.ID).
			Msg("conversation not found")
		return ErrConversationNotFound
	}

	return nil
}

// Archive marks the conversation as archived at the given time. Archiving
// an already-archived conversation rewrites the same flag and is harmless;
// idempotency reporting is a service-layer concern.
func (r *conversationRepository) Archive(ctx context.Context, userID string, conversationID string, archivedAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, archiveConversation, conversationID, userID, archivedAt)
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Archive").
			Str("user_id", userID).
			Str("conversation_id", conversationID).
			Msg("failed to execute archive update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Archive").
			Str("conversation_id", conversationID).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// Delete permanently removes the conversation row. There is no soft-delete
// at this level: archived-but-kept conversations stay in the table with the
// archived flag set, and only an explicit permanent clear reaches here.
func (r *conversationRepository) Delete(ctx context.Context, userID string, conversationID string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, deleteConversation, conversationID, userID)
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Delete").
			Str("user_id", userID).
			Str("conversation_id", conversationID).
			Msg("failed to execute delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).
			Str("func", "conversationRepository.Delete").
			Str("conversation_id", conversationID).
			Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrConversationNotFound
	}

	log.Info().
		Str("func", "conversationRepository.Delete").
		Str("user_id", userID).
		Str("conversation_id", conversationID).
		Msg("permanently deleted conversation")

	return nil
}
