package models

import "time"

// ConversationMetadata is the nested metadata document of a conversation.
// Absence of the document is treated as "not archived" at the storage layer;
// within the application the struct is always materialized so archived state
// is an explicit boolean, never a missing field.
type ConversationMetadata struct {
	// IsArchived excludes the conversation from active-use views without
	// removing its messages.
	IsArchived bool `json:"is_archived"`

	// ArchivedAt is when the conversation was archived.
	ArchivedAt *time.Time `json:"archived_at,omitempty"`

	// CodeType is the region whose regulations this conversation queries.
	CodeType Region `json:"code_type,omitempty"`
}

// Conversation is an ordered message log owned by exactly one account.
//
// Messages are stored embedded in the conversation row and are always read
// and written as a whole; concurrent edits of the same conversation resolve
// last-write-wins (see ConversationRepository.Update).
type Conversation struct {
	// ID is the unique conversation identifier (UUID string).
	ID string `json:"id"`

	// UserID is the owning account's ID. All operations are scoped to it.
	UserID string `json:"user_id"`

	// Title is the conversation display title, derived from the first query.
	Title string `json:"title"`

	// Messages is the append-ordered message log.
	Messages []Message `json:"messages"`

	// Metadata holds the archived flag and query defaults.
	Metadata ConversationMetadata `json:"metadata"`

	// CreatedAt is when the conversation was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the conversation row was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Conversation model.
func (c Conversation) TableName() string {
	return "conversations"
}

// Archive marks the conversation archived. It reports false when the
// conversation was already archived (the operation is an idempotent no-op).
func (c *Conversation) Archive(now time.Time) bool {
	if c.Metadata.IsArchived {
		return false
	}
	c.Metadata.IsArchived = true
	c.Metadata.ArchivedAt = &now
	return true
}

// MessageByID returns a pointer to the message with the given ID and its
// index, or (nil, -1) when no such message exists.
func (c *Conversation) MessageByID(id string) (*Message, int) {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i], i
		}
	}
	return nil, -1
}
