package models

import "time"

// Role identifies the author of a conversation message.
type Role string

// Message roles. User messages are editable; assistant messages carry the
// regulation answer payload and accept feedback.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DocumentReference points at a location in a regulation document that an
// assistant answer was derived from.
type DocumentReference struct {
	// DocumentID identifies the document on the retrieval backend.
	DocumentID string `json:"document_id"`

	// DisplayName is the human-readable document title.
	DisplayName string `json:"display_name"`

	// Filename is the source PDF file name.
	Filename string `json:"filename"`

	// Page is the 1-based page the referenced passage appears on.
	Page int `json:"page"`

	// Section is the clause/section label inside the document, if known.
	Section string `json:"section,omitempty"`
}

// RegulationAnswer is the retrieval payload attached to assistant messages.
type RegulationAnswer struct {
	// Confidence is the backend's answer confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// ProcessingTimeMS is how long the backend took to produce the answer.
	ProcessingTimeMS int64 `json:"processing_time_ms"`

	// References lists the document passages the answer was derived from.
	References []DocumentReference `json:"references,omitempty"`
}

// Message is a single entry of a conversation's ordered message log.
//
// Messages are append-ordered and addressed by index. The first edit of a
// message permanently preserves the pre-edit text in OriginalContent.
type Message struct {
	// ID is the unique message identifier (UUID string).
	ID string `json:"id"`

	// Role is the message author, one of [RoleUser] or [RoleAssistant].
	Role Role `json:"role"`

	// Content is the current message text.
	Content string `json:"content"`

	// OriginalContent holds the pre-edit text, set on the first edit and
	// never changed afterwards. Empty for never-edited messages.
	OriginalContent string `json:"original_content,omitempty"`

	// IsEdited reports whether the message has been edited at least once.
	IsEdited bool `json:"is_edited,omitempty"`

	// EditedAt is when the message was last edited.
	EditedAt *time.Time `json:"edited_at,omitempty"`

	// Timestamp is when the message was appended to the conversation.
	Timestamp time.Time `json:"timestamp"`

	// Regulation is the retrieval payload; assistant messages only.
	Regulation *RegulationAnswer `json:"regulation,omitempty"`

	// Feedback is the user's vote on the answer; assistant messages only.
	Feedback *MessageFeedback `json:"feedback,omitempty"`
}

// Edit replaces the message content, stamping edit markers. On the first
// edit the previous content is snapshotted into OriginalContent; later edits
// leave the snapshot untouched.
func (m *Message) Edit(newContent string, now time.Time) {
	if !m.IsEdited {
		m.OriginalContent = m.Content
	}
	m.Content = newContent
	m.IsEdited = true
	m.EditedAt = &now
}
