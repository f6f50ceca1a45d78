package models

import "time"

// Vote is the user's verdict on an assistant answer.
type Vote string

// Allowed vote values.
const (
	VoteHelpful   Vote = "helpful"
	VoteUnhelpful Vote = "unhelpful"
)

// Valid reports whether v is one of the allowed vote values.
func (v Vote) Valid() bool {
	return v == VoteHelpful || v == VoteUnhelpful
}

// IssueType categorizes what was wrong with an unhelpful answer.
type IssueType string

// The fixed issue-type catalogue. Votes may omit the issue type entirely.
const (
	IssueIncorrectAnswer     IssueType = "incorrect_answer"
	IssueIncompleteAnswer    IssueType = "incomplete_answer"
	IssueWrongReference      IssueType = "wrong_reference"
	IssueOutdatedInformation IssueType = "outdated_information"
	IssueUnclearExplanation  IssueType = "unclear_explanation"
	IssueOther               IssueType = "other"
)

// Valid reports whether t is part of the fixed issue-type catalogue.
func (t IssueType) Valid() bool {
	switch t {
	case IssueIncorrectAnswer, IssueIncompleteAnswer, IssueWrongReference,
		IssueOutdatedInformation, IssueUnclearExplanation, IssueOther:
		return true
	}
	return false
}

// MaxFeedbackDetails caps the free-text details of a feedback record.
const MaxFeedbackDetails = 2000

// MessageFeedback is the feedback sub-record attached to an assistant
// message. Re-voting overwrites the record; the prior vote is preserved in
// PreviousVote for change tracking.
type MessageFeedback struct {
	// Vote is the current verdict, one of [VoteHelpful] or [VoteUnhelpful].
	Vote Vote `json:"vote"`

	// IssueType categorizes the problem for unhelpful votes. Optional.
	IssueType IssueType `json:"issue_type,omitempty"`

	// Details is optional free text, at most [MaxFeedbackDetails] characters.
	Details string `json:"details,omitempty"`

	// PreviousVote holds the overwritten vote when the user re-votes.
	PreviousVote Vote `json:"previous_vote,omitempty"`

	// VotedAt is when the current vote was recorded.
	VotedAt time.Time `json:"voted_at"`
}
