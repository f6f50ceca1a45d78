package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidVote      = errors.New("invalid vote")
	ErrInvalidIssueType = errors.New("invalid issue type")
	ErrDetailsTooLong   = errors.New("feedback details too long")
)
