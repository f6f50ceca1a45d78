package validators

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/MKhiriev/go-reg-assist/models"
)

// Field names accepted by [FeedbackValidator] for scoped validation.
const (
	FieldVote      = "vote"
	FieldIssueType = "issue_type"
	FieldDetails   = "details"
)

// FeedbackValidator checks feedback submissions against the vote and
// issue-type catalogues and the details length cap.
type FeedbackValidator struct {
}

func NewFeedbackValidator() Validator {
	return &FeedbackValidator{}
}

func (v *FeedbackValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.FeedbackRequest:
		return v.validateFeedbackRequest(ctx, value, fields...)
	case *models.FeedbackRequest:
		return v.validateFeedbackRequest(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *FeedbackValidator) validateFeedbackRequest(_ context.Context, request models.FeedbackRequest, fields ...string) error {
	// no field scoping means full validation
	if len(fields) == 0 {
		fields = []string{FieldVote, FieldIssueType, FieldDetails}
	}

	for _, field := range fields {
		switch field {
		case FieldVote:
			if !request.Vote.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidVote, request.Vote)
			}

		case FieldIssueType:
			// the issue type is optional; only a present value is checked
			if request.IssueType != "" && !request.IssueType.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidIssueType, request.IssueType)
			}

		case FieldDetails:
			if utf8.RuneCountInString(request.Details) > models.MaxFeedbackDetails {
				return fmt.Errorf("%w: %d characters over the %d cap",
					ErrDetailsTooLong, utf8.RuneCountInString(request.Details)-models.MaxFeedbackDetails, models.MaxFeedbackDetails)
			}

		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}
