package bookmark

import "fmt"

// Kind identifies which validation rule a payload broke.
type Kind int

const (
	KindMissingField Kind = iota + 1
	KindInvalidURL
	KindInvalidRating
	KindEmptyUpdate
)

func (k Kind) String() string {
	switch k {
	case KindMissingField:
		return "missing_field"
	case KindInvalidURL:
		return "invalid_url"
	case KindInvalidRating:
		return "invalid_rating"
	case KindEmptyUpdate:
		return "empty_update"
	default:
		return "unknown"
	}
}

// ValidationError reports the first rule a payload violated. Its message is
// safe to return to clients.
type ValidationError struct {
	Kind  Kind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("Missing '%s' in request body", e.Field)
	case KindInvalidURL:
		return "Valid URL is required"
	case KindInvalidRating:
		return "Rating must be a number between 0 and 5"
	case KindEmptyUpdate:
		return "Request body must contain 'title', 'url', and 'rating'"
	default:
		return "invalid bookmark"
	}
}
