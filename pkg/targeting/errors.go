package targeting

import "errors"

// Predefined errors for the targeting package. All of them are recovered by
// the evaluator into an Unknown result; they exist so comparators can report
// precisely what went wrong and tests can assert on it.
var (
	// ErrUnknownMatchType indicates a match operator this SDK version does
	// not implement, usually from a newer datafile.
	ErrUnknownMatchType = errors.New("unknown match type")

	// ErrTypeMismatch indicates the user attribute exists but its type is
	// incompatible with the condition value.
	ErrTypeMismatch = errors.New("attribute type mismatch")

	// ErrAttributeNotFound indicates the attribute key is absent from the
	// user's attribute map.
	ErrAttributeNotFound = errors.New("attribute not found")

	// ErrNilAttributeValue indicates the attribute key is present but holds
	// a null value.
	ErrNilAttributeValue = errors.New("attribute value is nil")

	// ErrValueOutOfRange indicates a numeric operand outside the safe
	// comparison range shared across SDKs.
	ErrValueOutOfRange = errors.New("numeric value out of comparable range")

	// ErrInvalidSemver indicates a version string that cannot be compared.
	ErrInvalidSemver = errors.New("invalid semantic version")

	// ErrNoQualifiedSegments indicates segment membership was never supplied
	// on the user, so qualified matches cannot be decided.
	ErrNoQualifiedSegments = errors.New("user has no qualified segments")
)
