package targeting

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrymomot/flagkit/pkg/datafile"
)

// maxComparableValue bounds numeric comparisons to the integer range every
// SDK can represent exactly (2^53), keeping cross-SDK decisions identical.
const maxComparableValue = float64(1 << 53)

// matchFunc compares a condition operand against the user's attributes.
// A returned error means the comparison could not be decided; the evaluator
// degrades it to Unknown.
type matchFunc func(cond *datafile.MatchCondition, user datafile.User) (Result, error)

// matchers is the closed registry of comparators keyed by match type. The
// legacy untyped condition (empty match string) resolves to exact.
var matchers = map[string]matchFunc{
	datafile.MatchExact:       matchExact,
	datafile.MatchExists:      matchExists,
	datafile.MatchGreater:     orderingMatch(func(c int) bool { return c > 0 }),
	datafile.MatchGreaterOrEq: orderingMatch(func(c int) bool { return c >= 0 }),
	datafile.MatchLess:        orderingMatch(func(c int) bool { return c < 0 }),
	datafile.MatchLessOrEq:    orderingMatch(func(c int) bool { return c <= 0 }),
	datafile.MatchSubstring:   matchSubstring,
	datafile.MatchSemverEq:    semverMatch(func(c int) bool { return c == 0 }),
	datafile.MatchSemverGt:    semverMatch(func(c int) bool { return c > 0 }),
	datafile.MatchSemverGe:    semverMatch(func(c int) bool { return c >= 0 }),
	datafile.MatchSemverLt:    semverMatch(func(c int) bool { return c < 0 }),
	datafile.MatchSemverLe:    semverMatch(func(c int) bool { return c <= 0 }),
	datafile.MatchQualified:   matchQualified,
}

// matcherFor resolves a match type to its comparator.
func matcherFor(matchType string) (matchFunc, error) {
	if matchType == "" {
		matchType = datafile.MatchExact
	}
	m, ok := matchers[matchType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMatchType, matchType)
	}
	return m, nil
}

// attributeValue fetches the leaf's attribute, distinguishing absent keys
// from present-but-nil values so the evaluator can log them apart.
func attributeValue(cond *datafile.MatchCondition, user datafile.User) (any, error) {
	v, ok := user.Attribute(cond.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, cond.Name)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %q", ErrNilAttributeValue, cond.Name)
	}
	return v, nil
}

func matchExact(cond *datafile.MatchCondition, user datafile.User) (Result, error) {
	attr, err := attributeValue(cond, user)
	if err != nil {
		return Unknown, err
	}
	switch want := cond.Value.(type) {
	case string:
		got, ok := attr.(string)
		if !ok {
			return Unknown, typeMismatch(cond, attr)
		}
		return Of(got == want), nil
	case bool:
		got, ok := attr.(bool)
		if !ok {
			return Unknown, typeMismatch(cond, attr)
		}
		return Of(got == want), nil
	default:
		want64, ok := datafile.ToFloat(cond.Value)
		if !ok {
			return Unknown, fmt.Errorf("%w: condition value %T", ErrTypeMismatch, cond.Value)
		}
		got64, ok := datafile.ToFloat(attr)
		if !ok {
			return Unknown, typeMismatch(cond, attr)
		}
		if err := checkComparable(want64, got64); err != nil {
			return Unknown, err
		}
		return Of(got64 == want64), nil
	}
}

func matchExists(cond *datafile.MatchCondition, user datafile.User) (Result, error) {
	v, ok := user.Attribute(cond.Name)
	return Of(ok && v != nil), nil
}

// orderingMatch builds a numeric comparator; accept decides which sign of
// the comparison (attribute vs condition value) counts as a match.
func orderingMatch(accept func(cmp int) bool) matchFunc {
	return func(cond *datafile.MatchCondition, user datafile.User) (Result, error) {
		attr, err := attributeValue(cond, user)
		if err != nil {
			return Unknown, err
		}
		want, ok := datafile.ToFloat(cond.Value)
		if !ok {
			return Unknown, fmt.Errorf("%w: condition value %T", ErrTypeMismatch, cond.Value)
		}
		got, ok := datafile.ToFloat(attr)
		if !ok {
			return Unknown, typeMismatch(cond, attr)
		}
		if err := checkComparable(want, got); err != nil {
			return Unknown, err
		}
		switch {
		case got > want:
			return Of(accept(1)), nil
		case got < want:
			return Of(accept(-1)), nil
		default:
			return Of(accept(0)), nil
		}
	}
}

func matchSubstring(cond *datafile.MatchCondition, user datafile.User) (Result, error) {
	attr, err := attributeValue(cond, user)
	if err != nil {
		return Unknown, err
	}
	want, ok := cond.Value.(string)
	if !ok {
		return Unknown, fmt.Errorf("%w: condition value %T", ErrTypeMismatch, cond.Value)
	}
	got, ok := attr.(string)
	if !ok {
		return Unknown, typeMismatch(cond, attr)
	}
	return Of(strings.Contains(got, want)), nil
}

// semverMatch builds a version comparator over the partial-version ordering
// implemented in semver.go.
func semverMatch(accept func(cmp int) bool) matchFunc {
	return func(cond *datafile.MatchCondition, user datafile.User) (Result, error) {
		attr, err := attributeValue(cond, user)
		if err != nil {
			return Unknown, err
		}
		want, ok := cond.Value.(string)
		if !ok {
			return Unknown, fmt.Errorf("%w: condition value %T", ErrTypeMismatch, cond.Value)
		}
		got, ok := attr.(string)
		if !ok {
			return Unknown, typeMismatch(cond, attr)
		}
		cmp, err := compareVersions(got, want)
		if err != nil {
			return Unknown, err
		}
		return Of(accept(cmp)), nil
	}
}

func matchQualified(cond *datafile.MatchCondition, user datafile.User) (Result, error) {
	segment, ok := cond.Value.(string)
	if !ok {
		return Unknown, fmt.Errorf("%w: condition value %T", ErrTypeMismatch, cond.Value)
	}
	if !user.HasQualifiedSegments() {
		return Unknown, ErrNoQualifiedSegments
	}
	return Of(user.IsQualifiedFor(segment)), nil
}

func typeMismatch(cond *datafile.MatchCondition, attr any) error {
	return fmt.Errorf("%w: attribute %q is %T", ErrTypeMismatch, cond.Name, attr)
}

func checkComparable(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxComparableValue {
			return fmt.Errorf("%w: %v", ErrValueOutOfRange, v)
		}
	}
	return nil
}

// isMissingAttribute reports whether err stems from an absent attribute key,
// used by the evaluator to pick the right log message.
func isMissingAttribute(err error) bool {
	return errors.Is(err, ErrAttributeNotFound)
}
