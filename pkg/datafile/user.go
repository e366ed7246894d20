package datafile

import "slices"

// User identifies the subject of a decision together with its targeting
// attributes. Attribute values are scalars: string, bool, or a numeric type.
type User struct {
	ID                string
	Attributes        map[string]any
	QualifiedSegments []string
}

// Valid reports whether the user can take part in decisions. An empty ID is
// rejected rather than hashed so that all SDKs bucket the same population.
func (u User) Valid() bool {
	return u.ID != ""
}

// Attribute returns the raw attribute value and whether the key is present.
func (u User) Attribute(name string) (any, bool) {
	v, ok := u.Attributes[name]
	return v, ok
}

// StringAttribute returns the attribute as a string. The second result is
// false when the key is absent or holds a non-string value.
func (u User) StringAttribute(name string) (string, bool) {
	v, ok := u.Attributes[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// FloatAttribute returns the attribute coerced to float64 from any supported
// numeric type. The second result is false for absent or non-numeric values.
func (u User) FloatAttribute(name string) (float64, bool) {
	v, ok := u.Attributes[name]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// IsQualifiedFor reports membership in a qualified segment. Segments are
// supplied by the hosting application, typically from an external audience
// segmentation service.
func (u User) IsQualifiedFor(segment string) bool {
	return slices.Contains(u.QualifiedSegments, segment)
}

// HasQualifiedSegments reports whether segment membership was supplied at
// all, distinguishing "no segments fetched" from "fetched, user in none".
func (u User) HasQualifiedSegments() bool {
	return u.QualifiedSegments != nil
}

// ToFloat coerces a scalar attribute value to float64. Bool and string are
// not coerced; numeric comparisons on them must stay undecided.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
