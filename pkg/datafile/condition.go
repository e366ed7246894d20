package datafile

// ConditionOp is the boolean operator of a non-leaf condition node.
type ConditionOp string

const (
	OpAnd ConditionOp = "and"
	OpOr  ConditionOp = "or"
	OpNot ConditionOp = "not"
)

// Attribute condition types recognized by the evaluator. Anything else in a
// leaf indicates a newer datafile feature and evaluates to unknown.
const (
	ConditionTypeCustomAttribute  = "custom_attribute"
	ConditionTypeThirdPartyDimens = "third_party_dimension"
)

// Match type identifiers for attribute match leaves. An empty match type is
// the legacy untyped form, treated as exact.
const (
	MatchExact       = "exact"
	MatchExists      = "exists"
	MatchGreater     = "gt"
	MatchGreaterOrEq = "ge"
	MatchLess        = "lt"
	MatchLessOrEq    = "le"
	MatchSubstring   = "substring"
	MatchSemverEq    = "semver_eq"
	MatchSemverGt    = "semver_gt"
	MatchSemverGe    = "semver_ge"
	MatchSemverLt    = "semver_lt"
	MatchSemverLe    = "semver_le"
	MatchQualified   = "qualified"
)

// ConditionNode is a closed tagged union over the condition tree shapes:
//
//   - operator node: Op is set, Children hold the operands
//   - audience reference: AudienceID is set, resolved against the config at
//     evaluation time
//   - attribute match leaf: Match is set
//
// Exactly one of the three should be populated. Nodes carry no evaluation
// state; the same tree may be evaluated concurrently against any number of
// user contexts.
type ConditionNode struct {
	Op         ConditionOp
	Children   []*ConditionNode
	AudienceID string
	Match      *MatchCondition
}

// MatchCondition is an attribute comparison leaf.
type MatchCondition struct {
	// Name is the attribute key looked up in the user's attribute map, or the
	// segment name for qualified matches.
	Name string
	// Type is the attribute condition type, normally custom_attribute.
	Type string
	// Match selects the comparator; empty means legacy exact.
	Match string
	// Value is the datafile-side comparison operand.
	Value any
}

// And builds an operator node over the given children.
func And(children ...*ConditionNode) *ConditionNode {
	return &ConditionNode{Op: OpAnd, Children: children}
}

// Or builds an operator node over the given children.
func Or(children ...*ConditionNode) *ConditionNode {
	return &ConditionNode{Op: OpOr, Children: children}
}

// Not builds a negation node. A nil child is preserved and evaluates to
// unknown.
func Not(child *ConditionNode) *ConditionNode {
	return &ConditionNode{Op: OpNot, Children: []*ConditionNode{child}}
}

// AudienceRef builds a leaf referencing an audience by ID.
func AudienceRef(id string) *ConditionNode {
	return &ConditionNode{AudienceID: id}
}

// Attr builds an attribute match leaf of type custom_attribute.
func Attr(name, match string, value any) *ConditionNode {
	return &ConditionNode{Match: &MatchCondition{
		Name:  name,
		Type:  ConditionTypeCustomAttribute,
		Match: match,
		Value: value,
	}}
}
