package targeting_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/flagkit/pkg/datafile"
	"github.com/dmitrymomot/flagkit/pkg/targeting"
)

func evalLeaf(t *testing.T, node *datafile.ConditionNode, user datafile.User) targeting.Result {
	t.Helper()
	return targeting.NewEvaluator().Evaluate(emptyConfig(), node, user, nil)
}

func userWith(attrs map[string]any) datafile.User {
	return datafile.User{ID: "user-1", Attributes: attrs}
}

func TestMatchExact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cond  *datafile.ConditionNode
		attrs map[string]any
		want  targeting.Result
	}{
		{"StringEqual", datafile.Attr("plan", datafile.MatchExact, "pro"), map[string]any{"plan": "pro"}, targeting.True},
		{"StringNotEqual", datafile.Attr("plan", datafile.MatchExact, "pro"), map[string]any{"plan": "free"}, targeting.False},
		{"BoolEqual", datafile.Attr("beta", datafile.MatchExact, true), map[string]any{"beta": true}, targeting.True},
		{"BoolNotEqual", datafile.Attr("beta", datafile.MatchExact, true), map[string]any{"beta": false}, targeting.False},
		{"NumericEqualAcrossTypes", datafile.Attr("age", datafile.MatchExact, 30), map[string]any{"age": 30.0}, targeting.True},
		{"NumericNotEqual", datafile.Attr("age", datafile.MatchExact, 30), map[string]any{"age": 31}, targeting.False},
		{"TypeMismatch", datafile.Attr("plan", datafile.MatchExact, "pro"), map[string]any{"plan": 42}, targeting.Unknown},
		{"MissingAttribute", datafile.Attr("plan", datafile.MatchExact, "pro"), map[string]any{}, targeting.Unknown},
		{"NilAttribute", datafile.Attr("plan", datafile.MatchExact, "pro"), map[string]any{"plan": nil}, targeting.Unknown},
		{"EmptyMatchTypeIsExact", datafile.Attr("plan", "", "pro"), map[string]any{"plan": "pro"}, targeting.True},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, evalLeaf(t, tc.cond, userWith(tc.attrs)))
		})
	}
}

func TestMatchExists(t *testing.T) {
	t.Parallel()

	cond := datafile.Attr("plan", datafile.MatchExists, nil)
	assert.Equal(t, targeting.True, evalLeaf(t, cond, userWith(map[string]any{"plan": "pro"})))
	assert.Equal(t, targeting.False, evalLeaf(t, cond, userWith(map[string]any{})))
	assert.Equal(t, targeting.False, evalLeaf(t, cond, userWith(map[string]any{"plan": nil})))
}

func TestMatchOrdering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		match string
		value any
		attr  any
		want  targeting.Result
	}{
		{"GtAbove", datafile.MatchGreater, 10, 11, targeting.True},
		{"GtEqual", datafile.MatchGreater, 10, 10, targeting.False},
		{"GeEqual", datafile.MatchGreaterOrEq, 10, 10, targeting.True},
		{"GeBelow", datafile.MatchGreaterOrEq, 10, 9, targeting.False},
		{"LtBelow", datafile.MatchLess, 10, 9.5, targeting.True},
		{"LtAbove", datafile.MatchLess, 10, 10.5, targeting.False},
		{"LeEqual", datafile.MatchLessOrEq, 10, 10, targeting.True},
		{"LeAbove", datafile.MatchLessOrEq, 10, 11, targeting.False},
		{"NonNumericAttr", datafile.MatchGreater, 10, "eleven", targeting.Unknown},
		{"NaN", datafile.MatchGreater, 10, math.NaN(), targeting.Unknown},
		{"Infinity", datafile.MatchLess, 10, math.Inf(1), targeting.Unknown},
		{"BeyondSafeInteger", datafile.MatchGreater, 10, math.Pow(2, 54), targeting.Unknown},
		{"AtSafeIntegerBound", datafile.MatchGreater, 10, math.Pow(2, 53), targeting.True},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cond := datafile.Attr("n", tc.match, tc.value)
			assert.Equal(t, tc.want, evalLeaf(t, cond, userWith(map[string]any{"n": tc.attr})))
		})
	}
}

func TestMatchSubstring(t *testing.T) {
	t.Parallel()

	cond := datafile.Attr("ua", datafile.MatchSubstring, "Chrome")
	assert.Equal(t, targeting.True, evalLeaf(t, cond, userWith(map[string]any{"ua": "Mozilla/5.0 Chrome/120"})))
	assert.Equal(t, targeting.False, evalLeaf(t, cond, userWith(map[string]any{"ua": "Mozilla/5.0 Firefox/121"})))
	assert.Equal(t, targeting.Unknown, evalLeaf(t, cond, userWith(map[string]any{"ua": 7})))
}

func TestMatchSemver(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		match string
		value string
		attr  string
		want  targeting.Result
	}{
		{"EqExact", datafile.MatchSemverEq, "2.1.0", "2.1.0", targeting.True},
		{"EqPartialTarget", datafile.MatchSemverEq, "2.1", "2.1.7", targeting.True},
		{"EqDifferent", datafile.MatchSemverEq, "2.1.0", "2.2.0", targeting.False},
		{"GtAbove", datafile.MatchSemverGt, "2.1.0", "2.1.1", targeting.True},
		{"GeEqual", datafile.MatchSemverGe, "2.1.0", "2.1.0", targeting.True},
		{"LtPrerelease", datafile.MatchSemverLt, "2.1.0", "2.1.0-beta", targeting.True},
		{"LeAbove", datafile.MatchSemverLe, "2.1.0", "2.1.1", targeting.False},
		{"PrereleaseOrdering", datafile.MatchSemverGt, "3.0.0-alpha", "3.0.0-beta", targeting.True},
		{"BuildMetadataIgnored", datafile.MatchSemverEq, "2.1.0", "2.1.0+build.42", targeting.True},
		{"AttrLessSpecificThanTarget", datafile.MatchSemverLt, "2.1.1", "2.1", targeting.True},
		{"Invalid", datafile.MatchSemverEq, "2.1.0", "not-a-version", targeting.Unknown},
		{"TooManySegments", datafile.MatchSemverEq, "2.1.0", "2.1.0.4", targeting.Unknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cond := datafile.Attr("app_version", tc.match, tc.value)
			assert.Equal(t, tc.want, evalLeaf(t, cond, userWith(map[string]any{"app_version": tc.attr})))
		})
	}
}

func TestMatchQualified(t *testing.T) {
	t.Parallel()

	node := &datafile.ConditionNode{Match: &datafile.MatchCondition{
		Name:  "odp.audiences",
		Type:  datafile.ConditionTypeThirdPartyDimens,
		Match: datafile.MatchQualified,
		Value: "atsbugbash",
	}}

	t.Run("Qualified", func(t *testing.T) {
		t.Parallel()
		user := datafile.User{ID: "user-1", QualifiedSegments: []string{"atsbugbash"}}
		assert.Equal(t, targeting.True, targeting.NewEvaluator().Evaluate(emptyConfig(), node, user, nil))
	})

	t.Run("NotQualified", func(t *testing.T) {
		t.Parallel()
		user := datafile.User{ID: "user-1", QualifiedSegments: []string{"other"}}
		assert.Equal(t, targeting.False, targeting.NewEvaluator().Evaluate(emptyConfig(), node, user, nil))
	})

	t.Run("NoSegments", func(t *testing.T) {
		t.Parallel()
		user := datafile.User{ID: "user-1"}
		assert.Equal(t, targeting.Unknown, targeting.NewEvaluator().Evaluate(emptyConfig(), node, user, nil))
	})
}
