package targeting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/flagkit/pkg/targeting"
)

func TestResultString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "true", targeting.True.String())
	assert.Equal(t, "false", targeting.False.String())
	assert.Equal(t, "unknown", targeting.Unknown.String())
}

func TestResultBool(t *testing.T) {
	t.Parallel()

	v, known := targeting.True.Bool()
	assert.True(t, v)
	assert.True(t, known)

	v, known = targeting.False.Bool()
	assert.False(t, v)
	assert.True(t, known)

	_, known = targeting.Unknown.Bool()
	assert.False(t, known)
}

func TestResultNegate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, targeting.False, targeting.True.Negate())
	assert.Equal(t, targeting.True, targeting.False.Negate())
	assert.Equal(t, targeting.Unknown, targeting.Unknown.Negate())
}

func TestOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, targeting.True, targeting.Of(true))
	assert.Equal(t, targeting.False, targeting.Of(false))
}
