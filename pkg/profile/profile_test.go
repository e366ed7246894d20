package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/profile"
)

func TestProfileVariation(t *testing.T) {
	t.Parallel()

	p := profile.Profile{
		UserID:      "user-1",
		Experiments: map[string]string{"exp-1": "var-a", "exp-empty": ""},
	}

	id, ok := p.Variation("exp-1")
	require.True(t, ok)
	assert.Equal(t, "var-a", id)

	_, ok = p.Variation("exp-unknown")
	assert.False(t, ok)

	_, ok = p.Variation("exp-empty")
	assert.False(t, ok, "an empty stored variation counts as absent")
}

func TestProfileWith(t *testing.T) {
	t.Parallel()

	original := profile.Profile{
		UserID:      "user-1",
		Experiments: map[string]string{"exp-1": "var-a"},
	}
	updated := original.With("exp-2", "var-b")

	id, ok := updated.Variation("exp-2")
	require.True(t, ok)
	assert.Equal(t, "var-b", id)

	_, ok = original.Variation("exp-2")
	assert.False(t, ok, "With must not mutate the receiver")

	// Overwriting an existing entry replaces it in the copy only.
	replaced := original.With("exp-1", "var-b")
	id, _ = replaced.Variation("exp-1")
	assert.Equal(t, "var-b", id)
	id, _ = original.Variation("exp-1")
	assert.Equal(t, "var-a", id)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store := profile.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Lookup(ctx, "user-1")
	assert.ErrorIs(t, err, profile.ErrNotFound)

	saved := profile.Profile{UserID: "user-1", Experiments: map[string]string{"exp-1": "var-a"}}
	require.NoError(t, store.Save(ctx, saved))

	got, err := store.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreRejectsEmptyUserID(t *testing.T) {
	t.Parallel()
	store := profile.NewMemoryStore()

	err := store.Save(context.Background(), profile.Profile{})
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)
}

func TestMemoryStoreIsolation(t *testing.T) {
	t.Parallel()
	store := profile.NewMemoryStore()
	ctx := context.Background()

	saved := profile.Profile{UserID: "user-1", Experiments: map[string]string{"exp-1": "var-a"}}
	require.NoError(t, store.Save(ctx, saved))

	// Mutating what was saved or looked up must not reach stored state.
	saved.Experiments["exp-1"] = "tampered"
	got, err := store.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "var-a", got.Experiments["exp-1"])

	got.Experiments["exp-1"] = "tampered"
	again, err := store.Lookup(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "var-a", again.Experiments["exp-1"])
}
