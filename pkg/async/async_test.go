package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/async"
)

func TestRunDeliversResult(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	var got int
	var gotErr error

	async.Run(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	}, func(v int, err error) {
		got, gotErr = v, err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never ran")
	}
	require.NoError(t, gotErr)
	assert.Equal(t, 42, got)
}

func TestRunRecoversPanic(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	var gotErr error

	async.Run(context.Background(), func(context.Context) (int, error) {
		panic("computation bug")
	}, func(_ int, err error) {
		gotErr = err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never ran")
	}
	require.Error(t, gotErr)
	assert.Contains(t, gotErr.Error(), "computation bug")
}

func TestFutureAwait(t *testing.T) {
	t.Parallel()

	f := async.Go(context.Background(), func(context.Context) (string, error) {
		return "value", nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	// Awaiting a completed future again returns the same outcome.
	v, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.True(t, f.Done())
}

func TestFutureAwaitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("fetch failed")
	f := async.Go(context.Background(), func(context.Context) (string, error) {
		return "", cause
	})

	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestFutureAwaitCanceled(t *testing.T) {
	t.Parallel()

	blocker := make(chan struct{})
	defer close(blocker)

	f := async.Go(context.Background(), func(context.Context) (int, error) {
		<-blocker
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, async.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.Done())
}

func TestFutureRecoversPanic(t *testing.T) {
	t.Parallel()

	f := async.Go(context.Background(), func(context.Context) (int, error) {
		panic("computation bug")
	})

	_, err := f.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "computation bug")
}
