package async

import (
	"context"
	"errors"
	"fmt"
)

// ErrCanceled is returned by Await when its context ends before the
// computation does.
var ErrCanceled = errors.New("async: wait canceled")

// Run executes fn on a new goroutine and delivers the outcome to cb exactly
// once. A panic inside fn is recovered and converted into an error result;
// the goroutine never throws past the callback boundary. cb runs on the
// background goroutine.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error), cb func(T, error)) {
	go func() {
		result, err := invoke(ctx, fn)
		cb(result, err)
	}()
}

// Future is the pending result of a computation started with Go.
type Future[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Go executes fn on a new goroutine and returns a Future for its outcome.
// Panics are recovered into errors, as with Run.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.result, f.err = invoke(ctx, fn)
	}()
	return f
}

// Await blocks until the computation completes or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, errors.Join(ErrCanceled, ctx.Err())
	}
}

// Done reports completion without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func invoke[T any](ctx context.Context, fn func(context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = fmt.Errorf("async: recovered panic: %v", r)
		}
	}()
	return fn(ctx)
}
