// Package async runs a synchronous computation on a background goroutine
// and delivers its outcome through a callback or a Future.
//
// It exists so decision calls can be dispatched without blocking the caller:
// the synchronous pipeline runs on one spawned goroutine per request, and
// whatever happens, be it a result, an error, or a panic, arrives at the
// callback as a value. Nothing ever propagates past the callback boundary.
// No ordering is guaranteed between concurrently dispatched requests.
//
// # Usage
//
//	async.Run(ctx, func(ctx context.Context) (Decision, error) {
//		return client.Decide(ctx, user, "checkout_flow")
//	}, func(d Decision, err error) {
//		// runs on the background goroutine
//	})
//
// Or with a Future when the caller wants to rejoin:
//
//	f := async.Go(ctx, func(ctx context.Context) (Decision, error) { ... })
//	d, err := f.Await(ctx)
package async
