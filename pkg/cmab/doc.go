// Package cmab fetches decisions from a remote contextual multi-armed bandit
// service and caches them per user and experiment.
//
// Unlike hash bucketing, a CMAB decision is computed remotely from the
// user's attributes. The service filters attributes down to the set the
// experiment declares, forwards them to the client, and caches the returned
// variation together with a fresh UUID that correlates the remote call in
// analytics. A cached decision is reused only while the filtered attribute
// values are unchanged; any change is treated as a miss and refetched.
//
// Per-call cache controls let callers bypass the read path, drop a single
// user's entry, or reset the whole cache. Read-modify-write sequences on a
// cache key are atomic, so concurrent decisions for the same user and
// experiment converge on a single cached value instead of overwriting each
// other.
//
// The remote client is an interface; BreakerClient decorates any client with
// a circuit breaker so a misbehaving endpoint degrades into fast decision
// errors instead of piling up blocked callers.
package cmab
