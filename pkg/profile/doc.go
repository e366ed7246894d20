// Package profile persists experiment decisions per user for sticky
// bucketing: once a user has seen a variation, later decisions reuse it even
// if traffic allocations change underneath.
//
// The decision pipeline only depends on the Service contract. Lookup returns
// ErrNotFound for unknown users; any other error is treated upstream as "no
// stored profile" and the user is re-bucketed, so a broken store degrades
// decisions instead of failing them.
//
// Three implementations ship with the package:
//
//   - MemoryStore for tests and single-process hosts
//   - RedisStore for shared, TTL-bounded profiles
//   - PostgresStore for durable profiles with upsert semantics
//
// # Usage
//
//	store := profile.NewMemoryStore()
//	_ = store.Save(ctx, profile.Profile{
//		UserID:      "user-1",
//		Experiments: map[string]string{"exp-1": "variation-a"},
//	})
//	p, err := store.Lookup(ctx, "user-1")
package profile
