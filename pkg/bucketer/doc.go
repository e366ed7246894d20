// Package bucketer deterministically assigns users to experiment variations.
//
// A bucketing ID concatenated with an entity ID is hashed with MurmurHash3
// (32-bit, fixed seed) and scaled into the [0, 10000) traffic space. The
// hash function and seed are part of the cross-SDK contract: the same user
// must land in the same variation no matter which SDK computes the decision,
// so neither may ever change.
//
// Bucketing happens in up to two passes. When the experiment belongs to a
// mutually exclusive group, the user is first bucketed across the group's
// traffic allocation to pick at most one experiment; only if that pick is
// the experiment at hand does the second pass bucket the user into one of
// its variations. Bucket values falling outside every allocated range are a
// holdback: the user is simply not in the experiment.
//
// Bucketing is a pure function of its inputs, with no randomness and no
// state, so decisions are reproducible across processes and restarts.
package bucketer
