// Package decision implements the layered decision pipeline that assigns a
// user to an experiment variation or a feature rollout rule.
//
// # Architecture
//
// An experiment decision runs an ordered chain of strategies, each of which
// either produces a terminal decision or defers to the next:
//
//  1. Programmatic forced variation on the user context
//  2. Datafile whitelist
//  3. Sticky bucketing through the user profile service
//  4. Remote CMAB decision, when the experiment is bandit-configured
//  5. Audience-gated deterministic hash bucketing
//
// The chain is an explicit slice of strategy functions iterated with early
// return on the first non-nil decision; a terminal decision may still carry
// a nil variation (a whitelisted user mapped to an unknown variation key
// must not fall through to bucketing).
//
// A feature decision composes the experiment pipeline: the feature's A/B
// experiments run first, then the rollout's ordered targeted-delivery rules,
// which use audience gating and bucketing only.
//
// Every outcome is tagged with a Reason and threaded into a Reasons
// accumulator. Error entries are always recorded; the informational trail is
// kept only when the IncludeReasons option is set, so the hot path does not
// pay for formatting nobody reads.
//
// Faults degrade, they do not propagate: a failing profile store means
// re-bucketing, a failing CMAB fetch means no decision for that experiment,
// and invalid targeting data means the audience does not match.
package decision
