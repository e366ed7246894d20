// Package targeting evaluates audience condition trees against a user.
//
// Evaluation is three-valued: a condition resolves to True, False, or Unknown.
// Unknown represents missing or invalid targeting data: an absent attribute,
// a type mismatch, an unrecognized match operator, an unresolvable audience
// reference. Unknown never escalates into an error: targeting degrades
// gracefully rather than failing a decision.
//
// # Architecture
//
// The evaluator walks the closed condition union from pkg/datafile:
//
//   - AND short-circuits to False on the first False child; otherwise any
//     Unknown child makes the result Unknown.
//   - OR short-circuits to True on the first True child; otherwise any
//     Unknown child makes the result Unknown.
//   - NOT maps Unknown to Unknown and negates definite results.
//   - Audience references are resolved against the ProjectConfig snapshot at
//     evaluation time, never cached inside the tree, so one parsed tree can
//     serve concurrent evaluations across config refreshes.
//   - Attribute leaves delegate to a registry of match comparators (exact,
//     exists, numeric ordering, substring, semver, qualified segments).
//
// Every evaluation fault inside a leaf is converted to Unknown and logged;
// the comparators themselves report faults as errors so the evaluator is the
// single place that decides how faults degrade.
//
// # Usage
//
//	ev := targeting.NewEvaluator(targeting.WithLogger(log))
//	res := ev.Evaluate(cfg, audience.Conditions, user, rec)
//	if res == targeting.True {
//		// user matches
//	}
package targeting
