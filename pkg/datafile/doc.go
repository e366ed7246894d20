// Package datafile defines the immutable project entities an experimentation
// datafile describes: experiments, variations, traffic allocations, audiences,
// groups, rollouts and feature flags.
//
// The package does not parse datafiles. Parsing and refresh scheduling belong
// to the hosting application; flagkit only consumes the parsed snapshot
// through the ProjectConfig interface. StaticConfig is the canonical in-memory
// implementation, built once from entity slices and read-only afterwards, so a
// snapshot can be shared by any number of concurrent decision calls.
//
// # Architecture
//
// The entity model mirrors the datafile structure:
//
//  1. Experiments own variations and a cumulative traffic allocation over the
//     [0, 10000) bucket space.
//  2. Audiences own a condition tree (ConditionNode) referenced by experiments
//     via audience conditions.
//  3. Feature flags tie delivery together: a list of A/B experiments plus an
//     ordered rollout of targeted delivery rules.
//
// Condition trees are represented as a closed tagged union (operator node,
// audience reference, or attribute match leaf) and are evaluated elsewhere;
// this package only carries the structure.
//
// # Usage
//
//	cfg := datafile.NewStaticConfig(datafile.StaticConfigInput{
//		Experiments: experiments,
//		Audiences:   audiences,
//		Features:    features,
//	})
//	exp, ok := cfg.ExperimentByKey("checkout_redesign")
package datafile
