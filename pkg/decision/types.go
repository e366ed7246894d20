package decision

import "github.com/dmitrymomot/flagkit/pkg/datafile"

// Reason classifies how a decision was reached (or why it was not).
type Reason string

const (
	ReasonBucketedIntoVariation    Reason = "bucketed_into_variation"
	ReasonNotBucketedIntoVariation Reason = "not_bucketed_into_variation"
	ReasonNotInGroup               Reason = "not_in_mutex_group"
	ReasonForcedVariationMapped    Reason = "forced_variation_mapped"
	ReasonInvalidForcedVariation   Reason = "forced_variation_not_in_experiment"
	ReasonStickyVariationReused    Reason = "sticky_variation_reused"
	ReasonCmabVariationAssigned    Reason = "cmab_variation_assigned"
	ReasonCmabDecisionFailed       Reason = "cmab_decision_failed"
	ReasonFailedAudienceTargeting  Reason = "failed_audience_targeting"
	ReasonExperimentNotRunning     Reason = "experiment_not_running"
	ReasonNoRolloutForFeature      Reason = "no_rollout_for_feature"
	ReasonRolloutHasNoExperiments  Reason = "rollout_has_no_experiments"
	ReasonNotInRollout             Reason = "not_in_rollout"
)

// ExperimentDecision is the outcome of the per-experiment strategy chain. A
// terminal decision may carry a nil Variation: the user is definitively not
// in the experiment and later strategies must not run.
type ExperimentDecision struct {
	Experiment *datafile.Experiment
	Variation  *datafile.Variation
	Reason     Reason
	// Forced marks decisions made by a programmatic or whitelist override.
	Forced bool
	// CmabUUID correlates a bandit-made decision with its remote call.
	CmabUUID string
}

// InExperiment reports whether a variation was assigned.
func (d ExperimentDecision) InExperiment() bool {
	return d.Variation != nil
}

// Source tells which delivery mechanism produced a feature decision.
type Source string

const (
	SourceFeatureTest Source = "feature-test"
	SourceRollout     Source = "rollout"
)

// FeatureDecision aggregates experiment-level decisions for a feature flag.
// All fields may be zero when no rule matched.
type FeatureDecision struct {
	Experiment *datafile.Experiment
	Variation  *datafile.Variation
	Source     Source
	Reason     Reason
	CmabUUID   string
}

// Enabled reports whether the decided variation turns the feature on.
func (d FeatureDecision) Enabled() bool {
	return d.Variation != nil && d.Variation.FeatureEnabled
}
