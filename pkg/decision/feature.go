package decision

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/flagkit/pkg/datafile"
)

// FeatureService composes the experiment pipeline across a feature's A/B
// experiments and its rollout's ordered delivery rules.
type FeatureService struct {
	experiments *ExperimentService
	log         *slog.Logger
}

// NewFeatureService creates a feature decision service on top of an
// experiment service.
func NewFeatureService(experiments *ExperimentService) *FeatureService {
	return &FeatureService{experiments: experiments, log: experiments.log}
}

// GetDecision resolves a feature flag for the user: the feature's
// experiments first, then the rollout rules in order. The first assigned
// variation wins; exhausting every rule yields an empty decision, never an
// error.
func (s *FeatureService) GetDecision(ctx context.Context, uc *UserContext, feature *datafile.FeatureFlag, opts Options, r *Reasons) (FeatureDecision, error) {
	if feature == nil {
		return FeatureDecision{}, ErrFeatureNotFound
	}
	cfg := uc.Config()
	if cfg == nil {
		return FeatureDecision{}, ErrNoProjectConfig
	}

	for _, id := range feature.ExperimentIDs {
		exp, ok := cfg.ExperimentByID(id)
		if !ok {
			s.log.Warn("feature references unknown experiment",
				slog.String("feature", feature.Key), slog.String("experiment_id", id))
			continue
		}
		d, err := s.experiments.GetDecision(ctx, uc, exp, opts, r)
		if err != nil {
			return FeatureDecision{}, err
		}
		if d.InExperiment() {
			return FeatureDecision{
				Experiment: d.Experiment,
				Variation:  d.Variation,
				Source:     SourceFeatureTest,
				Reason:     d.Reason,
				CmabUUID:   d.CmabUUID,
			}, nil
		}
	}

	return s.decideRollout(ctx, uc, feature, opts, r)
}

// decideRollout walks the ordered targeted-delivery rules. Rules carry no
// whitelists or bandit configs, and sticky bucketing is intentionally off:
// a rollout decision must follow the current rule set, not history.
func (s *FeatureService) decideRollout(ctx context.Context, uc *UserContext, feature *datafile.FeatureFlag, opts Options, r *Reasons) (FeatureDecision, error) {
	if feature.RolloutID == "" {
		r.Info("feature %q has no rollout", feature.Key)
		return FeatureDecision{Reason: ReasonNoRolloutForFeature}, nil
	}
	rollout, ok := uc.Config().RolloutByID(feature.RolloutID)
	if !ok {
		r.Error("rollout %q for feature %q not found in config", feature.RolloutID, feature.Key)
		return FeatureDecision{Reason: ReasonNoRolloutForFeature}, nil
	}
	if len(rollout.Experiments) == 0 {
		r.Info("rollout %q has no delivery rules", rollout.ID)
		return FeatureDecision{Reason: ReasonRolloutHasNoExperiments}, nil
	}

	for i := range rollout.Experiments {
		rule := &rollout.Experiments[i]
		d, err := s.experiments.GetDecision(ctx, uc, rule, opts|IgnoreUserProfileService, r)
		if err != nil {
			return FeatureDecision{}, err
		}
		if d.InExperiment() {
			return FeatureDecision{
				Experiment: d.Experiment,
				Variation:  d.Variation,
				Source:     SourceRollout,
				Reason:     d.Reason,
			}, nil
		}
		// Audience miss, holdback or paused rule: try the next one. The
		// conventional catch-all last rule makes exhaustion rare.
	}

	r.Info("user %q not bucketed into any rule of rollout %q", uc.User.ID, rollout.ID)
	return FeatureDecision{Reason: ReasonNotInRollout}, nil
}
