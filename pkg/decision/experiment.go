package decision

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/flagkit/pkg/bucketer"
	"github.com/dmitrymomot/flagkit/pkg/cmab"
	"github.com/dmitrymomot/flagkit/pkg/datafile"
	"github.com/dmitrymomot/flagkit/pkg/profile"
	"github.com/dmitrymomot/flagkit/pkg/targeting"
)

// strategyFunc is one link of the decision chain. A nil return defers to the
// next strategy; a non-nil return is terminal even when its variation is nil.
type strategyFunc func(ctx context.Context, uc *UserContext, exp *datafile.Experiment, opts Options, r *Reasons) *ExperimentDecision

// ExperimentService runs the per-experiment strategy chain. Safe for
// concurrent use; all per-call state lives in the arguments.
type ExperimentService struct {
	bucketer   *bucketer.Bucketer
	evaluator  *targeting.Evaluator
	cmabSvc    *cmab.Service
	profiles   profile.Service
	log        *slog.Logger
	strategies []strategyFunc
}

// ExperimentOption configures an ExperimentService.
type ExperimentOption func(*ExperimentService)

// WithCmabService enables the CMAB strategy.
func WithCmabService(svc *cmab.Service) ExperimentOption {
	return func(s *ExperimentService) { s.cmabSvc = svc }
}

// WithProfileService enables sticky bucketing.
func WithProfileService(svc profile.Service) ExperimentOption {
	return func(s *ExperimentService) { s.profiles = svc }
}

// WithLogger sets the service logger, shared with the bucketer and the
// audience evaluator unless those were overridden too.
func WithLogger(l *slog.Logger) ExperimentOption {
	return func(s *ExperimentService) {
		if l != nil {
			s.log = l
		}
	}
}

// NewExperimentService assembles the strategy chain in its fixed priority
// order: forced variation, whitelist, user profile, CMAB, audience-gated
// bucketing.
func NewExperimentService(opts ...ExperimentOption) *ExperimentService {
	s := &ExperimentService{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.bucketer = bucketer.New(bucketer.WithLogger(s.log))
	s.evaluator = targeting.NewEvaluator(targeting.WithLogger(s.log))
	s.strategies = []strategyFunc{
		s.decideForced,
		s.decideWhitelist,
		s.decideUserProfile,
		s.decideCmab,
		s.decideBucketing,
	}
	return s
}

// GetDecision resolves the user's variation for one experiment. The chain
// always terminates: the bucketing strategy never defers.
func (s *ExperimentService) GetDecision(ctx context.Context, uc *UserContext, exp *datafile.Experiment, opts Options, r *Reasons) (ExperimentDecision, error) {
	if exp == nil {
		return ExperimentDecision{}, ErrExperimentNotFound
	}
	if uc.Config() == nil {
		return ExperimentDecision{}, ErrNoProjectConfig
	}
	if !uc.User.Valid() {
		r.Error("user id is empty, no decision for experiment %q", exp.Key)
		return ExperimentDecision{}, ErrInvalidUserID
	}
	if !exp.IsRunning() {
		r.Info("experiment %q is not running", exp.Key)
		return ExperimentDecision{Experiment: exp, Reason: ReasonExperimentNotRunning}, nil
	}

	for _, decide := range s.strategies {
		d := decide(ctx, uc, exp, opts, r)
		if d == nil {
			continue
		}
		if d.Reason == ReasonBucketedIntoVariation {
			s.persistProfile(ctx, uc, exp, d, opts)
		}
		return *d, nil
	}

	return ExperimentDecision{Experiment: exp, Reason: ReasonNotBucketedIntoVariation}, nil
}

// decideForced applies programmatic per-user overrides. A mapping to an
// unknown variation key is terminal with no variation: it must not fall
// through to bucketing.
func (s *ExperimentService) decideForced(_ context.Context, uc *UserContext, exp *datafile.Experiment, _ Options, r *Reasons) *ExperimentDecision {
	key, ok := uc.ForcedVariation(exp.ID)
	if !ok {
		return nil
	}
	variation, ok := exp.VariationByKey(key)
	if !ok {
		r.Error("forced variation %q not found in experiment %q", key, exp.Key)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonInvalidForcedVariation, Forced: true}
	}
	r.Info("user %q forced into variation %q of experiment %q", uc.User.ID, variation.Key, exp.Key)
	return &ExperimentDecision{Experiment: exp, Variation: variation, Reason: ReasonForcedVariationMapped, Forced: true}
}

// decideWhitelist applies the datafile-declared user to variation map with
// the same terminal semantics as programmatic overrides.
func (s *ExperimentService) decideWhitelist(_ context.Context, uc *UserContext, exp *datafile.Experiment, _ Options, r *Reasons) *ExperimentDecision {
	key, ok := exp.Whitelist[uc.User.ID]
	if !ok {
		return nil
	}
	variation, ok := exp.VariationByKey(key)
	if !ok {
		r.Error("whitelisted variation %q not found in experiment %q", key, exp.Key)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonInvalidForcedVariation, Forced: true}
	}
	r.Info("user %q whitelisted into variation %q of experiment %q", uc.User.ID, variation.Key, exp.Key)
	return &ExperimentDecision{Experiment: exp, Variation: variation, Reason: ReasonForcedVariationMapped, Forced: true}
}

// decideUserProfile reuses a stored decision when it still resolves to a
// live variation. Any store fault or stale variation falls through to
// re-bucketing.
func (s *ExperimentService) decideUserProfile(ctx context.Context, uc *UserContext, exp *datafile.Experiment, opts Options, r *Reasons) *ExperimentDecision {
	if s.profiles == nil || opts.Has(IgnoreUserProfileService) {
		return nil
	}

	p, err := s.profiles.Lookup(ctx, uc.User.ID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			s.log.Warn("user profile lookup failed, re-bucketing",
				slog.String("user_id", uc.User.ID), slog.Any("error", err))
		}
		return nil
	}

	variationID, ok := p.Variation(exp.ID)
	if !ok {
		return nil
	}
	variation, ok := exp.VariationByID(variationID)
	if !ok {
		r.Info("stored variation %q no longer in experiment %q, re-bucketing user %q", variationID, exp.Key, uc.User.ID)
		return nil
	}
	r.Info("user %q sticky-bucketed into variation %q of experiment %q", uc.User.ID, variation.Key, exp.Key)
	return &ExperimentDecision{Experiment: exp, Variation: variation, Reason: ReasonStickyVariationReused}
}

// decideCmab asks the remote bandit service for experiments that carry a
// CMAB config. The audience gate runs first so untargeted users never cost
// a remote call. A fetch failure is terminal with no variation: falling
// through to hash bucketing would contradict the bandit's traffic policy.
func (s *ExperimentService) decideCmab(ctx context.Context, uc *UserContext, exp *datafile.Experiment, opts Options, r *Reasons) *ExperimentDecision {
	if exp.Cmab == nil {
		return nil
	}
	if !s.audiencePass(uc, exp, r) {
		return &ExperimentDecision{Experiment: exp, Reason: ReasonFailedAudienceTargeting}
	}
	if s.cmabSvc == nil {
		msg := r.Error("experiment %q requires a cmab service but none is configured", exp.Key)
		s.log.Warn(msg)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonCmabDecisionFailed}
	}

	d, err := s.cmabSvc.GetDecision(ctx, uc.Config(), uc.User, exp.ID, opts.cmabOptions())
	if err != nil {
		msg := r.Error("cmab decision failed for experiment %q: %v", exp.Key, err)
		s.log.Warn(msg)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonCmabDecisionFailed}
	}
	variation, ok := exp.VariationByID(d.VariationID)
	if !ok {
		r.Error("cmab variation %q not found in experiment %q", d.VariationID, exp.Key)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonCmabDecisionFailed, CmabUUID: d.UUID}
	}
	r.Info("user %q assigned variation %q of experiment %q by cmab", uc.User.ID, variation.Key, exp.Key)
	return &ExperimentDecision{Experiment: exp, Variation: variation, Reason: ReasonCmabVariationAssigned, CmabUUID: d.UUID}
}

// decideBucketing is the last strategy and always terminal: audience gate,
// then deterministic hash bucketing.
func (s *ExperimentService) decideBucketing(_ context.Context, uc *UserContext, exp *datafile.Experiment, _ Options, r *Reasons) *ExperimentDecision {
	if !s.audiencePass(uc, exp, r) {
		return &ExperimentDecision{Experiment: exp, Reason: ReasonFailedAudienceTargeting}
	}

	bucketingID := s.bucketer.BucketingID(uc.User)
	variation, outcome, err := s.bucketer.Bucket(uc.Config(), exp, bucketingID)
	if err != nil {
		r.Error("bucketing failed for experiment %q: %v", exp.Key, err)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonNotBucketedIntoVariation}
	}

	switch outcome {
	case bucketer.NotInGroup:
		r.Info("user %q not bucketed into experiment %q within its group", uc.User.ID, exp.Key)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonNotInGroup}
	case bucketer.Holdback:
		r.Info("user %q not bucketed into any variation of experiment %q", uc.User.ID, exp.Key)
		return &ExperimentDecision{Experiment: exp, Reason: ReasonNotBucketedIntoVariation}
	default:
		r.Info("user %q bucketed into variation %q of experiment %q", uc.User.ID, variation.Key, exp.Key)
		return &ExperimentDecision{Experiment: exp, Variation: variation, Reason: ReasonBucketedIntoVariation}
	}
}

// audiencePass evaluates the experiment's audience conditions. No
// conditions means everyone; False and Unknown both fail the gate.
func (s *ExperimentService) audiencePass(uc *UserContext, exp *datafile.Experiment, r *Reasons) bool {
	if exp.AudienceConditions == nil {
		return true
	}
	res := s.evaluator.Evaluate(uc.Config(), exp.AudienceConditions, uc.User, r)
	pass, known := res.Bool()
	if !known || !pass {
		r.Info("user %q does not meet audience conditions for experiment %q", uc.User.ID, exp.Key)
		return false
	}
	return true
}

// persistProfile records a fresh bucketing decision for sticky reuse.
// Best effort: a failed save costs stickiness, not the decision.
func (s *ExperimentService) persistProfile(ctx context.Context, uc *UserContext, exp *datafile.Experiment, d *ExperimentDecision, opts Options) {
	if s.profiles == nil || opts.Has(IgnoreUserProfileService) || d.Variation == nil {
		return
	}

	p, err := s.profiles.Lookup(ctx, uc.User.ID)
	if err != nil {
		p = profile.Profile{UserID: uc.User.ID}
	}
	p.UserID = uc.User.ID
	if err := s.profiles.Save(ctx, p.With(exp.ID, d.Variation.ID)); err != nil {
		s.log.Warn("failed to save user profile",
			slog.String("user_id", uc.User.ID), slog.Any("error", err))
	}
}
