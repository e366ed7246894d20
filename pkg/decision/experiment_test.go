package decision_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/cmab"
	"github.com/dmitrymomot/flagkit/pkg/datafile"
	"github.com/dmitrymomot/flagkit/pkg/decision"
	"github.com/dmitrymomot/flagkit/pkg/profile"
)

// abExperiment allocates all traffic to var-a so bucketing outcomes are
// deterministic regardless of the hash.
func abExperiment() datafile.Experiment {
	return datafile.Experiment{
		ID:     "exp-1",
		Key:    "checkout_test",
		Status: datafile.StatusRunning,
		Variations: []datafile.Variation{
			{ID: "var-a", Key: "control"},
			{ID: "var-b", Key: "treatment"},
		},
		TrafficAllocation: []datafile.TrafficAllocation{
			{EntityID: "var-a", EndOfRange: 10000},
		},
	}
}

func configWith(exps ...datafile.Experiment) *datafile.StaticConfig {
	return datafile.NewStaticConfig(datafile.StaticConfigInput{Experiments: exps})
}

func newUC(cfg datafile.ProjectConfig) *decision.UserContext {
	return decision.NewUserContext(cfg, datafile.User{ID: "user-1"})
}

func TestGetDecisionInvalidUser(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()
	uc := decision.NewUserContext(configWith(exp), datafile.User{})
	r := decision.NewReasons(false)

	_, err := svc.GetDecision(context.Background(), uc, &exp, 0, r)
	assert.ErrorIs(t, err, decision.ErrInvalidUserID)
	assert.NotEmpty(t, r.Messages())
}

func TestGetDecisionNilExperiment(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	uc := newUC(configWith())
	_, err := svc.GetDecision(context.Background(), uc, nil, 0, decision.NewReasons(false))
	assert.ErrorIs(t, err, decision.ErrExperimentNotFound)
}

func TestGetDecisionNoProjectConfig(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()
	uc := decision.NewUserContext(nil, datafile.User{ID: "user-1"})
	_, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
	assert.ErrorIs(t, err, decision.ErrNoProjectConfig)
}

func TestGetDecisionExperimentNotRunning(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()
	exp.Status = datafile.StatusPaused
	uc := newUC(configWith(exp))

	d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
	require.NoError(t, err)
	assert.False(t, d.InExperiment())
	assert.Equal(t, decision.ReasonExperimentNotRunning, d.Reason)
}

func TestGetDecisionBucketing(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()
	uc := newUC(configWith(exp))

	d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
	require.NoError(t, err)
	require.True(t, d.InExperiment())
	assert.Equal(t, "var-a", d.Variation.ID)
	assert.Equal(t, decision.ReasonBucketedIntoVariation, d.Reason)
	assert.False(t, d.Forced)
}

func TestGetDecisionHoldback(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()
	exp.TrafficAllocation = nil
	uc := newUC(configWith(exp))

	d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
	require.NoError(t, err)
	assert.False(t, d.InExperiment())
	assert.Equal(t, decision.ReasonNotBucketedIntoVariation, d.Reason)
}

func TestGetDecisionForcedVariation(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	t.Run("ValidKey", func(t *testing.T) {
		t.Parallel()
		exp := abExperiment()
		uc := newUC(configWith(exp))
		uc.SetForcedVariation("exp-1", "treatment")

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-b", d.Variation.ID)
		assert.Equal(t, decision.ReasonForcedVariationMapped, d.Reason)
		assert.True(t, d.Forced)
	})

	t.Run("UnknownKeyIsTerminal", func(t *testing.T) {
		t.Parallel()
		exp := abExperiment()
		uc := newUC(configWith(exp))
		uc.SetForcedVariation("exp-1", "no_such_variation")

		// All traffic goes to var-a, so any fall-through to bucketing
		// would assign a variation. The override must be terminal instead.
		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonInvalidForcedVariation, d.Reason)
		assert.True(t, d.Forced)
	})

	t.Run("RemovedOverrideRestoresBucketing", func(t *testing.T) {
		t.Parallel()
		exp := abExperiment()
		uc := newUC(configWith(exp))
		uc.SetForcedVariation("exp-1", "treatment")
		uc.RemoveForcedVariation("exp-1")

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-a", d.Variation.ID)
	})
}

func TestGetDecisionWhitelist(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	t.Run("ValidKey", func(t *testing.T) {
		t.Parallel()
		exp := abExperiment()
		exp.Whitelist = map[string]string{"user-1": "treatment"}
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-b", d.Variation.ID)
		assert.True(t, d.Forced)
	})

	t.Run("UnknownKeyIsTerminal", func(t *testing.T) {
		t.Parallel()
		exp := abExperiment()
		exp.Whitelist = map[string]string{"user-1": "gone"}
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonInvalidForcedVariation, d.Reason)
	})

	t.Run("OtherUsersUnaffected", func(t *testing.T) {
		t.Parallel()
		exp := abExperiment()
		exp.Whitelist = map[string]string{"someone-else": "treatment"}
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-a", d.Variation.ID)
	})
}

func TestGetDecisionAudienceGate(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()
	exp.AudienceConditions = datafile.Attr("plan", datafile.MatchExact, "pro")

	t.Run("Pass", func(t *testing.T) {
		t.Parallel()
		cfg := configWith(exp)
		uc := decision.NewUserContext(cfg, datafile.User{ID: "user-1", Attributes: map[string]any{"plan": "pro"}})

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.True(t, d.InExperiment())
	})

	t.Run("Fail", func(t *testing.T) {
		t.Parallel()
		cfg := configWith(exp)
		uc := decision.NewUserContext(cfg, datafile.User{ID: "user-1", Attributes: map[string]any{"plan": "free"}})

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonFailedAudienceTargeting, d.Reason)
	})

	t.Run("UnknownFailsGate", func(t *testing.T) {
		t.Parallel()
		cfg := configWith(exp)
		uc := newUC(cfg) // no attributes, condition undecidable

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonFailedAudienceTargeting, d.Reason)
	})
}

func TestGetDecisionStickyBucketing(t *testing.T) {
	t.Parallel()

	t.Run("ReusesStoredVariation", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), profile.Profile{
			UserID:      "user-1",
			Experiments: map[string]string{"exp-1": "var-b"},
		}))
		svc := decision.NewExperimentService(decision.WithProfileService(store))

		// Hash bucketing would yield var-a; the stored var-b must win.
		exp := abExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-b", d.Variation.ID)
		assert.Equal(t, decision.ReasonStickyVariationReused, d.Reason)
	})

	t.Run("StaleVariationRebuckets", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), profile.Profile{
			UserID:      "user-1",
			Experiments: map[string]string{"exp-1": "var-deleted"},
		}))
		svc := decision.NewExperimentService(decision.WithProfileService(store))

		exp := abExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-a", d.Variation.ID)
		assert.Equal(t, decision.ReasonBucketedIntoVariation, d.Reason)
	})

	t.Run("IgnoreOptionSkipsStore", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), profile.Profile{
			UserID:      "user-1",
			Experiments: map[string]string{"exp-1": "var-b"},
		}))
		svc := decision.NewExperimentService(decision.WithProfileService(store))

		exp := abExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, decision.IgnoreUserProfileService, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-a", d.Variation.ID)
	})

	t.Run("FreshBucketingIsPersisted", func(t *testing.T) {
		t.Parallel()
		store := profile.NewMemoryStore()
		svc := decision.NewExperimentService(decision.WithProfileService(store))

		exp := abExperiment()
		uc := newUC(configWith(exp))

		_, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)

		p, err := store.Lookup(context.Background(), "user-1")
		require.NoError(t, err)
		variationID, ok := p.Variation("exp-1")
		require.True(t, ok)
		assert.Equal(t, "var-a", variationID)
	})

	t.Run("LookupFaultFallsThrough", func(t *testing.T) {
		t.Parallel()
		svc := decision.NewExperimentService(decision.WithProfileService(failingStore{}))

		exp := abExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-a", d.Variation.ID)
	})
}

type failingStore struct{}

func (failingStore) Lookup(context.Context, string) (profile.Profile, error) {
	return profile.Profile{}, errors.New("store down")
}

func (failingStore) Save(context.Context, profile.Profile) error {
	return errors.New("store down")
}

type stubCmabClient struct {
	mu        sync.Mutex
	calls     int
	variation string
	err       error
}

func (c *stubCmabClient) FetchDecision(_ context.Context, _, _ string, _ map[string]any, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.variation, nil
}

func (c *stubCmabClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newCmabService(t *testing.T, client cmab.Client) *cmab.Service {
	t.Helper()
	svc, err := cmab.NewService(client)
	require.NoError(t, err)
	return svc
}

func TestGetDecisionCmab(t *testing.T) {
	t.Parallel()

	cmabExperiment := func() datafile.Experiment {
		exp := abExperiment()
		exp.Cmab = &datafile.CmabConfig{}
		return exp
	}

	t.Run("AssignsVariation", func(t *testing.T) {
		t.Parallel()
		client := &stubCmabClient{variation: "var-b"}
		svc := decision.NewExperimentService(decision.WithCmabService(newCmabService(t, client)))

		exp := cmabExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		require.True(t, d.InExperiment())
		assert.Equal(t, "var-b", d.Variation.ID)
		assert.Equal(t, decision.ReasonCmabVariationAssigned, d.Reason)
		assert.NotEmpty(t, d.CmabUUID)
	})

	t.Run("FetchFailureIsTerminal", func(t *testing.T) {
		t.Parallel()
		client := &stubCmabClient{err: errors.New("endpoint down")}
		svc := decision.NewExperimentService(decision.WithCmabService(newCmabService(t, client)))

		// Full traffic allocation: falling through to bucketing would
		// assign var-a. The failed bandit call must end the chain instead.
		exp := cmabExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonCmabDecisionFailed, d.Reason)
	})

	t.Run("MissingServiceIsTerminal", func(t *testing.T) {
		t.Parallel()
		svc := decision.NewExperimentService()

		exp := cmabExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonCmabDecisionFailed, d.Reason)
	})

	t.Run("UnknownVariationIsTerminal", func(t *testing.T) {
		t.Parallel()
		client := &stubCmabClient{variation: "var-unknown"}
		svc := decision.NewExperimentService(decision.WithCmabService(newCmabService(t, client)))

		exp := cmabExperiment()
		uc := newUC(configWith(exp))

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.False(t, d.InExperiment())
		assert.Equal(t, decision.ReasonCmabDecisionFailed, d.Reason)
		assert.NotEmpty(t, d.CmabUUID)
	})

	t.Run("AudienceGateBeforeRemoteCall", func(t *testing.T) {
		t.Parallel()
		client := &stubCmabClient{variation: "var-b"}
		svc := decision.NewExperimentService(decision.WithCmabService(newCmabService(t, client)))

		exp := cmabExperiment()
		exp.AudienceConditions = datafile.Attr("plan", datafile.MatchExact, "pro")
		uc := newUC(configWith(exp)) // user has no attributes

		d, err := svc.GetDecision(context.Background(), uc, &exp, 0, decision.NewReasons(false))
		require.NoError(t, err)
		assert.Equal(t, decision.ReasonFailedAudienceTargeting, d.Reason)
		assert.Equal(t, 0, client.callCount(), "untargeted users must not cost a remote call")
	})
}

func TestReasonsCollection(t *testing.T) {
	t.Parallel()
	svc := decision.NewExperimentService()

	exp := abExperiment()

	t.Run("InfoEntriesWhenEnabled", func(t *testing.T) {
		t.Parallel()
		uc := newUC(configWith(exp))
		r := decision.NewReasons(true)

		_, err := svc.GetDecision(context.Background(), uc, &exp, decision.IncludeReasons, r)
		require.NoError(t, err)
		assert.NotEmpty(t, r.Messages())
	})

	t.Run("OnlyFaultsByDefault", func(t *testing.T) {
		t.Parallel()
		uc := newUC(configWith(exp))
		r := decision.NewReasons(false)

		_, err := svc.GetDecision(context.Background(), uc, &exp, 0, r)
		require.NoError(t, err)
		assert.Empty(t, r.Messages())
	})
}
