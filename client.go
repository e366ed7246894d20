package flagkit

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/flagkit/pkg/async"
	"github.com/dmitrymomot/flagkit/pkg/cmab"
	"github.com/dmitrymomot/flagkit/pkg/datafile"
	"github.com/dmitrymomot/flagkit/pkg/decision"
	"github.com/dmitrymomot/flagkit/pkg/event"
	"github.com/dmitrymomot/flagkit/pkg/notification"
	"github.com/dmitrymomot/flagkit/pkg/profile"
)

// Decision is the client-facing outcome of a decide call. It always carries
// a value: a miss is expressed as Enabled=false with an empty VariationKey,
// never as a panic or a bare error.
type Decision struct {
	Key          string
	Enabled      bool
	VariationKey string
	RuleKey      string
	Reasons      []string
}

// Client is the SDK entry point. Safe for concurrent use; one client is
// expected per process and datafile.
type Client struct {
	config        atomic.Pointer[configHolder]
	experiments   *decision.ExperimentService
	features      *decision.FeatureService
	events        *event.Processor
	notifications *notification.Center
	log           *slog.Logger
	closed        atomic.Bool
}

// configHolder exists because atomic.Pointer needs a concrete type around
// the ProjectConfig interface value.
type configHolder struct {
	cfg datafile.ProjectConfig
}

type clientConfig struct {
	logger        *slog.Logger
	profiles      profile.Service
	cmabClient    cmab.Client
	cmabOpts      []cmab.ServiceOption
	dispatcher    event.Dispatcher
	eventCfg      *event.Config
	notifications *notification.Center
}

// Option configures a Client.
type Option func(*clientConfig)

// WithLogger sets the logger shared by every SDK component.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithProfileService enables sticky bucketing through the given store.
func WithProfileService(svc profile.Service) Option {
	return func(c *clientConfig) { c.profiles = svc }
}

// WithCmabClient enables CMAB experiments through the given remote client.
// Extra options tune the decision cache.
func WithCmabClient(client cmab.Client, opts ...cmab.ServiceOption) Option {
	return func(c *clientConfig) {
		c.cmabClient = client
		c.cmabOpts = opts
	}
}

// WithEventDispatcher sets the transport the event processor drains into.
// Defaults to a logging dispatcher.
func WithEventDispatcher(d event.Dispatcher) Option {
	return func(c *clientConfig) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// WithEventConfig overrides the event batching configuration.
func WithEventConfig(cfg event.Config) Option {
	return func(c *clientConfig) { c.eventCfg = &cfg }
}

// WithNotificationCenter shares an existing notification center instead of
// creating one per client.
func WithNotificationCenter(center *notification.Center) Option {
	return func(c *clientConfig) {
		if center != nil {
			c.notifications = center
		}
	}
}

// NewClient assembles the SDK around a config snapshot.
func NewClient(cfg datafile.ProjectConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}

	cc := &clientConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cc)
	}
	if cc.dispatcher == nil {
		cc.dispatcher = event.LogDispatcher{Log: cc.logger}
	}
	if cc.notifications == nil {
		cc.notifications = notification.NewCenter(notification.WithLogger(cc.logger))
	}

	expOpts := []decision.ExperimentOption{decision.WithLogger(cc.logger)}
	if cc.profiles != nil {
		expOpts = append(expOpts, decision.WithProfileService(cc.profiles))
	}
	if cc.cmabClient != nil {
		svcOpts := append([]cmab.ServiceOption{cmab.WithLogger(cc.logger)}, cc.cmabOpts...)
		cmabSvc, err := cmab.NewService(cc.cmabClient, svcOpts...)
		if err != nil {
			return nil, err
		}
		expOpts = append(expOpts, decision.WithCmabService(cmabSvc))
	}

	procOpts := []event.ProcessorOption{event.WithLogger(cc.logger)}
	if cc.eventCfg != nil {
		procOpts = append(procOpts, event.WithConfig(*cc.eventCfg))
	}
	processor, err := event.NewProcessor(cc.dispatcher, procOpts...)
	if err != nil {
		return nil, err
	}

	experiments := decision.NewExperimentService(expOpts...)
	c := &Client{
		experiments:   experiments,
		features:      decision.NewFeatureService(experiments),
		events:        processor,
		notifications: cc.notifications,
		log:           cc.logger,
	}
	c.config.Store(&configHolder{cfg: cfg})
	return c, nil
}

// Notifications exposes the client's notification center for handler
// registration.
func (c *Client) Notifications() *notification.Center {
	return c.notifications
}

// UpdateConfig swaps the config snapshot. In-flight decisions keep the
// snapshot they started with.
func (c *Client) UpdateConfig(cfg datafile.ProjectConfig) {
	if cfg != nil {
		c.config.Store(&configHolder{cfg: cfg})
	}
}

// NewUserContext binds a user to the current config snapshot, for callers
// that need forced-variation overrides before deciding.
func (c *Client) NewUserContext(user datafile.User) *decision.UserContext {
	return decision.NewUserContext(c.config.Load().cfg, user)
}

// Decide resolves a feature flag or experiment key for the user, emits an
// impression event, and publishes a decision notification. The key is tried
// as a feature flag first, then as an experiment.
func (c *Client) Decide(ctx context.Context, user datafile.User, key string, opts decision.Options) (Decision, error) {
	return c.DecideFor(ctx, c.NewUserContext(user), key, opts)
}

// DecideFor is Decide over a prepared user context.
func (c *Client) DecideFor(ctx context.Context, uc *decision.UserContext, key string, opts decision.Options) (Decision, error) {
	if c.closed.Load() {
		return Decision{Key: key}, ErrClientClosed
	}

	r := decision.NewReasons(opts.Has(decision.IncludeReasons))
	cfg := uc.Config()

	var out Decision
	var experimentID, variationID, cmabUUID string

	if feature, ok := cfg.FeatureByKey(key); ok {
		fd, err := c.features.GetDecision(ctx, uc, feature, opts, r)
		if err != nil {
			return Decision{Key: key, Reasons: r.Messages()}, err
		}
		out = Decision{Key: key, Enabled: fd.Enabled(), Reasons: r.Messages()}
		if fd.Variation != nil {
			out.VariationKey = fd.Variation.Key
			variationID = fd.Variation.ID
		}
		if fd.Experiment != nil {
			out.RuleKey = fd.Experiment.Key
			experimentID = fd.Experiment.ID
		}
		cmabUUID = fd.CmabUUID
	} else if exp, ok := cfg.ExperimentByKey(key); ok {
		ed, err := c.experiments.GetDecision(ctx, uc, exp, opts, r)
		if err != nil {
			return Decision{Key: key, Reasons: r.Messages()}, err
		}
		out = Decision{Key: key, Enabled: ed.InExperiment(), RuleKey: exp.Key, Reasons: r.Messages()}
		experimentID = exp.ID
		if ed.Variation != nil {
			out.VariationKey = ed.Variation.Key
			variationID = ed.Variation.ID
		}
		cmabUUID = ed.CmabUUID
	} else {
		msg := r.Error("no feature flag or experiment with key %q", key)
		c.log.Warn(msg)
		return Decision{Key: key, Reasons: r.Messages()}, ErrKeyNotFound
	}

	c.emitImpression(ctx, uc.User, out, experimentID, variationID, cmabUUID)
	c.notifications.SendDecision(notification.Decision{
		FlagKey:      out.Key,
		VariationKey: out.VariationKey,
		RuleKey:      out.RuleKey,
		Enabled:      out.Enabled,
		UserID:       uc.User.ID,
		Attributes:   uc.User.Attributes,
		Reasons:      out.Reasons,
	})
	return out, nil
}

// DecideAsync runs Decide on a background goroutine and delivers the result
// to cb. Errors arrive as an error-flavored decision plus the error itself;
// nothing escapes the callback boundary. No ordering is guaranteed between
// concurrent async decisions.
func (c *Client) DecideAsync(ctx context.Context, user datafile.User, key string, opts decision.Options, cb func(Decision, error)) {
	async.Run(ctx, func(ctx context.Context) (Decision, error) {
		return c.Decide(ctx, user, key, opts)
	}, func(d Decision, err error) {
		if err != nil && d.Key == "" {
			d = Decision{Key: key, Reasons: []string{err.Error()}}
		}
		cb(d, err)
	})
}

// Track records a conversion event for the user and publishes a track
// notification. The event is buffered; delivery is asynchronous.
func (c *Client) Track(ctx context.Context, user datafile.User, eventKey string, tags map[string]any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if !user.Valid() {
		return decision.ErrInvalidUserID
	}

	if err := c.events.Process(ctx, event.NewConversion(user.ID, user.Attributes, eventKey, tags)); err != nil {
		return err
	}
	c.notifications.SendTrack(notification.Track{
		EventKey:   eventKey,
		UserID:     user.ID,
		Attributes: user.Attributes,
		Tags:       tags,
	})
	return nil
}

// emitImpression queues the decision-made event. Best effort: a full or
// stopped pipeline is logged, never surfaced to the decide caller.
func (c *Client) emitImpression(ctx context.Context, user datafile.User, d Decision, experimentID, variationID, cmabUUID string) {
	if experimentID == "" {
		return
	}
	ev := event.NewImpression(user.ID, user.Attributes, d.Key, d.RuleKey, experimentID, variationID, cmabUUID)
	if err := c.events.Process(ctx, ev); err != nil {
		c.log.Warn("failed to queue impression event",
			slog.String("flag_key", d.Key), slog.Any("error", err))
	}
}

// Flush forces the open event buffer out and waits for in-flight batches.
func (c *Client) Flush(ctx context.Context) error {
	return c.events.Flush(ctx)
}

// Close flushes and stops the event pipeline. The client rejects calls
// afterwards. Idempotent.
func (c *Client) Close(ctx context.Context) error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.events.Stop(ctx)
}
