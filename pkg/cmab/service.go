package cmab

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flagkit/pkg/cache"
	"github.com/dmitrymomot/flagkit/pkg/datafile"
)

// Client fetches a variation from the remote bandit endpoint. The UUID
// identifies this fetch in analytics; implementations must pass it through.
// A failed fetch is reported as an error, never as an empty variation.
type Client interface {
	FetchDecision(ctx context.Context, ruleID, userID string, attributes map[string]any, cmabUUID string) (string, error)
}

// Decision is the outcome of a CMAB fetch, cached or fresh.
type Decision struct {
	VariationID string
	UUID        string
}

// Options are per-call cache controls. They are not persistent state.
type Options struct {
	// IgnoreCache skips the cache read path but still writes the result.
	IgnoreCache bool
	// InvalidateUserCache removes this user+experiment entry before deciding.
	InvalidateUserCache bool
	// ResetCache clears the entire cache instance before deciding.
	ResetCache bool
}

type cachedDecision struct {
	attrHash uint64
	decision Decision
}

const (
	// DefaultCacheSize bounds the number of cached user+experiment entries.
	DefaultCacheSize = 1000
	// DefaultCacheTTL expires cached decisions that were never invalidated.
	DefaultCacheTTL = 30 * time.Minute
)

// Service resolves CMAB decisions through a client with read-through
// caching. Safe for concurrent use.
type Service struct {
	client Client
	cache  *cache.LRU[string, cachedDecision]
	log    *slog.Logger
}

type serviceConfig struct {
	cacheSize int
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

// WithCacheSize overrides the decision cache capacity.
func WithCacheSize(n int) ServiceOption {
	return func(c *serviceConfig) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithCacheTTL overrides the decision cache TTL. Zero disables expiry.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(c *serviceConfig) {
		if ttl >= 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(c *serviceConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewService creates a CMAB decision service around the given client.
func NewService(client Client, opts ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	cfg := &serviceConfig{
		cacheSize: DefaultCacheSize,
		cacheTTL:  DefaultCacheTTL,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Service{
		client: client,
		cache:  cache.NewLRU[string, cachedDecision](cfg.cacheSize, cfg.cacheTTL),
		log:    cfg.logger,
	}, nil
}

// GetDecision returns the variation the bandit service assigns to the user
// for the experiment, consulting the cache unless the options say otherwise.
func (s *Service) GetDecision(ctx context.Context, cfg datafile.ProjectConfig, user datafile.User, experimentID string, opts Options) (Decision, error) {
	exp, ok := cfg.ExperimentByID(experimentID)
	if !ok || exp.Cmab == nil {
		return Decision{}, fmt.Errorf("%w: experiment %q", ErrNoCmabConfig, experimentID)
	}

	if opts.ResetCache {
		s.cache.Clear()
	}

	attributes := s.filterAttributes(cfg, exp, user)
	key := cacheKey(exp, user.ID)

	if opts.InvalidateUserCache {
		s.cache.Remove(key)
	}

	attrHash := hashAttributes(attributes)
	if !opts.IgnoreCache {
		if cached, ok := s.cache.Get(key); ok {
			if cached.attrHash == attrHash {
				s.log.Debug("cmab cache hit",
					slog.String("experiment_id", experimentID), slog.String("user_id", user.ID))
				return cached.decision, nil
			}
			// Attributes changed since the cached fetch; the entry is stale.
			s.cache.Remove(key)
		}
	}

	decision, err := s.fetch(ctx, exp.ID, user.ID, attributes)
	if err != nil {
		return Decision{}, err
	}

	// Concurrent callers may have raced us here. Adopt an already-stored
	// fresh value for the same attribute set so the user keeps one UUID;
	// otherwise store what we fetched.
	stored, _ := s.cache.Update(key, func(current cachedDecision, exists bool) (cachedDecision, bool) {
		if exists && current.attrHash == attrHash && !opts.IgnoreCache {
			return current, true
		}
		return cachedDecision{attrHash: attrHash, decision: decision}, true
	})
	return stored.decision, nil
}

func (s *Service) fetch(ctx context.Context, ruleID, userID string, attributes map[string]any) (Decision, error) {
	// A fresh UUID per remote call correlates the decision in analytics.
	cmabUUID := uuid.NewString()
	variationID, err := s.client.FetchDecision(ctx, ruleID, userID, attributes, cmabUUID)
	if err != nil {
		return Decision{}, errors.Join(ErrFetchFailed, err)
	}
	return Decision{VariationID: variationID, UUID: cmabUUID}, nil
}

// filterAttributes forwards only attributes the experiment declares and the
// user actually carries. A configured but absent attribute is skipped, not
// an error.
func (s *Service) filterAttributes(cfg datafile.ProjectConfig, exp *datafile.Experiment, user datafile.User) map[string]any {
	filtered := make(map[string]any, len(exp.Cmab.AttributeIDs))
	for _, id := range exp.Cmab.AttributeIDs {
		attr, ok := cfg.AttributeByID(id)
		if !ok {
			s.log.Debug("cmab attribute id not in config", slog.String("attribute_id", id))
			continue
		}
		value, ok := user.Attribute(attr.Key)
		if !ok {
			s.log.Debug("cmab attribute missing on user",
				slog.String("attribute", attr.Key), slog.String("user_id", user.ID))
			continue
		}
		filtered[attr.Key] = value
	}
	return filtered
}

// cacheKey is hash(sorted attribute IDs)-userID-experimentID, so a config
// change to the experiment's attribute set naturally retires old entries.
func cacheKey(exp *datafile.Experiment, userID string) string {
	ids := append([]string(nil), exp.Cmab.AttributeIDs...)
	sort.Strings(ids)
	h := fnv.New32a()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%d-%s-%s", h.Sum32(), userID, exp.ID)
}

// hashAttributes fingerprints the filtered attribute values; a changed value
// invalidates the cached decision.
func hashAttributes(attributes map[string]any) uint64 {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	var sb strings.Builder
	for _, k := range keys {
		sb.Reset()
		fmt.Fprintf(&sb, "%s=%v;", k, attributes[k])
		h.Write([]byte(sb.String()))
	}
	return h.Sum64()
}
