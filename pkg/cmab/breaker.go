package cmab

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker around a CMAB client.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig trips after five consecutive failures and probes
// again after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "cmab",
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerClient decorates a Client with a circuit breaker. While the breaker
// is open, FetchDecision fails immediately without touching the endpoint,
// and the decision pipeline degrades to its no-decision fallback.
type BreakerClient struct {
	client  Client
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps client with circuit breaker protection.
func NewBreakerClient(client Client, cfg BreakerConfig) (*BreakerClient, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	return &BreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}, nil
}

// FetchDecision implements Client.
func (c *BreakerClient) FetchDecision(ctx context.Context, ruleID, userID string, attributes map[string]any, cmabUUID string) (string, error) {
	return c.breaker.Execute(func() (string, error) {
		return c.client.FetchDecision(ctx, ruleID, userID, attributes, cmabUUID)
	})
}

// State reports the breaker state for monitoring.
func (c *BreakerClient) State() string {
	return c.breaker.State().String()
}
