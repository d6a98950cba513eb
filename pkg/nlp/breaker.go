package nlp

import (
	"context"
	"time"

	"github.com/sitesage/sitesage/pkg/types"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker wrapper.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ReadyToTripRatio float64
}

// BreakerClient wraps a Client with a circuit breaker. It never retries:
// once the generation service is flapping, calls fail fast instead of
// queueing against a dead endpoint.
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps client with circuit breaking.
func NewBreakerClient(client Client, name string, settings BreakerSettings) *BreakerClient {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= settings.ReadyToTripRatio
		},
	}

	return &BreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
	}
}

// Chat forwards through the breaker.
func (c *BreakerClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Chat(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.Response), nil
}

// Close closes the wrapped client.
func (c *BreakerClient) Close() error {
	return c.client.Close()
}
