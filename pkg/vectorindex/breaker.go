package vectorindex

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

// BreakerClient wraps a Client with a circuit breaker so a flapping
// index endpoint fails fast. Individual searches are still never
// retried.
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

// FindNeighbors forwards through the breaker.
func (c *BreakerClient) FindNeighbors(ctx context.Context, vector []float32, k int) ([]types.Neighbor, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.FindNeighbors(ctx, vector, k)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.Neighbor), nil
}
