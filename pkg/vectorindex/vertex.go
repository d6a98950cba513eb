package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sitesage/sitesage/pkg/types"
)

// VertexConfig identifies a deployed Vertex AI Matching Engine index.
type VertexConfig struct {
	// Endpoint is the regional API host, e.g.
	// "https://1234.us-central1-123.vdb.vertexai.goog".
	Endpoint string
	// IndexEndpointID is the full index endpoint resource name.
	IndexEndpointID string
	// DeployedIndexID names the deployed index on that endpoint.
	DeployedIndexID string
	// AccessToken authenticates requests. Token refresh is the
	// deployment's concern, not this client's.
	AccessToken string
}

// VertexClient queries a Vertex AI Matching Engine index over its REST
// findNeighbors API.
type VertexClient struct {
	config     VertexConfig
	httpClient *http.Client
}

// NewVertexClient creates a Matching Engine query client.
func NewVertexClient(config VertexConfig) *VertexClient {
	return &VertexClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type findNeighborsRequest struct {
	DeployedIndexID string          `json:"deployedIndexId"`
	Queries         []neighborQuery `json:"queries"`
}

type neighborQuery struct {
	Datapoint     queryDatapoint `json:"datapoint"`
	NeighborCount int            `json:"neighborCount"`
}

type queryDatapoint struct {
	FeatureVector []float32 `json:"featureVector"`
}

type findNeighborsResponse struct {
	NearestNeighbors []struct {
		Neighbors []struct {
			Datapoint struct {
				DatapointID string `json:"datapointId"`
			} `json:"datapoint"`
			Distance float64 `json:"distance"`
		} `json:"neighbors"`
	} `json:"nearestNeighbors"`
}

// FindNeighbors issues one nearest-neighbor query and returns up to k
// (id, similarity) pairs in the order the index ranked them.
func (c *VertexClient) FindNeighbors(ctx context.Context, vector []float32, k int) ([]types.Neighbor, error) {
	reqBody := findNeighborsRequest{
		DeployedIndexID: c.config.DeployedIndexID,
		Queries: []neighborQuery{{
			Datapoint:     queryDatapoint{FeatureVector: vector},
			NeighborCount: k,
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal find-neighbors request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s:findNeighbors", c.config.Endpoint, c.config.IndexEndpointID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create find-neighbors request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("vector search returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed findNeighborsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode find-neighbors response: %w", err)
	}

	if len(parsed.NearestNeighbors) == 0 {
		return nil, nil
	}

	matches := parsed.NearestNeighbors[0].Neighbors
	neighbors := make([]types.Neighbor, 0, len(matches))
	for _, m := range matches {
		neighbors = append(neighbors, types.Neighbor{
			ID:    m.Datapoint.DatapointID,
			Score: m.Distance,
		})
	}
	return neighbors, nil
}
