package extractor

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

// DefaultServiceEndpoint is where the tagger sidecar listens locally.
const DefaultServiceEndpoint = "http://localhost:8090"

// ServiceClient talks to the NLP tagger sidecar over HTTP. The sidecar
// runs the heavyweight tagging model and returns tokenized, dependency
// parsed sentences plus entity spans; the relation heuristic itself runs
// here so its semantics stay under test in this repository.
type ServiceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewServiceClient creates a tagger sidecar client.
func NewServiceClient(endpoint string) *ServiceClient {
	if endpoint == "" {
		endpoint = DefaultServiceEndpoint
	}
	return &ServiceClient{
		baseURL: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Sentences []Sentence      `json:"sentences"`
	Entities  []types.Mention `json:"entities"`
}

// Extract sends the text for tagging and mines relation triples from
// the returned parse.
func (c *ServiceClient) Extract(ctx context.Context, text string) ([]types.Mention, []types.Triple, error) {
	payload, err := json.Marshal(parseRequest{Text: text})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("create parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("tagger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, nil, fmt.Errorf("tagger returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil, fmt.Errorf("decode tagger response: %w", err)
	}

	return parsed.Entities, MineTriples(parsed.Sentences), nil
}

// Health checks the sidecar is reachable.
func (c *ServiceClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op for the HTTP client.
func (c *ServiceClient) Close() error {
	return nil
}
