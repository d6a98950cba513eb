package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/sitesage/sitesage/pkg/nlp"
	"github.com/sitesage/sitesage/pkg/types"
)

const llmExtractionPrompt = `Extract named entities and subject-verb-object relations from the text below.

Respond with a JSON object in the following format:

{"entities": [{"text": "...", "label": "ORG|PERSON|PRODUCT|GPE|OTHER"}], "relations": [{"source": "...", "relation": "...", "target": "..."}]}

Use the lemmatized verb as the relation. Respond with JSON only.

Text:
%s`

// LLMExtractor asks the generation model to extract entities and
// relations as JSON. Model output is repaired before unmarshalling since
// completions are frequently almost-JSON.
type LLMExtractor struct {
	client nlp.Client
}

// NewLLMExtractor creates an LLM-backed extractor.
func NewLLMExtractor(client nlp.Client) *LLMExtractor {
	return &LLMExtractor{client: client}
}

type llmExtraction struct {
	Entities  []types.Mention `json:"entities"`
	Relations []types.Triple  `json:"relations"`
}

// Extract prompts the model and parses its JSON reply.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]types.Mention, []types.Triple, error) {
	prompt := fmt.Sprintf(llmExtractionPrompt, text)
	resp, err := e.client.Chat(ctx, []types.Message{types.NewUserMessage(prompt)})
	if err != nil {
		return nil, nil, fmt.Errorf("llm extraction failed: %w", err)
	}

	content := stripCodeFence(resp.Content)
	if repaired, err := jsonrepair.JSONRepair(content); err == nil {
		content = repaired
	}

	var result llmExtraction
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, nil, fmt.Errorf("unparseable extraction response: %w", err)
	}

	return result.Entities, result.Relations, nil
}

// Close is a no-op; the generation client is shared and closed by its owner.
func (e *LLMExtractor) Close() error {
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
