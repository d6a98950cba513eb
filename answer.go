package sitesage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitesage/sitesage/pkg/prompts"
)

// Answer builds the grounding context for query, renders the answer
// prompt, and returns the generation model's text verbatim. No retry,
// no streaming, no post-processing.
func (c *Client) Answer(ctx context.Context, query string) (string, error) {
	if c.gen == nil {
		return "", errors.New("no generation client configured")
	}

	gc, err := c.BuildContext(ctx, query)
	if err != nil {
		return "", err
	}

	resp, err := c.gen.Chat(ctx, prompts.AnswerMessages(gc, query))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return resp.Content, nil
}
