// Package prompts holds the prompt templates used for answer generation
// and LLM-based extraction. Templates are plain fmt strings so callers
// can see exactly what reaches the model.
package prompts

import (
	"fmt"

	"github.com/sitesage/sitesage/pkg/types"
)

// AnswerSystem instructs the model to ground its answer in the supplied
// context and to surface source URLs when present.
const AnswerSystem = "Using the information and entity-relationship details provided below, " +
	"answer the query in natural language. If a relevant URL is present in the " +
	"context, include it in your response."

const answerTemplate = `### Information:
%s

### Related Entity-Relationships:
%s

### Query:
%s
`

// AnswerPrompt renders the grounded answer prompt from already-joined
// passage and relation text.
func AnswerPrompt(passages, relations, query string) string {
	return fmt.Sprintf(answerTemplate, passages, relations, query)
}

// AnswerMessages builds the full chat exchange for answer generation.
func AnswerMessages(gc *types.GroundingContext, query string) []types.Message {
	return []types.Message{
		types.NewSystemMessage(AnswerSystem),
		types.NewUserMessage(AnswerPrompt(gc.Passages, gc.Relations, query)),
	}
}
