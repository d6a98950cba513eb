package prompts_test

import (
	"testing"

	"github.com/sitesage/sitesage/pkg/prompts"
	"github.com/sitesage/sitesage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerRendersSections(t *testing.T) {
	gc := &types.GroundingContext{
		Passages: "Nestle makes KitKat. https://example.com/kitkat\n\n" +
			"KitKat contains chocolate. https://example.com/kitkat",
		Relations: types.Triple{Source: "Nestle", Relation: "make", Target: "KitKat"}.String(),
	}

	got := prompts.AnswerPrompt(gc.Passages, gc.Relations, "Who makes KitKat?")

	assert.Contains(t, got, "### Information:")
	assert.Contains(t, got, "### Related Entity-Relationships:")
	assert.Contains(t, got, "### Query:")
	assert.Contains(t, got, "Nestle makes KitKat. https://example.com/kitkat")
	assert.Contains(t, got, "Nestle -[make]-> KitKat")
	assert.Contains(t, got, "Who makes KitKat?")
}

func TestAnswerEmptyContext(t *testing.T) {
	got := prompts.AnswerPrompt("", "", "anything?")
	assert.Contains(t, got, "### Information:")
	assert.Contains(t, got, "anything?")
}

func TestAnswerMessages(t *testing.T) {
	gc := &types.GroundingContext{Passages: "p"}
	msgs := prompts.AnswerMessages(gc, "q")
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleSystem, msgs[0].Role)
	assert.Equal(t, prompts.AnswerSystem, msgs[0].Content)
	assert.Equal(t, types.RoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "### Query:")
}
