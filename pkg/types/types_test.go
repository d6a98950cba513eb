package types_test

import (
	"encoding/json"
	"testing"

	"github.com/sitesage/sitesage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripleString(t *testing.T) {
	tests := []struct {
		name   string
		triple types.Triple
		want   string
	}{
		{
			name:   "simple triple",
			triple: types.Triple{Source: "Nestle", Relation: "makes", Target: "KitKat"},
			want:   "Nestle -[makes]-> KitKat",
		},
		{
			name:   "relation with underscore",
			triple: types.Triple{Source: "A", Relation: "works_for", Target: "B"},
			want:   "A -[works_for]-> B",
		},
		{
			name:   "empty fields render literally",
			triple: types.Triple{},
			want:   " -[]-> ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.triple.String())
		})
	}
}

func TestDocumentUnmarshal(t *testing.T) {
	raw := `{
		"url": "https://www.example.com/products/kitkat",
		"text": "KitKat is a chocolate bar.",
		"links": ["https://www.example.com/"],
		"images": [["/img/kitkat.png", "KitKat"]]
	}`

	var doc types.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "https://www.example.com/products/kitkat", doc.URL)
	assert.Equal(t, "KitKat is a chocolate bar.", doc.Text)
	assert.Len(t, doc.Links, 1)
	assert.Len(t, doc.Images, 1)
}

func TestNewMessages(t *testing.T) {
	user := types.NewUserMessage("hello")
	assert.Equal(t, types.RoleUser, user.Role)
	assert.Equal(t, "hello", user.Content)

	system := types.NewSystemMessage("be terse")
	assert.Equal(t, types.RoleSystem, system.Role)
}
