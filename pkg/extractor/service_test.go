package extractor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitesage/sitesage/pkg/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceClientExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/parse", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Nestle makes KitKat.", req["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sentences": [{"tokens": [
				{"text": "Nestle", "lemma": "Nestle", "pos": "PROPN", "dep": "nsubj"},
				{"text": "makes", "lemma": "make", "pos": "VERB", "dep": "ROOT"},
				{"text": "KitKat", "lemma": "KitKat", "pos": "PROPN", "dep": "dobj"}
			]}],
			"entities": [
				{"text": "Nestle", "label": "ORG"},
				{"text": "KitKat", "label": "PRODUCT"}
			]
		}`))
	}))
	defer server.Close()

	client := extractor.NewServiceClient(server.URL)
	mentions, triples, err := client.Extract(context.Background(), "Nestle makes KitKat.")
	require.NoError(t, err)

	require.Len(t, mentions, 2)
	assert.Equal(t, "Nestle", mentions[0].Text)
	assert.Equal(t, "ORG", mentions[0].Label)

	require.Len(t, triples, 1)
	assert.Equal(t, "Nestle -[make]-> KitKat", triples[0].String())
}

func TestServiceClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := extractor.NewServiceClient(server.URL)
	_, _, err := client.Extract(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestServiceClientHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := extractor.NewServiceClient(server.URL)
	assert.NoError(t, client.Health(context.Background()))
}
