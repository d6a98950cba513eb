package nlp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sitesage/sitesage/pkg/nlp"
	"github.com/sitesage/sitesage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory(t *testing.T) {
	client, err := nlp.New("gemini", nlp.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &nlp.GeminiClient{}, client)

	client, err = nlp.New("", nlp.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &nlp.GeminiClient{}, client)

	client, err = nlp.New("openai", nlp.Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &nlp.OpenAIClient{}, client)

	_, err = nlp.New("mystery", nlp.Config{})
	assert.Error(t, err)
}

func TestOpenAIClientRequiresKey(t *testing.T) {
	_, err := nlp.NewOpenAIClient(nlp.Config{})
	assert.Error(t, err)

	// A custom base URL implies a possibly unauthenticated service.
	_, err = nlp.NewOpenAIClient(nlp.Config{BaseURL: "http://localhost:11434/v1"})
	assert.NoError(t, err)
}

func TestGeminiChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "KitKat is made by Nestle."}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer server.Close()

	client := nlp.NewGeminiClient(nlp.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
	})

	resp, err := client.Chat(context.Background(), []types.Message{
		types.NewUserMessage("what does Nestle make"),
	})
	require.NoError(t, err)
	assert.Equal(t, "KitKat is made by Nestle.", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
}

func TestGeminiChatErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := nlp.NewGeminiClient(nlp.Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.Chat(context.Background(), []types.Message{types.NewUserMessage("q")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiChatNoMessages(t *testing.T) {
	client := nlp.NewGeminiClient(nlp.Config{APIKey: "k"})
	_, err := client.Chat(context.Background(), nil)
	assert.Error(t, err)
}

type failingClient struct{ calls int }

func (f *failingClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	f.calls++
	return nil, errors.New("boom")
}

func (f *failingClient) Close() error { return nil }

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &failingClient{}
	client := nlp.NewBreakerClient(inner, "test", nlp.BreakerSettings{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		ReadyToTripRatio: 0.5,
	})

	ctx := context.Background()
	msg := []types.Message{types.NewUserMessage("q")}

	for i := 0; i < 5; i++ {
		_, err := client.Chat(ctx, msg)
		require.Error(t, err)
	}

	// The breaker is open by now, so the inner client stops being called.
	assert.Less(t, inner.calls, 5)
}
