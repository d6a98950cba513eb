package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	sitesage "github.com/sitesage/sitesage"
	"github.com/sitesage/sitesage/pkg/server/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	answer string
	err    error
	asked  string
}

func (s *stubAnswerer) Answer(ctx context.Context, query string) (string, error) {
	s.asked = query
	return s.answer, s.err
}

func newChatRouter(answerer handlers.Answerer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/chat", handlers.NewChatHandler(answerer, nil, nil).Chat)
	return router
}

func postChat(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatHappyPath(t *testing.T) {
	answerer := &stubAnswerer{answer: "KitKat is made by Nestle."}
	w := postChat(newChatRouter(answerer), `{"message": "Who makes KitKat?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Who makes KitKat?", answerer.asked)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "KitKat is made by Nestle.", resp["response"])
}

func TestChatBlankMessageIsBadRequest(t *testing.T) {
	answerer := &stubAnswerer{}
	router := newChatRouter(answerer)

	for _, body := range []string{`{"message": ""}`, `{"message": "   "}`, `{}`} {
		w := postChat(router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
	assert.Empty(t, answerer.asked, "pipeline never invoked for blank messages")
}

func TestChatMalformedBodyIsBadRequest(t *testing.T) {
	w := postChat(newChatRouter(&stubAnswerer{}), `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatPipelineFailureIsGeneric500(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("neo4j: connection refused at 10.0.0.5")}
	w := postChat(newChatRouter(answerer), `{"message": "anything"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "neo4j", "internal detail stays server-side")
	assert.NotContains(t, w.Body.String(), "10.0.0.5")

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal error", resp["error"])
}

func TestChatEmptyQueryErrorMapsTo400(t *testing.T) {
	answerer := &stubAnswerer{err: sitesage.ErrEmptyQuery}
	w := postChat(newChatRouter(answerer), `{"message": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
