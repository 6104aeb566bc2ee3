package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

func TestOpenAIClientComplete(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "c1", "object": "chat.completion", "choices": [{"index": 0, "message": {"role": "assistant", "content": "Which colour?"}, "finish_reason": "stop"}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", srv.URL+"/v1", "", srv.Client())
	require.NoError(t, err)

	reply, err := c.Complete(context.Background(), domain.CompletionRequest{
		Turns: domain.Transcript{
			domain.SystemTurn("be helpful"),
			{Role: domain.RoleUser, Content: "a dress"},
		},
		MaxTokens: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Which colour?", reply)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestOpenAIClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-bad", srv.URL+"/v1", "gpt-3.5-turbo", srv.Client())
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), domain.CompletionRequest{Turns: domain.Transcript{domain.SystemTurn("x")}, MaxTokens: 10})
	assert.ErrorIs(t, err, domain.ErrModelInvocation)
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", "", nil)
	assert.Error(t, err)
}

func TestVertexContentsFoldSystemTurns(t *testing.T) {
	system, contents := toContents(domain.Transcript{
		domain.SystemTurn("one"),
		{Role: domain.RoleUser, Content: "hi"},
		domain.SystemTurn("two"),
		{Role: domain.RoleAssistant, Content: "hello"},
	})
	assert.Equal(t, "one\ntwo", system)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}
