package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai"
)

func newTestServer(t *testing.T, status int, content string, seen *chatCompletionsRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "cmpl-1",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestClientChat(t *testing.T) {
	var seen chatCompletionsRequest
	srv := newTestServer(t, http.StatusOK, "No AWS in production.", &seen)
	defer srv.Close()

	c, err := New("test-key", srv.URL, "", 0, zap.NewNop())
	require.NoError(t, err)

	history := []ai.Turn{
		{Role: ai.RoleUser, Content: "Hi"},
		{Role: ai.RoleAssistant, Content: "Hello"},
		{Role: ai.Role("system"), Content: "Stray"},
	}
	reply, err := c.Chat(context.Background(), "directive", history, "AWS?")
	require.NoError(t, err)
	assert.Equal(t, "No AWS in production.", reply)

	assert.Equal(t, DefaultModel, seen.Model)
	assert.InDelta(t, 0.7, seen.Temperature, 0.0001)
	assert.Equal(t, 1000, seen.MaxTokens)
	require.Len(t, seen.Messages, 5)
	assert.Equal(t, message{Role: "system", Content: "directive"}, seen.Messages[0])
	assert.Equal(t, message{Role: "user", Content: "Hi"}, seen.Messages[1])
	assert.Equal(t, message{Role: "assistant", Content: "Hello"}, seen.Messages[2])
	assert.Equal(t, message{Role: "assistant", Content: "Stray"}, seen.Messages[3])
	assert.Equal(t, message{Role: "user", Content: "AWS?"}, seen.Messages[4])
	assert.Nil(t, seen.ResponseFormat)
}

func TestClientAssess(t *testing.T) {
	var seen chatCompletionsRequest
	content := `{"verdict":"strong_fit","headline":"h","opening":"o","gaps":[],"transfers":["Go"],"recommendation":"r"}`
	srv := newTestServer(t, http.StatusOK, content, &seen)
	defer srv.Close()

	c, err := New("test-key", srv.URL+"/", "gpt-test", 0, zap.NewNop())
	require.NoError(t, err)

	assessment, err := c.Assess(context.Background(), "directive", "Go developer")
	require.NoError(t, err)
	assert.Equal(t, ai.VerdictStrongFit, assessment.Verdict)

	assert.Equal(t, "gpt-test", seen.Model)
	assert.InDelta(t, 0.3, seen.Temperature, 0.0001)
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, "json_schema", seen.ResponseFormat.Type)
	assert.Equal(t, "fit_assessment", seen.ResponseFormat.JSONSchema.Name)
	assert.True(t, seen.ResponseFormat.JSONSchema.Strict)
	assert.Equal(t, "Please analyze this job description:\n\nGo developer", seen.Messages[1].Content)
}

func TestClientNonSuccessStatus(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, "", nil)
	defer srv.Close()

	c, err := New("test-key", srv.URL, "", 0, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "directive", nil, "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("  ", "", "", 0, zap.NewNop())
	assert.Error(t, err)
}
