package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "take a short break"}},
			},
		})
	}))
	defer srv.Close()

	p := New(srv.URL, "gpt-3.5-turbo", 5*time.Second)
	out, err := p.Generate(context.Background(), "you are a coach", "what now?")
	require.NoError(t, err)
	assert.Equal(t, "take a short break", out)

	assert.Equal(t, "gpt-3.5-turbo", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "you are a coach", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "what now?", gotReq.Messages[1].Content)
}

func TestGenerateRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	p := New("http://localhost:1", "gpt-3.5-turbo", time.Second)
	_, err := p.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestGenerateNonOKStatus(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := New(srv.URL, "gpt-3.5-turbo", time.Second)
	_, err := p.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai status 429")
}

func TestGenerateNoChoices(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := New(srv.URL, "gpt-3.5-turbo", time.Second)
	_, err := p.Generate(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
