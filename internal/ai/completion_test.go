package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		DefaultModel:  "mistral-large2",
		AllowedModels: []string{"mistral-large2", "llama3.1-70b", "llama3.1-8b"},
	})
}

func TestResolveModel(t *testing.T) {
	c := newTestClient("http://unused")

	model, err := c.ResolveModel("")
	require.NoError(t, err)
	assert.Equal(t, "mistral-large2", model)

	model, err = c.ResolveModel("llama3.1-8b")
	require.NoError(t, err)
	assert.Equal(t, "llama3.1-8b", model)

	_, err = c.ResolveModel("gpt-4")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestCompleteParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"SB8 amends school safety law."}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	out, err := c.Complete(context.Background(), "", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "SB8 amends school safety law.", out)
}

func TestCompleteRejectsUnknownModelBeforeRequest(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	_, err := c.Complete(context.Background(), "made-up", "prompt")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Complete(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStreamCompleteAssemblesDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		frames := []string{
			`data: {"choices":[{"delta":{"content":"SB8 "}}]}`,
			``,
			`data: {"choices":[{"delta":{"content":"amends "}}]}`,
			``,
			`data: {"choices":[{"delta":{"content":"the law."}}]}`,
			``,
			`data: [DONE]`,
		}
		_, _ = w.Write([]byte(strings.Join(frames, "\n")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	var chunks []string
	full, err := c.StreamComplete(context.Background(), "", "prompt", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "SB8 amends the law.", full)
	assert.Equal(t, []string{"SB8 ", "amends ", "the law."}, chunks)
}

func TestStreamCompleteOnChunkErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\ndata: [DONE]\n"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.StreamComplete(context.Background(), "", "prompt", func(string) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
