package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enhancerBackend(t *testing.T, text string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)

		json.NewEncoder(w).Encode(&generateResponse{Text: text})
	}))
}

func TestEnhanceStatusRewritesViaBackend(t *testing.T) {
	backend := enhancerBackend(t, "  such wow, very status ✨  ")
	defer backend.Close()

	enhancer := NewHTTPEnhancer(backend.URL, "test-key")
	out := enhancer.EnhanceStatus(context.Background(), "my status", ToneFunny)
	assert.Equal(t, "such wow, very status ✨", out)
}

func TestEnhanceStatusDegradesToInput(t *testing.T) {
	// No key configured: input comes straight back.
	unconfigured := NewHTTPEnhancer("http://unused", "")
	assert.Equal(t, "hello", unconfigured.EnhanceStatus(context.Background(), "hello", TonePoetic))

	// Backend failure: same.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()
	broken := NewHTTPEnhancer(backend.URL, "test-key")
	assert.Equal(t, "hello", broken.EnhanceStatus(context.Background(), "hello", TonePoetic))

	// Empty completion: same.
	empty := enhancerBackend(t, "   ")
	defer empty.Close()
	blank := NewHTTPEnhancer(empty.URL, "test-key")
	assert.Equal(t, "hello", blank.EnhanceStatus(context.Background(), "hello", ToneExcited))
}

func TestSuggestRepliesSplitsOnPipes(t *testing.T) {
	backend := enhancerBackend(t, "Nice one! | So cool | | Where is this?")
	defer backend.Close()

	enhancer := NewHTTPEnhancer(backend.URL, "test-key")
	replies := enhancer.SuggestReplies(context.Background(), "at the beach")
	assert.Equal(t, []string{"Nice one!", "So cool", "Where is this?"}, replies)
}

func TestSuggestRepliesFallbacks(t *testing.T) {
	unconfigured := NewHTTPEnhancer("http://unused", "")
	assert.Equal(t, unconfiguredReplies, unconfigured.SuggestReplies(context.Background(), "post"))

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer backend.Close()
	broken := NewHTTPEnhancer(backend.URL, "test-key")
	assert.Equal(t, fallbackReplies, broken.SuggestReplies(context.Background(), "post"))
}
