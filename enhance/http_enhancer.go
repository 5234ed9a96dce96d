package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	Logger "github.com/squadup/squadnet/utils/log"
	"github.com/pkg/errors"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultModel          = "gemini-3-flash-preview"

	enhancePromptFormat = "Rewrite the following social media status update to be %s. Keep it concise and use emojis.\nOriginal text: %q"
	suggestPromptFormat = "Suggest 3 short, friendly, and distinct replies to this friend's status update. Return only the replies separated by pipelines (|).\nStatus: %q"
)

// HTTPEnhancer posts prompts to a generative text endpoint. With no API key
// configured every call degrades immediately, without touching the network.
type HTTPEnhancer struct {
	Endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewHTTPEnhancerFromEnv reads ENHANCER_ENDPOINT and ENHANCER_API_KEY.
func NewHTTPEnhancerFromEnv() *HTTPEnhancer {
	return NewHTTPEnhancer(os.Getenv("ENHANCER_ENDPOINT"), os.Getenv("ENHANCER_API_KEY"))
}

func NewHTTPEnhancer(endpoint string, apiKey string) *HTTPEnhancer {
	return &HTTPEnhancer{
		Endpoint: endpoint,
		apiKey:   apiKey,
		model:    defaultModel,
		client:   &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (e *HTTPEnhancer) configured() bool {
	return e.apiKey != "" && e.Endpoint != ""
}

type generateRequest struct {
	Model    string `json:"model"`
	Contents string `json:"contents"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (e *HTTPEnhancer) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := json.Marshal(&generateRequest{Model: e.model, Contents: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	res, err := e.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "enhancer request failed")
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return "", fmt.Errorf("enhancer non-200 http code %d", res.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// EnhanceStatus rewrites text in the requested tone. The original text comes
// back on a missing key, a failed call or an empty completion.
func (e *HTTPEnhancer) EnhanceStatus(ctx context.Context, text string, tone Tone) string {
	if !e.configured() {
		Logger.Log.Warn("enhancer API key is missing")
		return text
	}

	enhanced, err := e.generate(ctx, fmt.Sprintf(enhancePromptFormat, tone, text))
	if err != nil {
		Logger.Log.Error("status enhancement failed: ", err)
		return text
	}
	if enhanced = strings.TrimSpace(enhanced); enhanced == "" {
		return text
	}
	return enhanced
}

// SuggestReplies returns up to three short replies to a post. Canned replies
// come back when unconfigured or on failure.
func (e *HTTPEnhancer) SuggestReplies(ctx context.Context, postContent string) []string {
	if !e.configured() {
		return unconfiguredReplies
	}

	completion, err := e.generate(ctx, fmt.Sprintf(suggestPromptFormat, postContent))
	if err != nil {
		Logger.Log.Error("reply suggestion failed: ", err)
		return fallbackReplies
	}

	replies := []string{}
	for _, part := range strings.Split(completion, "|") {
		if part = strings.TrimSpace(part); part != "" {
			replies = append(replies, part)
		}
	}
	if len(replies) == 0 {
		return fallbackReplies
	}
	return replies
}
