package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

const (
	ServingName = "databricks-serving"

	DefaultServingModel = "databricks-claude-sonnet-4-5"
	servingTimeout      = 30 * time.Second
	maxTokens           = 2000
	temperature         = 0.7
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type servingRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// servingResponse covers both answer shapes the endpoint returns:
// OpenAI-style choices and a bare message.
type servingResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Message *chatMessage `json:"message"`
}

// Serving calls a managed model-serving endpoint over HTTPS with a bearer token.
type Serving struct {
	endpoint string
	token    string
	model    string
	client   *http.Client
}

func NewServing(endpoint, token, model string) *Serving {
	if model == "" {
		model = DefaultServingModel
	}
	return &Serving{
		endpoint: endpoint,
		token:    token,
		model:    model,
		client:   &http.Client{Timeout: servingTimeout},
	}
}

func (s *Serving) Name() string { return ServingName }

func (s *Serving) Generate(ctx context.Context, system, user string) (string, error) {
	if s.endpoint == "" {
		return "", &ConfigurationError{Backend: ServingName, Reason: "DATABRICKS_LLM_ENDPOINT is empty"}
	}
	if s.token == "" {
		return "", &ConfigurationError{Backend: ServingName, Reason: "DATABRICKS_TOKEN is empty"}
	}

	body, err := json.Marshal(servingRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", serviceErr(ServingName, "marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", serviceErr(ServingName, "build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", serviceErr(ServingName, "request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", serviceErr(ServingName, "read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", serviceErr(ServingName, "status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out servingResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", serviceErr(ServingName, "decode response: %w", err)
	}
	switch {
	case len(out.Choices) > 0:
		return out.Choices[0].Message.Content, nil
	case out.Message != nil:
		return out.Message.Content, nil
	}
	return "", serviceErr(ServingName, "unexpected response format: %s", truncate(string(raw), 200))
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
