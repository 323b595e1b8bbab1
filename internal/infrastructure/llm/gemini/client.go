package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lokeshch/document-assistant/internal/core/ports"
	"github.com/lokeshch/document-assistant/internal/infrastructure/resilience"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Client talks to the Generative Language generateContent endpoint.
// It satisfies ports.Summarizer.
type Client struct {
	baseURL    string
	model      string
	pool       *CredentialPool
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, pool *CredentialPool, executor *resilience.Executor) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		pool:       pool,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Complete(ctx context.Context, prompt string, opts ports.CompleteOptions) (string, error) {
	request := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	}

	var text string
	err := c.executor.Execute(ctx, "gemini.generate_content", func(ctx context.Context) error {
		key := c.pool.Next()

		var response generateContentResponse
		if err := c.postJSON(ctx, c.modelPath(), key, request, &response, "generate_content"); err != nil {
			if shouldSidelineKey(err) {
				c.pool.MarkUnhealthy(key)
			}
			return err
		}

		text = extractText(response)
		if text == "" {
			return fmt.Errorf("gemini generate_content: empty candidate list")
		}
		return nil
	}, classifyGeminiError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("gemini completion", err)
	}
	return text, nil
}

func (c *Client) modelPath() string {
	return "/v1beta/models/" + c.model + ":generateContent"
}

func extractText(response generateContentResponse) string {
	if len(response.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
