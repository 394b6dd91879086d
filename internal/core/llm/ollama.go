package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/tbouchet/plume/internal/core"
)

// OllamaGenerator talks to a locally hosted Ollama server. Generation
// is bounded by a wall-clock timeout; token usage is the sum of prompt
// and completion tokens reported by the server.
type OllamaGenerator struct {
	client  *api.Client
	timeout time.Duration
}

func NewOllamaGenerator(baseURL string, timeout time.Duration) (*OllamaGenerator, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}
	return &OllamaGenerator{
		client:  api.NewClient(parsed, http.DefaultClient),
		timeout: timeout,
	}, nil
}

func (g *OllamaGenerator) Generate(ctx context.Context, model, prompt string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: new(bool), // false
	}

	var sb strings.Builder
	var tokens int
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		if resp.Done {
			tokens = resp.PromptEvalCount + resp.EvalCount
		}
		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("ollama generate: %w", err)
	}

	return strings.TrimSpace(sb.String()), tokens, nil
}

func (g *OllamaGenerator) Heartbeat(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return g.client.Heartbeat(ctx)
}

var _ core.Generator = (*OllamaGenerator)(nil)
