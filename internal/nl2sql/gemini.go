package nl2sql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"govis/internal/core"
	"govis/internal/log"
)

var _ Generator = (*Gemini)(nil)

// Gemini calls the Gemini API through the genai client.
type Gemini struct {
	client *genai.Client
	model  string
	logger *log.Logger
}

// GeminiOption adjusts the client configuration before it is built.
type GeminiOption func(*genai.ClientConfig)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(url string) GeminiOption {
	return func(cc *genai.ClientConfig) { cc.HTTPOptions.BaseURL = url }
}

func WithHTTPClient(c *http.Client) GeminiOption {
	return func(cc *genai.ClientConfig) { cc.HTTPClient = c }
}

func NewGemini(ctx context.Context, apiKey, model string, logger *log.Logger, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing gemini api key")
	}
	if model == "" {
		return nil, errors.New("missing gemini model")
	}

	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	for _, opt := range opts {
		opt(cc)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  strings.TrimPrefix(model, "models/"),
		logger: logger.WithComponent(log.ComponentNL2SQL),
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.1)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{Temperature: &temperature})
	if err != nil {
		err = classifyError(err)
		g.logger.WarnContext(ctx, "Gemini request failed", log.FieldOperation, log.OpGenerate, log.FieldError, err)
		return "", err
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	g.logger.DebugContext(ctx, "Gemini response received", "chars", len(text))
	return text, nil
}

// responseText concatenates the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p != nil {
				b.WriteString(p.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	return b.String()
}

// classifyError maps quota and rate limit failures to core.ErrGeneratorQuota.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) &&
		(apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED") {
		return fmt.Errorf("%w: %w", core.ErrGeneratorQuota, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") {
		return fmt.Errorf("%w: %w", core.ErrGeneratorQuota, err)
	}
	return err
}
