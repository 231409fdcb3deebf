package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/wonny/earnings-analyzer/backend/internal/s2_sentiment"
	"github.com/wonny/earnings-analyzer/backend/pkg/config"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

const (
	defaultMaxRetries = 2
	baseBackoff       = 2 * time.Second
	maxBackoff        = 30 * time.Second
)

// Client is the Anthropic-backed text classification collaborator.
// s2_sentiment.Classifier 구현체
type Client struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	maxRetries  int
	limiter     *rate.Limiter
	logger      *logger.Logger
}

var _ s2_sentiment.Classifier = (*Client)(nil)

// New creates a client from config. The API key must be set.
func New(cfg config.AnthropicConfig, log *logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("anthropic api key is not configured")
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		maxRetries:  defaultMaxRetries,
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
		logger:      log.WithField("component", "anthropic"),
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt and returns the concatenated text blocks
func (c *Client) Generate(ctx context.Context, req s2_sentiment.GenerateRequest) (string, error) {
	params := c.buildParams(req)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		text, err := c.call(ctx, params)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt == c.maxRetries || ctx.Err() != nil {
			break
		}

		backoff := Backoff(attempt, IsRateLimitError(err))
		c.logger.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"backoff": backoff.String(),
			"error":   err.Error(),
		}).Warn("Retrying Anthropic API call")

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	return "", fmt.Errorf("anthropic call failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) buildParams(req s2_sentiment.GenerateRequest) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	temp := req.Temperature
	if temp <= 0 {
		temp = c.temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(temp)
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	return params
}

func (c *Client) call(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	text := JoinText(parts)
	if text == "" {
		return "", fmt.Errorf("empty response from Anthropic API")
	}
	return text, nil
}

// JoinText concatenates text blocks in order
func JoinText(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p)
	}
	return b.String()
}

// IsRateLimitError reports whether err looks like a provider throttle
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "overloaded")
}

// Backoff returns the wait before retry attempt+1.
// 레이트 리밋이면 지수 백오프, 그 외는 선형
func Backoff(attempt int, rateLimited bool) time.Duration {
	var d time.Duration
	if rateLimited {
		d = baseBackoff << uint(attempt+1)
	} else {
		d = time.Duration(attempt+1) * baseBackoff
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
