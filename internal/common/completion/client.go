// Package completion talks to the hosted text-completion service.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	httpclient "studyai-workers/internal/common/http"
	"studyai-workers/internal/common/logger"
	"studyai-workers/internal/common/metrics"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"

	maxTemperature = 2.0
)

// Completer is satisfied by *Client and by test fakes.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one completion call. Empty ModelID and non-positive MaxTokens take the
// client defaults; Temperature is clamped into [0, 2].
type Request struct {
	Prompt       string
	SystemPrompt string
	Messages     []Message
	ModelID      string
	MaxTokens    int
	Temperature  float64
	WebSearch    bool
}

type wireOptions struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type wireRequest struct {
	Prompt       string      `json:"prompt,omitempty"`
	SystemPrompt string      `json:"systemPrompt,omitempty"`
	Messages     []Message   `json:"messages,omitempty"`
	Options      wireOptions `json:"options"`
	Search       bool        `json:"search"`
}

// wireResponse fields stay loose so any JSON body counts as a reply from the service.
type wireResponse struct {
	Content interface{} `json:"content"`
	Error   interface{} `json:"error"`
}

type Client struct {
	http         *httpclient.Client
	endpoint     string
	defaultModel string
	maxTokens    int
	allowed      map[string]bool
	logger       logger.Logger
}

func NewClient(cfg config.CompletionConfig, log logger.Logger) *Client {
	allowed := make(map[string]bool, len(cfg.AllowedModels))
	for _, m := range cfg.AllowedModels {
		allowed[m] = true
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Client{
		http:         httpclient.NewClient(config.GetDuration(cfg.Timeout)).WithBearerToken(cfg.APIKey),
		endpoint:     cfg.Endpoint(),
		defaultModel: cfg.DefaultModel,
		maxTokens:    maxTokens,
		allowed:      allowed,
		logger:       log.With(map[string]interface{}{"component": "completion"}),
	}
}

// Recognizes reports whether model is on the allow-list. An empty allow-list accepts any model.
func (c *Client) Recognizes(model string) bool {
	return len(c.allowed) == 0 || c.allowed[model]
}

// Complete sends req and returns the response content. Transport failures come back as
// CONNECTIVITY_ERROR, service-reported failures as UPSTREAM_ERROR. There is no retry.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body, err := c.buildRequest(req)
	if err != nil {
		return "", err
	}
	model := body.Options.Model

	start := time.Now()
	content, err := c.send(ctx, body)
	metrics.CompletionDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	metrics.CompletionRequests.WithLabelValues(model, outcomeOf(err)).Inc()

	if err != nil {
		c.logger.Warn("completion request failed", map[string]interface{}{
			"model":     model,
			"errorCode": string(apperrors.CodeOf(err)),
			"error":     err,
		})
		return "", err
	}

	c.logger.Debug("completion received", map[string]interface{}{
		"model":      model,
		"chars":      len(content),
		"webSearch":  body.Search,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return content, nil
}

func (c *Client) buildRequest(req Request) (*wireRequest, error) {
	if strings.TrimSpace(req.Prompt) == "" && len(req.Messages) == 0 {
		return nil, apperrors.NewInvalidRequestError("a prompt or at least one message is required")
	}
	for i, m := range req.Messages {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("messages[%d]: unknown role %q", i, m.Role))
		}
	}

	model := strings.TrimSpace(req.ModelID)
	if model == "" {
		model = c.defaultModel
	}
	if !c.Recognizes(model) {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("unknown model %q", model))
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	return &wireRequest{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Messages:     req.Messages,
		Options: wireOptions{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: clampTemperature(req.Temperature),
		},
		Search: req.WebSearch,
	}, nil
}

func (c *Client) send(ctx context.Context, reqBody *wireRequest) (string, error) {
	resp, err := c.http.PostJSON(ctx, c.endpoint, reqBody)
	if err != nil {
		return "", apperrors.NewConnectivityError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewConnectivityError(fmt.Errorf("read response: %w", err))
	}

	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		// A body that is not JSON means the service itself was never reached.
		return "", apperrors.NewConnectivityError(fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}

	var decoded wireResponse
	if obj, ok := body.(map[string]interface{}); ok {
		decoded.Content = obj["content"]
		decoded.Error = obj["error"]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewUpstreamError(resp.StatusCode, cast.ToString(decoded.Error))
	}

	return cast.ToString(decoded.Content), nil
}

func clampTemperature(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > maxTemperature {
		return maxTemperature
	}
	return t
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	return strings.ToLower(string(apperrors.CodeOf(err)))
}
