// Package chat implements the ChatService against the external inference
// endpoint. The endpoint is opaque: one POST in, one JSON reply out.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"nerves/config"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/service"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 30 * time.Second

type client struct {
	rest      *resty.Client
	endpoint  string
	maxTokens int
	logger    *slog.Logger
}

// NewClient builds a ChatService from config.
func NewClient(cfg *config.ChatConfig, logger *slog.Logger) service.ChatService {
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	rest := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &client{
		rest:      rest,
		endpoint:  cfg.Endpoint,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

type askRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	Tag       string `json:"tag"`
}

type askResponse struct {
	Response string `json:"response"`
}

// Ask forwards the prompt and returns the reply text. A transport failure or
// non-2xx status maps to ErrChatUnavailable; a reply that is not the expected
// JSON shape maps to ErrChatBadReply. Neither is fatal to the caller.
func (c *client) Ask(ctx context.Context, prompt, tag string) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(askRequest{Prompt: prompt, MaxTokens: c.maxTokens, Tag: tag}).
		Post(c.endpoint)
	if err != nil {
		c.logger.WarnContext(ctx, "chat endpoint unreachable", slog.String("error", err.Error()))

		return "", domainerrors.ErrChatUnavailable
	}
	if resp.IsError() {
		c.logger.WarnContext(ctx, "chat endpoint returned error status",
			slog.Int("status", resp.StatusCode()),
		)

		return "", domainerrors.ErrChatUnavailable
	}

	var body askResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || strings.TrimSpace(body.Response) == "" {
		c.logger.WarnContext(ctx, "chat endpoint reply did not parse")

		return "", domainerrors.ErrChatBadReply
	}

	return body.Response, nil
}
