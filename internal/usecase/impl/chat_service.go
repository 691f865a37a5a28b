package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/service"
	"nerves/internal/metrics"
	"nerves/internal/usecase"
)

// chatService implements the ChatUsecase interface.
type chatService struct {
	chat      service.ChatService
	collector metrics.Collector
	logger    *slog.Logger
}

// NewChatService is the constructor for chatService.
func NewChatService(
	chat service.ChatService,
	collector metrics.Collector,
	logger *slog.Logger,
) usecase.ChatUsecase {
	return &chatService{
		chat:      chat,
		collector: collector,
		logger:    logger,
	}
}

// Ask proxies the prompt to the inference endpoint.
func (srv *chatService) Ask(ctx context.Context, input *usecase.ChatInput) (string, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		return "", domainerrors.ErrValidationFailed.WrapMessage("prompt is required")
	}

	start := time.Now()
	reply, err := srv.chat.Ask(ctx, prompt, input.Tag)
	srv.collector.RecordChatLatency(time.Since(start))

	if err != nil {
		srv.collector.RecordChatRequest(metrics.OutcomeFailure)
		srv.logger.Warn("Chat request failed", "error", err)

		return "", err
	}

	srv.collector.RecordChatRequest(metrics.OutcomeSuccess)

	return reply, nil
}
