package handler

import (
	"log/slog"
	"net/http"

	"nerves/internal/delivery/http/response"
	"nerves/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ChatHandler proxies assistant prompts to the inference endpoint.
type ChatHandler struct {
	uc     usecase.ChatUsecase
	logger *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler, injected by Fx.
func NewChatHandler(uc usecase.ChatUsecase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{uc: uc, logger: logger}
}

type chatRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Tag    string `json:"tag"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Ask forwards the prompt and returns the assistant's reply.
func (h *ChatHandler) Ask(c echo.Context) error {
	var input chatRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid chat input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	reply, err := h.uc.Ask(c.Request().Context(), &usecase.ChatInput{
		Prompt: input.Prompt,
		Tag:    input.Tag,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, chatResponse{Response: reply}, "Reply generated")
}
