package handler

import (
	"net/http"
	"testing"

	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/mocks"
	"nerves/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAsk_ForwardsPromptAndTag(t *testing.T) {
	uc := &mocks.ChatUsecase{}
	h := NewChatHandler(uc, testLogger())
	uc.On("Ask", mock.Anything, &usecase.ChatInput{
		Prompt: "What is the meaning of the silence?",
		Tag:    "philosophy",
	}).Return("The silence is the message.", nil)

	c, rec := newEchoContext(t, http.MethodPost, "/chat",
		`{"prompt":"What is the meaning of the silence?","tag":"philosophy"}`)

	require.NoError(t, h.Ask(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"response":"The silence is the message."`)
}

func TestAsk_MissingPrompt(t *testing.T) {
	uc := &mocks.ChatUsecase{}
	h := NewChatHandler(uc, testLogger())

	c, _ := newEchoContext(t, http.MethodPost, "/chat", `{"tag":"philosophy"}`)

	err := h.Ask(c)
	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	uc.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything)
}

func TestAsk_UpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "endpoint unreachable", err: domainerrors.ErrChatUnavailable},
		{name: "bad reply shape", err: domainerrors.ErrChatBadReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mocks.ChatUsecase{}
			h := NewChatHandler(uc, testLogger())
			uc.On("Ask", mock.Anything, mock.Anything).Return("", tt.err)

			c, _ := newEchoContext(t, http.MethodPost, "/chat", `{"prompt":"hello"}`)

			err := h.Ask(c)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
