package impl

import (
	"context"
	"testing"

	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/metrics"
	"nerves/internal/mocks"
	"nerves/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChatFixture() (*mocks.ChatService, usecase.ChatUsecase) {
	chat := &mocks.ChatService{}
	svc := NewChatService(chat, metrics.NopCollector{}, testLogger())

	return chat, svc
}

func TestAsk_ForwardsPromptAndTag(t *testing.T) {
	chat, svc := newChatFixture()
	chat.On("Ask", mock.Anything, "what is the void?", "philosophy").
		Return("An absence, mostly.", nil)

	reply, err := svc.Ask(context.Background(), &usecase.ChatInput{
		Prompt: "  what is the void?  ",
		Tag:    "philosophy",
	})

	require.NoError(t, err)
	assert.Equal(t, "An absence, mostly.", reply)
}

func TestAsk_EmptyPrompt(t *testing.T) {
	chat, svc := newChatFixture()

	reply, err := svc.Ask(context.Background(), &usecase.ChatInput{Prompt: "   "})

	assert.Empty(t, reply)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	chat.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_EndpointFailuresSurfaceAsDomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		gateway error
	}{
		{name: "unreachable endpoint", gateway: domainerrors.ErrChatUnavailable},
		{name: "malformed reply", gateway: domainerrors.ErrChatBadReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat, svc := newChatFixture()
			chat.On("Ask", mock.Anything, mock.Anything, mock.Anything).Return("", tt.gateway)

			reply, err := svc.Ask(context.Background(), &usecase.ChatInput{Prompt: "hello"})

			assert.Empty(t, reply)
			assert.ErrorIs(t, err, tt.gateway)
		})
	}
}
