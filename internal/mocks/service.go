package mocks

import (
	"context"

	"nerves/internal/domain/entity"
	"nerves/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// AuthGateway is a mock implementation of service.AuthGateway.
type AuthGateway struct {
	mock.Mock
}

func (m *AuthGateway) SignUp(ctx context.Context, email, password, username string) (*entity.Identity, error) {
	args := m.Called(ctx, email, password, username)
	if identity, ok := args.Get(0).(*entity.Identity); ok {
		return identity, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthGateway) SignInWithPassword(ctx context.Context, email, password string) (*service.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if session, ok := args.Get(0).(*service.AuthSession); ok {
		return session, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AuthGateway) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)

	return args.Error(0)
}

func (m *AuthGateway) CurrentIdentity(ctx context.Context, accessToken string) (*entity.Identity, error) {
	args := m.Called(ctx, accessToken)
	if identity, ok := args.Get(0).(*entity.Identity); ok {
		return identity, args.Error(1)
	}

	return nil, args.Error(1)
}

// ChatService is a mock implementation of service.ChatService.
type ChatService struct {
	mock.Mock
}

func (m *ChatService) Ask(ctx context.Context, prompt, tag string) (string, error) {
	args := m.Called(ctx, prompt, tag)

	return args.String(0), args.Error(1)
}
