package mocks

import (
	"context"

	"nerves/internal/domain/entity"
	"nerves/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// AccountUsecase is a mock implementation of usecase.AccountUsecase.
type AccountUsecase struct {
	mock.Mock
}

func (m *AccountUsecase) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.SignUpOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AccountUsecase) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.SignInOutput, error) {
	args := m.Called(ctx, input)
	if out, ok := args.Get(0).(*usecase.SignInOutput); ok {
		return out, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *AccountUsecase) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)

	return args.Error(0)
}

func (m *AccountUsecase) Restore(ctx context.Context, accessToken string) (*entity.Profile, error) {
	args := m.Called(ctx, accessToken)
	if profile, ok := args.Get(0).(*entity.Profile); ok {
		return profile, args.Error(1)
	}

	return nil, args.Error(1)
}

// EntryUsecase is a mock implementation of usecase.EntryUsecase.
type EntryUsecase struct {
	mock.Mock
}

func (m *EntryUsecase) ListPublic(ctx context.Context) ([]*entity.Entry, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]*entity.Entry); ok {
		return entries, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *EntryUsecase) Create(ctx context.Context, input *usecase.CreateEntryInput) (*entity.Entry, error) {
	args := m.Called(ctx, input)
	if entry, ok := args.Get(0).(*entity.Entry); ok {
		return entry, args.Error(1)
	}

	return nil, args.Error(1)
}

// ChatUsecase is a mock implementation of usecase.ChatUsecase.
type ChatUsecase struct {
	mock.Mock
}

func (m *ChatUsecase) Ask(ctx context.Context, input *usecase.ChatInput) (string, error) {
	args := m.Called(ctx, input)

	return args.String(0), args.Error(1)
}
