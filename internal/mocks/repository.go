// Package mocks provides hand-written testify mocks for the domain
// interfaces used across use case and handler tests.
package mocks

import (
	"context"

	"nerves/internal/domain/entity"
	"nerves/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ProfileRepository is a mock implementation of repository.ProfileRepository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, id)
	if profile, ok := args.Get(0).(*entity.Profile); ok {
		return profile, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *ProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	args := m.Called(ctx, profile)

	return args.Error(0)
}

// EntryRepository is a mock implementation of repository.EntryRepository.
type EntryRepository struct {
	mock.Mock
}

func (m *EntryRepository) ListPublic(ctx context.Context) ([]*entity.Entry, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]*entity.Entry); ok {
		return entries, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *EntryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

// RepositoryFactory hands out the mock repositories above.
type RepositoryFactory struct {
	Profiles *ProfileRepository
	Entries  *EntryRepository
}

func (f *RepositoryFactory) ProfileRepo() repository.ProfileRepository { return f.Profiles }
func (f *RepositoryFactory) EntryRepo() repository.EntryRepository     { return f.Entries }

// TransactionManager runs the callback against the mock factory without any
// real transaction semantics.
type TransactionManager struct {
	Factory *RepositoryFactory
}

// NewTransactionManager wires a pass-through manager over fresh mock repos.
func NewTransactionManager() *TransactionManager {
	return &TransactionManager{
		Factory: &RepositoryFactory{
			Profiles: &ProfileRepository{},
			Entries:  &EntryRepository{},
		},
	}
}

func (m *TransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}
