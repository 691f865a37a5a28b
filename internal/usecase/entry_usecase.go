package usecase

import (
	"context"

	"nerves/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateEntryInput defines the data required to publish a new entry.
type CreateEntryInput struct {
	UserID      uuid.UUID
	Title       string
	Description string
	Content     string
	Tags        []string
	IsPublic    bool
}

// EntryUsecase defines the interface for entry-related business operations.
type EntryUsecase interface {
	// ListPublic returns all public entries, newest first, with authors.
	ListPublic(ctx context.Context) ([]*entity.Entry, error)

	// Create validates, sanitizes and persists a new entry.
	Create(ctx context.Context, input *CreateEntryInput) (*entity.Entry, error)
}
