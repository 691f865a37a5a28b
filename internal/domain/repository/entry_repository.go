package repository

import (
	"context"

	"nerves/internal/domain/entity"
)

// EntryRepository defines the standard operations for intelligence entry
// persistence. Entries are immutable; there is no update or delete.
type EntryRepository interface {
	// ListPublic retrieves all public entries ordered by creation time,
	// newest first, with the author profile denormalized onto each entry.
	ListPublic(ctx context.Context) ([]*entity.Entry, error)

	// Create persists a new entry and fills in its generated id, timestamps
	// and author profile.
	Create(ctx context.Context, entry *entity.Entry) error
}
