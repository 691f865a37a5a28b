// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"nerves/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProfileNotFound is returned when no profile row exists for an identity.
// The provisioning workflow treats it as a signal to create one, not a failure.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the standard operations for profile persistence.
type ProfileRepository interface {
	// FindByID retrieves the single profile keyed by the identity id,
	// expecting zero or one row. Returns ErrProfileNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// Create persists a new profile row. A primary-key conflict (the
	// concurrent first-login race) is reported as the domain
	// ErrProfileAlreadyExists error, which callers treat as benign.
	Create(ctx context.Context, profile *entity.Profile) error
}
