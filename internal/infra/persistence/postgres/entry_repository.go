package postgres

import (
	"context"

	"nerves/internal/domain/entity"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/repository"
	"nerves/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// entryRepository implements the domain.EntryRepository interface.
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository is the constructor for entryRepository.
func NewEntryRepository(db *gorm.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

// ListPublic retrieves all public entries, newest first, with their authors.
func (repo *entryRepository) ListPublic(ctx context.Context) ([]*entity.Entry, error) {
	var entryModels []*model.EntryModel
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&entryModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list public entries")
	}

	entries := make([]*entity.Entry, 0, len(entryModels))
	for _, entryM := range entryModels {
		entries = append(entries, toEntryDomain(entryM))
	}

	return entries, nil
}

// Create persists a new entry.
func (repo *entryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	entryM := fromEntryDomain(entry)

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrEntryCreationFailed.WrapMessage("author profile does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrEntryCreationFailed.WrapMessage("missing required entry information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create entry")
	}

	// Update the entity with generated values
	entry.ID = entryM.ID
	entry.CreatedAt = entryM.CreatedAt

	return nil
}

// --- Mapper Functions ---

// toEntryDomain converts a GORM EntryModel to a domain Entry entity.
func toEntryDomain(data *model.EntryModel) *entity.Entry {
	if data == nil {
		return nil
	}

	return &entity.Entry{
		ID:          data.ID,
		UserID:      data.UserID,
		Title:       data.Title,
		Description: data.Description,
		ContentText: data.ContentText,
		ContentType: data.ContentType,
		Tags:        data.Tags,
		IsPublic:    data.IsPublic,
		CreatedAt:   data.CreatedAt,
		Author:      toProfileDomain(data.Author),
	}
}

// fromEntryDomain converts a domain Entry entity to a GORM EntryModel.
func fromEntryDomain(data *entity.Entry) *model.EntryModel {
	if data == nil {
		return nil
	}

	return &model.EntryModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Title:       data.Title,
		Description: data.Description,
		ContentText: data.ContentText,
		ContentType: data.ContentType,
		Tags:        data.Tags,
		IsPublic:    data.IsPublic,
		CreatedAt:   data.CreatedAt,
	}
}
