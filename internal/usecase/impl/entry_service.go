package impl

import (
	"context"
	"log/slog"
	"strings"

	"nerves/internal/domain/entity"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/repository"
	"nerves/internal/metrics"
	"nerves/internal/security"
	"nerves/internal/usecase"

	"github.com/pkg/errors"
)

// entryService implements the EntryUsecase interface.
type entryService struct {
	txManager repository.TransactionManager
	sanitizer security.ContentSanitizer
	collector metrics.Collector
	logger    *slog.Logger
}

// NewEntryService is the constructor for entryService.
func NewEntryService(
	txManager repository.TransactionManager,
	sanitizer security.ContentSanitizer,
	collector metrics.Collector,
	logger *slog.Logger,
) usecase.EntryUsecase {
	return &entryService{
		txManager: txManager,
		sanitizer: sanitizer,
		collector: collector,
		logger:    logger,
	}
}

// ListPublic returns the public feed, newest first.
func (srv *entryService) ListPublic(ctx context.Context) ([]*entity.Entry, error) {
	var entries []*entity.Entry

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.EntryRepo().ListPublic(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list entries")
		}
		entries = found

		return nil
	})
	if err != nil {
		srv.logger.Error("Failed to load entry feed", "error", err)

		return nil, errors.Wrap(err, "failed to load entry feed")
	}

	return entries, nil
}

// Create validates, sanitizes and persists a new entry. Title, content and at
// least one tag are required.
func (srv *entryService) Create(ctx context.Context, input *usecase.CreateEntryInput) (*entity.Entry, error) {
	srv.logger.Info("Creating entry", "userID", input.UserID, "title", input.Title)

	title := strings.TrimSpace(srv.sanitizer.SanitizeText(input.Title))
	content := strings.TrimSpace(srv.sanitizer.SanitizeContent(input.Content))
	tags := srv.cleanTags(input.Tags)

	switch {
	case title == "":
		return nil, domainerrors.ErrValidationFailed.WrapMessage("title is required")
	case content == "":
		return nil, domainerrors.ErrValidationFailed.WrapMessage("content is required")
	case len(tags) == 0:
		return nil, domainerrors.ErrValidationFailed.WrapMessage("at least one tag is required")
	}

	newEntry := &entity.Entry{
		UserID:      input.UserID,
		Title:       title,
		Description: strings.TrimSpace(srv.sanitizer.SanitizeText(input.Description)),
		ContentText: content,
		ContentType: entity.DefaultContentType,
		Tags:        tags,
		IsPublic:    input.IsPublic,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		// Attach the author so the feed can render the new entry without a refetch.
		author, err := repoFactory.ProfileRepo().FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return domainerrors.ErrEntryCreationFailed.WrapMessage("author profile does not exist")
			}

			return errors.Wrap(err, "failed to find author profile")
		}
		newEntry.Author = author

		if err := repoFactory.EntryRepo().Create(ctx, newEntry); err != nil {
			return errors.WithStack(err)
		}

		return nil
	})
	if err != nil {
		srv.logger.Error("Failed to create entry", "error", err, "userID", input.UserID)

		return nil, err
	}

	srv.collector.RecordEntryCreated()
	srv.logger.Debug("Entry created", "entryID", newEntry.ID)

	return newEntry, nil
}

// cleanTags sanitizes, trims and deduplicates tags, dropping empties.
func (srv *entryService) cleanTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(srv.sanitizer.SanitizeText(tag))
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}
