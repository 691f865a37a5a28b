package impl

import (
	"context"
	"testing"

	"nerves/internal/domain/entity"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/repository"
	"nerves/internal/metrics"
	"nerves/internal/mocks"
	"nerves/internal/security"
	"nerves/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEntryFixture() (*mocks.TransactionManager, usecase.EntryUsecase) {
	txManager := mocks.NewTransactionManager()
	svc := NewEntryService(txManager, security.NewContentSanitizer(), metrics.NopCollector{}, testLogger())

	return txManager, svc
}

func validEntryInput(userID uuid.UUID) *usecase.CreateEntryInput {
	return &usecase.CreateEntryInput{
		UserID:   userID,
		Title:    "Signal in the static",
		Content:  "Decoded the numbers station burst.",
		Tags:     []string{"sigint"},
		IsPublic: true,
	}
}

func TestListPublic(t *testing.T) {
	txManager, svc := newEntryFixture()
	feed := []*entity.Entry{
		{ID: uuid.New(), Title: "newest"},
		{ID: uuid.New(), Title: "older"},
	}
	txManager.Factory.Entries.On("ListPublic", mock.Anything).Return(feed, nil)

	got, err := svc.ListPublic(context.Background())

	require.NoError(t, err)
	assert.Equal(t, feed, got)
}

func TestListPublic_RepositoryError(t *testing.T) {
	txManager, svc := newEntryFixture()
	txManager.Factory.Entries.On("ListPublic", mock.Anything).
		Return(nil, errors.New("connection reset"))

	got, err := svc.ListPublic(context.Background())

	assert.Nil(t, got)
	assert.Error(t, err)
}

func TestCreate_Validation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*usecase.CreateEntryInput)
	}{
		{
			name:   "missing title",
			mutate: func(in *usecase.CreateEntryInput) { in.Title = "   " },
		},
		{
			name:   "missing content",
			mutate: func(in *usecase.CreateEntryInput) { in.Content = "" },
		},
		{
			name:   "no tags",
			mutate: func(in *usecase.CreateEntryInput) { in.Tags = nil },
		},
		{
			name:   "tags all blank",
			mutate: func(in *usecase.CreateEntryInput) { in.Tags = []string{"  ", ""} },
		},
		{
			name:   "title is markup only",
			mutate: func(in *usecase.CreateEntryInput) { in.Title = "<script>x()</script>" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txManager, svc := newEntryFixture()
			input := validEntryInput(userID)
			tt.mutate(input)

			got, err := svc.Create(context.Background(), input)

			assert.Nil(t, got)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			txManager.Factory.Entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_SanitizesAndPersists(t *testing.T) {
	txManager, svc := newEntryFixture()
	userID := uuid.New()
	author := &entity.Profile{ID: userID, Username: "kael"}

	txManager.Factory.Profiles.On("FindByID", mock.Anything, userID).Return(author, nil)
	txManager.Factory.Entries.On("Create", mock.Anything, mock.Anything).Return(nil)

	input := validEntryInput(userID)
	input.Title = "Signal <b>in</b> the static"
	input.Tags = []string{" sigint ", "radio", "SIGINT", ""}

	got, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "Signal in the static", got.Title, "markup stripped from title")
	assert.Equal(t, []string{"sigint", "radio"}, got.Tags, "tags trimmed and deduplicated")
	assert.Equal(t, entity.DefaultContentType, got.ContentType)
	assert.Equal(t, author, got.Author)
}

func TestCreate_AuthorProfileMissing(t *testing.T) {
	txManager, svc := newEntryFixture()
	userID := uuid.New()

	txManager.Factory.Profiles.On("FindByID", mock.Anything, userID).
		Return(nil, repository.ErrProfileNotFound)

	got, err := svc.Create(context.Background(), validEntryInput(userID))

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrEntryCreationFailed)
	txManager.Factory.Entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
