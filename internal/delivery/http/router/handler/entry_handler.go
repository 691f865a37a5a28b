package handler

import (
	"log/slog"
	"net/http"
	"time"

	"nerves/internal/delivery/http/middleware"
	"nerves/internal/delivery/http/response"
	"nerves/internal/domain/entity"
	"nerves/internal/search"
	"nerves/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// EntryHandler holds dependencies for entry-related handlers.
type EntryHandler struct {
	uc     usecase.EntryUsecase
	logger *slog.Logger
}

// NewEntryHandler is the constructor for EntryHandler, injected by Fx.
func NewEntryHandler(uc usecase.EntryUsecase, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{uc: uc, logger: logger}
}

type createEntryRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content" validate:"required"`
	Tags        []string `json:"tags" validate:"required,min=1"`
	IsPublic    *bool    `json:"is_public"`
}

type entryResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Content     string           `json:"content"`
	ContentType string           `json:"content_type"`
	Tags        []string         `json:"tags"`
	IsPublic    bool             `json:"is_public"`
	CreatedAt   time.Time        `json:"created_at"`
	Author      *profileResponse `json:"author,omitempty"`
}

func toEntryResponse(entry *entity.Entry) entryResponse {
	resp := entryResponse{
		ID:          entry.ID.String(),
		Title:       entry.Title,
		Description: entry.Description,
		Content:     entry.ContentText,
		ContentType: entry.ContentType,
		Tags:        entry.Tags,
		IsPublic:    entry.IsPublic,
		CreatedAt:   entry.CreatedAt,
	}
	if entry.Author != nil {
		author := toProfileResponse(entry.Author)
		resp.Author = &author
	}

	return resp
}

// List returns the public feed, newest first. Interactive filtering happens
// client-side; the optional q parameter applies the same matcher server-side
// for clients that want a pre-filtered feed.
func (h *EntryHandler) List(c echo.Context) error {
	entries, err := h.uc.ListPublic(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	if q := c.QueryParam("q"); q != "" {
		entries = search.NewFilter(q).Apply(entries)
	}

	out := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryResponse(entry))
	}

	return response.Success(c, http.StatusOK, out, "Entries retrieved")
}

// Create publishes a new entry for the authenticated caller.
func (h *EntryHandler) Create(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input createEntryRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid entry input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	entry, err := h.uc.Create(c.Request().Context(), &usecase.CreateEntryInput{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Tags:        input.Tags,
		IsPublic:    isPublic,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toEntryResponse(entry), "Entry created")
}
