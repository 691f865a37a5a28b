package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultContentType is assigned to entries created without an explicit type.
const DefaultContentType = "text"

// Entry is a single intelligence entry: a user-authored piece of content with
// a title, free text, and at least one tag. Entries are immutable once
// created; editing and deletion are not part of this service.
type Entry struct {
	ID          uuid.UUID // Unique identifier for the entry.
	UserID      uuid.UUID // The Identity that authored the entry.
	Title       string    // Required short title.
	Description string    // Optional free-form context for the entry.
	ContentText string    // Required body text.
	ContentType string    // Content kind, currently always "text".
	Tags        []string  // One or more tag strings; required at creation.
	IsPublic    bool      // Whether the entry appears in the public feed.
	CreatedAt   time.Time // Timestamp of creation.
	Author      *Profile  // Denormalized author profile (username, avatar).
}

// ParseTags splits a comma-separated tag field into individual tags, trimming
// whitespace and dropping empty segments. The input "a, b,,c" yields
// ["a" "b" "c"].
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// AuthorUsername returns the denormalized author's username, or an empty
// string when the author profile is not attached.
func (e *Entry) AuthorUsername() string {
	if e.Author == nil {
		return ""
	}

	return e.Author.Username
}
