// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Identity is the authenticated principal as reported by the external auth
// service. The application never creates or mutates identities; it holds a
// read-only copy for the duration of a session.
type Identity struct {
	ID        uuid.UUID // The auth service's unique identifier for the principal.
	Email     string    // The email address the principal authenticated with.
	Username  string    // Optional display name from the auth service's user metadata.
	AvatarURL *string   // Optional avatar URL from the auth service's user metadata.
}

// EmailLocalPart returns the part of the identity's email before the '@',
// or an empty string when the email is empty or malformed.
func (i *Identity) EmailLocalPart() string {
	local, _, found := strings.Cut(i.Email, "@")
	if !found {
		return ""
	}

	return local
}
