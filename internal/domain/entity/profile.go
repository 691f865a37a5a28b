package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FallbackUsername is used when neither a supplied username nor the identity's
// email can produce one.
const FallbackUsername = "New User"

// Profile is the application-level record describing a user. It shares its
// primary key with the Identity it belongs to and is provisioned lazily on the
// first successful login, never during sign-up.
type Profile struct {
	ID        uuid.UUID // Primary key, equal to the owning Identity's ID.
	Username  string    // Display name; defaults from the email's local part when unset.
	AvatarURL *string   // Optional avatar URL. Nil until the user sets one.
	CreatedAt time.Time // Timestamp of when the profile was provisioned.
}

// NewProfile builds the profile row to provision for an identity on first
// login. Username preference: the supplied username, then the local part of
// the identity's email, then FallbackUsername.
func NewProfile(identity *Identity, username string) *Profile {
	name := strings.TrimSpace(username)
	if name == "" {
		name = identity.EmailLocalPart()
	}
	if name == "" {
		name = FallbackUsername
	}

	return &Profile{
		ID:        identity.ID,
		Username:  name,
		AvatarURL: nil,
		CreatedAt: time.Now(),
	}
}
