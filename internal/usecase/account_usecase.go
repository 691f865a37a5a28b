// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"nerves/internal/domain/entity"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new account.
type SignUpInput struct {
	Email    string
	Password string
	Username string
}

// SignInInput defines the data required to sign in.
type SignInInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SignUpOutput returns the registered identity. There is no session and no
// profile: confirmation may still be pending at the auth service.
type SignUpOutput struct {
	Identity *entity.Identity
}

// SignInOutput returns the established session and the (possibly freshly
// provisioned) profile.
type SignInOutput struct {
	Identity    *entity.Identity
	Profile     *entity.Profile
	AccessToken string
	ExpiresIn   int64
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// SignUp registers credentials with the auth service. It never creates
	// a profile; that happens lazily on first sign-in.
	SignUp(ctx context.Context, input *SignUpInput) (*SignUpOutput, error)

	// SignIn authenticates and guarantees a profile exists for the
	// identity, creating one on first sign-in.
	SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error)

	// SignOut invalidates the session behind the access token.
	SignOut(ctx context.Context, accessToken string) error

	// Restore resolves a stored access token back into its profile. Clients
	// restoring a session at startup call this once; a revoked token fails
	// here even when it still parses locally.
	Restore(ctx context.Context, accessToken string) (*entity.Profile, error)
}
