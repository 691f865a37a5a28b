// Package service defines contracts for capabilities provided by
// infrastructure, consumed by the use case layer.
package service

import (
	"context"

	"nerves/internal/domain/entity"
)

// AuthSession is the result of a successful password sign-in at the external
// auth service.
type AuthSession struct {
	Identity    *entity.Identity // The authenticated principal.
	AccessToken string           // Bearer token for subsequent requests.
	ExpiresIn   int64            // Token lifetime in seconds, as reported by the service.
}

// AuthGateway is the contract of the external managed auth service. The
// application consumes it; it never implements authentication itself.
// Passwords are forwarded to the service and never stored or hashed locally.
type AuthGateway interface {
	// SignUp submits credentials for registration. The username rides along
	// as service metadata and is read back during provisioning. Success does
	// NOT establish a session: email confirmation may still be pending, so
	// no profile is provisioned and no identity is returned as signed in.
	SignUp(ctx context.Context, email, password, username string) (*entity.Identity, error)

	// SignInWithPassword exchanges credentials for an authenticated session.
	// Failures carry the service's own message.
	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)

	// SignOut asks the service to invalidate the session behind the token.
	SignOut(ctx context.Context, accessToken string) error

	// CurrentIdentity resolves the identity behind an access token. Unlike a
	// local token parse this sees revocation: a signed-out token fails here.
	CurrentIdentity(ctx context.Context, accessToken string) (*entity.Identity, error)
}
