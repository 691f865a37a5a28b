// Package auth implements the AuthGateway against the managed auth service's
// REST API. All credential handling happens at the service; this client only
// forwards requests and maps responses.
package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"nerves/config"
	"nerves/internal/domain/entity"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/service"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

type client struct {
	rest   *resty.Client
	logger *slog.Logger
}

// NewClient builds an AuthGateway from config. The service's public API key
// rides on every request; bearer tokens are per call.
func NewClient(cfg *config.AuthConfig, logger *slog.Logger) service.AuthGateway {
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &client{rest: rest, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        userPayload `json:"user"`
}

type errorResponse struct {
	Message     string `json:"msg"`
	Description string `json:"error_description"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Data     struct {
		Username string `json:"username,omitempty"`
	} `json:"data"`
}

// SignUp registers the credentials with the auth service. The returned
// identity carries no session: sign-up never signs the user in.
func (c *client) SignUp(ctx context.Context, email, password, username string) (*entity.Identity, error) {
	var user userPayload

	body := signUpRequest{Email: email, Password: password}
	body.Data.Username = username

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&user).
		Post("/auth/v1/signup")
	if err != nil {
		return nil, errors.Wrap(err, "signup request")
	}
	if resp.IsError() {
		return nil, domainerrors.ErrSignUpFailed.WrapMessage(serviceMessage(resp))
	}

	identity, err := toIdentity(user)
	if err != nil {
		return nil, errors.Wrap(err, "signup response")
	}

	return identity, nil
}

// SignInWithPassword exchanges credentials for a session token.
func (c *client) SignInWithPassword(ctx context.Context, email, password string) (*service.AuthSession, error) {
	var token tokenResponse

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(credentialsRequest{Email: email, Password: password}).
		SetResult(&token).
		Post("/auth/v1/token")
	if err != nil {
		return nil, errors.Wrap(err, "sign-in request")
	}
	if resp.IsError() {
		// The service's own message surfaces to the user verbatim.
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage(serviceMessage(resp))
	}

	identity, err := toIdentity(token.User)
	if err != nil {
		return nil, errors.Wrap(err, "sign-in response")
	}

	return &service.AuthSession{
		Identity:    identity,
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	}, nil
}

// CurrentIdentity asks the service who the token belongs to. A revoked or
// expired token comes back as an invalid session, not a transport error.
func (c *client) CurrentIdentity(ctx context.Context, accessToken string) (*entity.Identity, error) {
	var user userPayload

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+accessToken).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return nil, errors.Wrap(err, "current identity request")
	}
	if resp.IsError() {
		return nil, domainerrors.ErrSessionInvalid.WrapMessage(serviceMessage(resp))
	}

	identity, err := toIdentity(user)
	if err != nil {
		return nil, errors.Wrap(err, "current identity response")
	}

	return identity, nil
}

// SignOut invalidates the session behind the token.
func (c *client) SignOut(ctx context.Context, accessToken string) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+accessToken).
		Post("/auth/v1/logout")
	if err != nil {
		return errors.Wrap(err, "sign-out request")
	}
	if resp.IsError() {
		return domainerrors.ErrSignOutFailed.WrapMessage(serviceMessage(resp))
	}

	return nil
}

func toIdentity(user userPayload) (*entity.Identity, error) {
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse identity id")
	}

	identity := &entity.Identity{ID: id, Email: user.Email, Username: user.Metadata.Username}
	if user.Metadata.AvatarURL != "" {
		avatarURL := user.Metadata.AvatarURL
		identity.AvatarURL = &avatarURL
	}

	return identity, nil
}

// serviceMessage pulls the human-readable message out of an error body.
// Falls back to the HTTP status when the body is not the expected JSON.
func serviceMessage(resp *resty.Response) string {
	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Description != "" {
			return body.Description
		}
		if body.Message != "" {
			return body.Message
		}
	}

	return resp.Status()
}
