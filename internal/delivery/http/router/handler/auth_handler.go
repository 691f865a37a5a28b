// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"nerves/internal/delivery/http/middleware"
	"nerves/internal/delivery/http/response"
	"nerves/internal/domain/entity"
	"nerves/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for account-related handlers.
type AuthHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type profileResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type sessionResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresIn   int64            `json:"expires_in"`
	User        identityResponse `json:"user"`
	Profile     profileResponse  `json:"profile"`
}

func toProfileResponse(profile *entity.Profile) profileResponse {
	return profileResponse{
		ID:        profile.ID.String(),
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
	}
}

// SignUp handles the account registration request. Registration never
// establishes a session; the client stays signed out until confirmation.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var input signUpRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-up input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.SignUp(c.Request().Context(), &usecase.SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		Username: input.Username,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, identityResponse{
		ID:    output.Identity.ID.String(),
		Email: output.Identity.Email,
	}, "Account registered, check your email to confirm")
}

// Login handles the sign-in request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input signInRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.SignIn(c.Request().Context(), &usecase.SignInInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessionResponse{
		AccessToken: output.AccessToken,
		ExpiresIn:   output.ExpiresIn,
		User: identityResponse{
			ID:    output.Identity.ID.String(),
			Email: output.Identity.Email,
		},
		Profile: toProfileResponse(output.Profile),
	}, "Login successful")
}

// Logout revokes the session behind the caller's bearer token.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, ok := c.Get(middleware.ContextKeyAccessToken).(string)
	if !ok || token == "" {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing access token")
	}

	if err := h.uc.SignOut(c.Request().Context(), token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// Session returns the profile for the caller's token. Clients restoring a
// stored session call this once at startup; the token is re-checked with the
// auth service so revoked sessions do not restore.
func (h *AuthHandler) Session(c echo.Context) error {
	token, ok := c.Get(middleware.ContextKeyAccessToken).(string)
	if !ok || token == "" {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing access token")
	}

	profile, err := h.uc.Restore(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile), "Session valid")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
