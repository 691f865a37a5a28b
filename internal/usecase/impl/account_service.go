// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"

	"nerves/internal/domain/entity"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/repository"
	"nerves/internal/domain/service"
	"nerves/internal/metrics"
	"nerves/internal/security"
	"nerves/internal/usecase"

	"github.com/pkg/errors"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	gateway   service.AuthGateway
	txManager repository.TransactionManager
	sanitizer security.ContentSanitizer
	collector metrics.Collector
	logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(
	gateway service.AuthGateway,
	txManager repository.TransactionManager,
	sanitizer security.ContentSanitizer,
	collector metrics.Collector,
	logger *slog.Logger,
) usecase.AccountUsecase {
	return &accountService{
		gateway:   gateway,
		txManager: txManager,
		sanitizer: sanitizer,
		collector: collector,
		logger:    logger,
	}
}

// SignUp registers the credentials with the auth service. No profile is
// created here: the identity may never confirm, and provisioning belongs to
// the first successful sign-in.
func (srv *accountService) SignUp(ctx context.Context, input *usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	srv.logger.Info("Starting account sign-up", "email", input.Email)

	// The username travels as auth service metadata; it is only read back
	// during provisioning on the first sign-in.
	username := srv.sanitizer.SanitizeText(input.Username)

	identity, err := srv.gateway.SignUp(ctx, input.Email, input.Password, username)
	if err != nil {
		srv.logger.Error("Sign-up rejected by auth service", "error", err, "email", input.Email)

		return nil, err
	}
	if identity.Username == "" {
		identity.Username = username
	}

	srv.logger.Debug("Account registered", "identityID", identity.ID)

	return &usecase.SignUpOutput{Identity: identity}, nil
}

// SignIn authenticates against the auth service and guarantees a profile
// exists for the identity. When the profile cannot be guaranteed, the fresh
// session is revoked so the client never ends up signed in without one.
func (srv *accountService) SignIn(ctx context.Context, input *usecase.SignInInput) (*usecase.SignInOutput, error) {
	srv.logger.Debug("Starting sign-in", "email", input.Email)

	authSession, err := srv.gateway.SignInWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		srv.collector.RecordSignIn(metrics.OutcomeFailure)
		srv.logger.Info("Sign-in rejected by auth service", "email", input.Email)

		return nil, err
	}

	profile, err := srv.provisionProfile(ctx, authSession.Identity)
	if err != nil {
		srv.collector.RecordSignIn(metrics.OutcomeFailure)
		// Roll the session back: a signed-in identity without a profile is
		// a broken half-state for every downstream feature.
		if outErr := srv.gateway.SignOut(ctx, authSession.AccessToken); outErr != nil {
			srv.logger.Error("Failed to revoke session after provisioning failure",
				"error", outErr, "identityID", authSession.Identity.ID)
		}

		return nil, err
	}

	srv.collector.RecordSignIn(metrics.OutcomeSuccess)
	srv.logger.Debug("Sign-in complete", "identityID", authSession.Identity.ID)

	return &usecase.SignInOutput{
		Identity:    authSession.Identity,
		Profile:     profile,
		AccessToken: authSession.AccessToken,
		ExpiresIn:   authSession.ExpiresIn,
	}, nil
}

// provisionProfile returns the identity's profile, creating it on first
// sign-in. A concurrent creation of the same profile is treated as success.
func (srv *accountService) provisionProfile(ctx context.Context, identity *entity.Identity) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		found, err := profileRepo.FindByID(ctx, identity.ID)
		if err == nil {
			profile = found

			return nil
		}
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return errors.Wrap(err, "failed to look up profile")
		}

		// First sign-in for this identity.
		newProfile := entity.NewProfile(identity, srv.sanitizer.SanitizeText(identity.Username))
		if err := profileRepo.Create(ctx, newProfile); err != nil {
			return errors.WithStack(err)
		}
		srv.collector.RecordProfileProvisioned()
		srv.logger.Info("Provisioned profile on first sign-in",
			"identityID", identity.ID, "username", newProfile.Username)
		profile = newProfile

		return nil
	})
	if err == nil {
		return profile, nil
	}

	// Two clients racing through their first sign-in both pass the lookup;
	// the loser's insert hits the primary key. The profile exists, which is
	// all this step has to guarantee.
	if errors.Is(err, domainerrors.ErrProfileAlreadyExists) {
		srv.logger.Debug("Profile already provisioned concurrently", "identityID", identity.ID)

		return srv.fetchProfile(ctx, identity)
	}

	srv.logger.Error("Failed to provision profile", "error", err, "identityID", identity.ID)

	return nil, domainerrors.ErrProfileProvisionFailed
}

func (srv *accountService) fetchProfile(ctx context.Context, identity *entity.Identity) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProfileRepo().FindByID(ctx, identity.ID)
		if err != nil {
			return errors.Wrap(err, "failed to fetch provisioned profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		srv.logger.Error("Provisioned profile vanished", "error", err, "identityID", identity.ID)

		return nil, domainerrors.ErrLoginFailed
	}

	return profile, nil
}

// Restore resolves a stored access token into its profile. The token is
// checked with the auth service first, so revoked sessions do not restore.
func (srv *accountService) Restore(ctx context.Context, accessToken string) (*entity.Profile, error) {
	identity, err := srv.gateway.CurrentIdentity(ctx, accessToken)
	if err != nil {
		srv.logger.Info("Session restore rejected by auth service")

		return nil, err
	}

	var profile *entity.Profile

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProfileRepo().FindByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return domainerrors.ErrProfileNotFound
			}

			return errors.Wrap(err, "failed to find profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// SignOut revokes the session at the auth service.
func (srv *accountService) SignOut(ctx context.Context, accessToken string) error {
	if err := srv.gateway.SignOut(ctx, accessToken); err != nil {
		srv.logger.Error("Failed to sign out", "error", err)

		return err
	}

	return nil
}
