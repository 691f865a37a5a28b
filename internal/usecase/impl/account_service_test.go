package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"nerves/internal/domain/entity"
	domainerrors "nerves/internal/domain/errors"
	"nerves/internal/domain/repository"
	"nerves/internal/domain/service"
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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAccountFixture() (*mocks.AuthGateway, *mocks.TransactionManager, usecase.AccountUsecase) {
	gateway := &mocks.AuthGateway{}
	txManager := mocks.NewTransactionManager()
	svc := NewAccountService(gateway, txManager, security.NewContentSanitizer(), metrics.NopCollector{}, testLogger())

	return gateway, txManager, svc
}

func authSessionFor(identity *entity.Identity) *service.AuthSession {
	return &service.AuthSession{Identity: identity, AccessToken: "token-xyz", ExpiresIn: 3600}
}

func TestSignUp_RegistersWithoutProvisioning(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	identity := &entity.Identity{ID: uuid.New(), Email: "kael@void.example"}
	gateway.On("SignUp", mock.Anything, "kael@void.example", "hunter22", "kael").Return(identity, nil)

	out, err := svc.SignUp(context.Background(), &usecase.SignUpInput{
		Email:    "kael@void.example",
		Password: "hunter22",
		Username: "kael",
	})

	require.NoError(t, err)
	assert.Equal(t, identity.ID, out.Identity.ID)
	assert.Equal(t, "kael", out.Identity.Username)
	// Sign-up must never touch profile storage.
	txManager.Factory.Profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	txManager.Factory.Profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_ServiceRejection(t *testing.T) {
	gateway, _, svc := newAccountFixture()
	gateway.On("SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrSignUpFailed)

	out, err := svc.SignUp(context.Background(), &usecase.SignUpInput{
		Email:    "kael@void.example",
		Password: "short",
	})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrSignUpFailed)
}

func TestSignIn_ExistingProfile(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	identity := &entity.Identity{ID: uuid.New(), Email: "kael@void.example"}
	existing := &entity.Profile{ID: identity.ID, Username: "kael"}

	gateway.On("SignInWithPassword", mock.Anything, "kael@void.example", "hunter22").
		Return(authSessionFor(identity), nil)
	txManager.Factory.Profiles.On("FindByID", mock.Anything, identity.ID).Return(existing, nil)

	out, err := svc.SignIn(context.Background(), &usecase.SignInInput{
		Email:    "kael@void.example",
		Password: "hunter22",
	})

	require.NoError(t, err)
	assert.Equal(t, existing, out.Profile)
	assert.Equal(t, "token-xyz", out.AccessToken)
	txManager.Factory.Profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignIn_FirstSignInProvisionsProfile(t *testing.T) {
	tests := []struct {
		name         string
		identity     entity.Identity
		wantUsername string
	}{
		{
			name:         "metadata username wins",
			identity:     entity.Identity{Email: "kael@void.example", Username: "kael"},
			wantUsername: "kael",
		},
		{
			name:         "falls back to email local part",
			identity:     entity.Identity{Email: "mira@void.example"},
			wantUsername: "mira",
		},
		{
			name:         "falls back to default when nothing usable",
			identity:     entity.Identity{Email: "not-an-email"},
			wantUsername: entity.FallbackUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, txManager, svc := newAccountFixture()
			identity := tt.identity
			identity.ID = uuid.New()

			gateway.On("SignInWithPassword", mock.Anything, mock.Anything, mock.Anything).
				Return(authSessionFor(&identity), nil)
			txManager.Factory.Profiles.On("FindByID", mock.Anything, identity.ID).
				Return(nil, repository.ErrProfileNotFound)
			txManager.Factory.Profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Profile) bool {
				return p.ID == identity.ID && p.Username == tt.wantUsername
			})).Return(nil)

			out, err := svc.SignIn(context.Background(), &usecase.SignInInput{
				Email:    identity.Email,
				Password: "hunter22",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantUsername, out.Profile.Username)
		})
	}
}

func TestSignIn_ProvisionFailureForcesSignOut(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	identity := &entity.Identity{ID: uuid.New(), Email: "kael@void.example"}

	gateway.On("SignInWithPassword", mock.Anything, mock.Anything, mock.Anything).
		Return(authSessionFor(identity), nil)
	txManager.Factory.Profiles.On("FindByID", mock.Anything, identity.ID).
		Return(nil, repository.ErrProfileNotFound)
	txManager.Factory.Profiles.On("Create", mock.Anything, mock.Anything).
		Return(domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "insert failed"))
	gateway.On("SignOut", mock.Anything, "token-xyz").Return(nil)

	out, err := svc.SignIn(context.Background(), &usecase.SignInInput{
		Email:    "kael@void.example",
		Password: "hunter22",
	})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrProfileProvisionFailed)
	// The half-established session must be revoked.
	gateway.AssertCalled(t, "SignOut", mock.Anything, "token-xyz")
}

func TestSignIn_ConcurrentProvisionIsBenign(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	identity := &entity.Identity{ID: uuid.New(), Email: "kael@void.example", Username: "kael"}
	winner := &entity.Profile{ID: identity.ID, Username: "kael"}

	gateway.On("SignInWithPassword", mock.Anything, mock.Anything, mock.Anything).
		Return(authSessionFor(identity), nil)
	// First lookup misses, the insert loses the race, the second lookup hits.
	txManager.Factory.Profiles.On("FindByID", mock.Anything, identity.ID).
		Return(nil, repository.ErrProfileNotFound).Once()
	txManager.Factory.Profiles.On("Create", mock.Anything, mock.Anything).
		Return(domainerrors.ErrProfileAlreadyExists)
	txManager.Factory.Profiles.On("FindByID", mock.Anything, identity.ID).
		Return(winner, nil)

	out, err := svc.SignIn(context.Background(), &usecase.SignInInput{
		Email:    "kael@void.example",
		Password: "hunter22",
	})

	require.NoError(t, err, "losing the provisioning race is a successful login")
	assert.Equal(t, winner, out.Profile)
	gateway.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	gateway.On("SignInWithPassword", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrInvalidCredentials)

	out, err := svc.SignIn(context.Background(), &usecase.SignInInput{
		Email:    "kael@void.example",
		Password: "wrong",
	})

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	txManager.Factory.Profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRestore_ReturnsProfileForLiveToken(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	identity := &entity.Identity{ID: uuid.New(), Email: "kael@void.example"}
	profile := &entity.Profile{ID: identity.ID, Username: "kael"}

	gateway.On("CurrentIdentity", mock.Anything, "token-xyz").Return(identity, nil)
	txManager.Factory.Profiles.On("FindByID", mock.Anything, identity.ID).Return(profile, nil)

	got, err := svc.Restore(context.Background(), "token-xyz")

	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestRestore_RevokedToken(t *testing.T) {
	gateway, txManager, svc := newAccountFixture()
	gateway.On("CurrentIdentity", mock.Anything, "stale-token").
		Return(nil, domainerrors.ErrSessionInvalid)

	got, err := svc.Restore(context.Background(), "stale-token")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrSessionInvalid)
	txManager.Factory.Profiles.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestSignOut_Passthrough(t *testing.T) {
	gateway, _, svc := newAccountFixture()
	gateway.On("SignOut", mock.Anything, "token-xyz").Return(nil)

	assert.NoError(t, svc.SignOut(context.Background(), "token-xyz"))
}

func TestSignOut_ServiceError(t *testing.T) {
	gateway, _, svc := newAccountFixture()
	gateway.On("SignOut", mock.Anything, mock.Anything).Return(domainerrors.ErrSignOutFailed)

	assert.ErrorIs(t, svc.SignOut(context.Background(), "token-xyz"), domainerrors.ErrSignOutFailed)
}
