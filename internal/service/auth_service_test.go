package service

import (
	"context"
	"testing"
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc         *AuthServiceImpl
	accountRepo *mocks.MockAccountRepository
	hashSvc     *mocks.MockHashService
	tokenSvc    *mocks.MockTokenService
	ctrl        *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		hashSvc:     mocks.NewMockHashService(ctrl),
		tokenSvc:    mocks.NewMockTokenService(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewAuthService(d.accountRepo, d.hashSvc, d.tokenSvc)
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.accountRepo.EXPECT().GetByUsername(ctx, "alice").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("s3cret").Return("argon2id$hash", nil)
	d.accountRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	account, err := d.svc.Register(ctx, ports.RegisterRequest{
		Username:    "alice",
		Password:    "s3cret",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "argon2id$hash", account.PasswordHash)
	assert.NotEqual(t, uuid.Nil, account.ID)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.accountRepo.EXPECT().GetByUsername(ctx, "alice").Return(&domain.Account{
		ID:       uuid.New(),
		Username: "alice",
	}, nil)

	account, err := d.svc.Register(ctx, ports.RegisterRequest{Username: "alice", Password: "x"})
	assert.Nil(t, account)
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	accountID := uuid.New()
	expiry := time.Now().Add(time.Hour)

	d.accountRepo.EXPECT().GetByUsername(ctx, "alice").Return(&domain.Account{
		ID:           accountID,
		Username:     "alice",
		PasswordHash: "argon2id$hash",
	}, nil)
	d.hashSvc.EXPECT().Verify("s3cret", "argon2id$hash").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(accountID).Return("jwt-token", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.accountRepo.EXPECT().GetByUsername(ctx, "ghost").Return(nil, nil)

	token, _, err := d.svc.Login(ctx, "ghost", "x")
	assert.Empty(t, token)
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.accountRepo.EXPECT().GetByUsername(ctx, "alice").Return(&domain.Account{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: "argon2id$hash",
	}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "argon2id$hash").Return(false, nil)

	token, _, err := d.svc.Login(ctx, "alice", "wrong")
	assert.Empty(t, token)
	assertAppError(t, err, "AUTH_001")
}
