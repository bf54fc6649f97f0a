package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"tokengate/internal/domain/entity"
	domainerrors "tokengate/internal/domain/errors"
	"tokengate/internal/domain/repository"
	"tokengate/internal/domain/service"
	mockRepo "tokengate/internal/mocks/repository"
	"tokengate/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	user := testUser()

	fx.userRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("s3cret", "stored-hash").Return(true)
	fx.tokenService.EXPECT().
		Mint(user.Principal(), entity.TokenKindAccess).
		Return(issued(entity.TokenKindAccess, "access-token", 15*time.Minute), nil)
	fx.tokenService.EXPECT().
		Mint(user.Principal(), entity.TokenKindRefresh).
		Return(issued(entity.TokenKindRefresh, "refresh-token", 30*24*time.Hour), nil)

	pair, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret"})

	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.Access.Value)
	assert.Equal(t, "refresh-token", pair.Refresh.Value)
	assert.Equal(t, entity.TokenKindAccess, pair.Access.Kind)
	assert.Equal(t, entity.TokenKindRefresh, pair.Refresh.Kind)
}

func TestAuthService_Login_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	unknown := createTestAuthService(t)
	unknown.userRepo.EXPECT().FindByUsername(mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound)
	// The dummy comparison still runs for unknown users.
	unknown.hasher.EXPECT().Hash(dummyPassword).Return("dummy-hash", nil).Once()
	unknown.hasher.EXPECT().Check("s3cret", "dummy-hash").Return(false)

	_, unknownErr := unknown.service.Login(context.Background(), &usecase.LoginInput{Username: "ghost", Password: "s3cret"})

	wrong := createTestAuthService(t)
	wrong.userRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(testUser(), nil)
	wrong.hasher.EXPECT().Check("s3cret", "stored-hash").Return(false)

	_, wrongErr := wrong.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "s3cret"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuthService_Login_DummyHashComputedOnce(t *testing.T) {
	fx := createTestAuthService(t)
	fx.userRepo.EXPECT().FindByUsername(mock.Anything, "ghost").Return(nil, repository.ErrUserNotFound).Times(2)
	fx.hasher.EXPECT().Hash(dummyPassword).Return("dummy-hash", nil).Once()
	fx.hasher.EXPECT().Check("pw", "dummy-hash").Return(false).Times(2)

	for range 2 {
		_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "ghost", Password: "pw"})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	fx := createTestAuthService(t)
	storeErr := errors.New("connection refused")
	fx.userRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(nil, storeErr)

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "pw"})

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_MintFailure(t *testing.T) {
	fx := createTestAuthService(t)
	user := testUser()
	fx.userRepo.EXPECT().FindByUsername(mock.Anything, "alice").Return(user, nil)
	fx.hasher.EXPECT().Check("pw", "stored-hash").Return(true)
	fx.tokenService.EXPECT().
		Mint(user.Principal(), entity.TokenKindAccess).
		Return(entity.IssuedToken{}, errors.New("sign failed"))

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Username: "alice", Password: "pw"})

	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}

func registerInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Username:  "bob",
		Password:  "hunter22",
		Email:     "bob@example.com",
		FirstName: "Bob",
		LastName:  "Builder",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	input := registerInput()
	txUserRepo := mockRepo.NewMockUserRepository(t)

	fx.hasher.EXPECT().Hash("hunter22").Return("hashed", nil)
	fx.txManager.EXPECT().Execute(mock.Anything, mock.Anything).RunAndReturn(runInTx(t, txUserRepo))
	txUserRepo.EXPECT().ExistsByUsernameOrEmail(mock.Anything, "bob", "bob@example.com").Return(false, nil)
	txUserRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*entity.User")).
		Run(func(_ context.Context, user *entity.User) {
			assert.Equal(t, "bob", user.Username)
			assert.Equal(t, "bob@example.com", user.Email)
			assert.Equal(t, "hashed", user.PasswordHash)
			assert.Equal(t, "Bob", user.FirstName)
			assert.Equal(t, "Builder", user.LastName)
			user.ID = 1
		}).
		Return(nil)

	err := fx.service.Register(context.Background(), input)

	require.NoError(t, err)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	fx := createTestAuthService(t)
	txUserRepo := mockRepo.NewMockUserRepository(t)

	fx.hasher.EXPECT().Hash("hunter22").Return("hashed", nil)
	fx.txManager.EXPECT().Execute(mock.Anything, mock.Anything).RunAndReturn(runInTx(t, txUserRepo))
	txUserRepo.EXPECT().ExistsByUsernameOrEmail(mock.Anything, "bob", "bob@example.com").Return(true, nil)

	err := fx.service.Register(context.Background(), registerInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Register_ConcurrentInsertConflict(t *testing.T) {
	fx := createTestAuthService(t)
	txUserRepo := mockRepo.NewMockUserRepository(t)

	fx.hasher.EXPECT().Hash("hunter22").Return("hashed", nil)
	fx.txManager.EXPECT().Execute(mock.Anything, mock.Anything).RunAndReturn(runInTx(t, txUserRepo))
	txUserRepo.EXPECT().ExistsByUsernameOrEmail(mock.Anything, "bob", "bob@example.com").Return(false, nil)
	txUserRepo.EXPECT().
		Create(mock.Anything, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUserAlreadyExists.WrapMessage("unique violation"))

	err := fx.service.Register(context.Background(), registerInput())

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	fx := createTestAuthService(t)
	fx.hasher.EXPECT().Hash("hunter22").Return("", errors.New("entropy exhausted"))

	err := fx.service.Register(context.Background(), registerInput())

	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAuthService_Register_PasswordTooLong(t *testing.T) {
	fx := createTestAuthService(t)
	input := registerInput()
	input.Password = strings.Repeat("é", 40)

	fx.hasher.EXPECT().Hash(input.Password).Return("", errors.WithStack(service.ErrPasswordTooLong))

	err := fx.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.NotErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	fx.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAuthService_Register_TransactionFailure(t *testing.T) {
	fx := createTestAuthService(t)
	txErr := errors.New("commit failed")

	fx.hasher.EXPECT().Hash("hunter22").Return("hashed", nil)
	fx.txManager.EXPECT().Execute(mock.Anything, mock.Anything).Return(txErr)

	err := fx.service.Register(context.Background(), registerInput())

	assert.ErrorIs(t, err, txErr)
	assert.NotErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestAuthService_Register_StoreCallsAreBounded(t *testing.T) {
	fx := createTestAuthService(t)
	fx.hasher.EXPECT().Hash("hunter22").Return("hashed", nil)
	fx.txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ func(repository.RepositoryFactory) error) error {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

			return nil
		})

	require.NoError(t, fx.service.Register(context.Background(), registerInput()))
}

func TestAuthService_Refresh_Success(t *testing.T) {
	fx := createTestAuthService(t)
	user := testUser()
	user.Username = "alice-renamed"

	// Expiry is not enforced on refresh tokens.
	fx.tokenService.EXPECT().
		Validate("old-refresh", false).
		Return(service.ValidToken(entity.Principal{ID: 42, Username: "alice"}))
	fx.userRepo.EXPECT().FindByID(mock.Anything, int64(42)).Return(user, nil)
	fx.tokenService.EXPECT().
		Mint(entity.Principal{ID: 42, Username: "alice-renamed"}, entity.TokenKindAccess).
		Return(issued(entity.TokenKindAccess, "new-access", 15*time.Minute), nil)
	fx.tokenService.EXPECT().
		Mint(entity.Principal{ID: 42, Username: "alice-renamed"}, entity.TokenKindRefresh).
		Return(issued(entity.TokenKindRefresh, "new-refresh", 30*24*time.Hour), nil)

	pair, err := fx.service.Refresh(context.Background(), "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.Access.Value)
	assert.Equal(t, "new-refresh", pair.Refresh.Value)
}

func TestAuthService_Refresh_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		setup   func(fx authServiceFixtures)
		wantErr error
	}{
		{
			name:    "missing token",
			token:   "",
			setup:   func(authServiceFixtures) {},
			wantErr: domainerrors.ErrNotAuthenticated,
		},
		{
			name:  "invalid token",
			token: "garbage",
			setup: func(fx authServiceFixtures) {
				fx.tokenService.EXPECT().
					Validate("garbage", false).
					Return(service.InvalidToken(errors.New("signature is invalid")))
			},
			wantErr: domainerrors.ErrInvalidCredentials,
		},
		{
			name:  "deleted user",
			token: "orphan",
			setup: func(fx authServiceFixtures) {
				fx.tokenService.EXPECT().
					Validate("orphan", false).
					Return(service.ValidToken(entity.Principal{ID: 9, Username: "gone"}))
				fx.userRepo.EXPECT().FindByID(mock.Anything, int64(9)).Return(nil, repository.ErrUserNotFound)
			},
			wantErr: domainerrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			tt.setup(fx)

			pair, err := fx.service.Refresh(context.Background(), tt.token)

			assert.Nil(t, pair)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_WhoAmI_Success(t *testing.T) {
	fx := createTestAuthService(t)
	user := testUser()
	user.ProfilePicture = "https://cdn.example.com/alice.png"

	fx.tokenService.EXPECT().
		Validate("access", true).
		Return(service.ValidToken(user.Principal()))
	fx.userRepo.EXPECT().FindByID(mock.Anything, int64(42)).Return(user, nil)

	profile, err := fx.service.WhoAmI(context.Background(), "access")

	require.NoError(t, err)
	assert.Equal(t, entity.UserProfile{
		Username:       "alice",
		Email:          "alice@example.com",
		FirstName:      "Alice",
		LastName:       "Liddell",
		ProfilePicture: "https://cdn.example.com/alice.png",
	}, *profile)
}

func TestAuthService_WhoAmI_Rejections(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		fx := createTestAuthService(t)

		_, err := fx.service.WhoAmI(context.Background(), "")

		assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.tokenService.EXPECT().
			Validate("expired", true).
			Return(service.InvalidToken(errors.New("token is expired")))

		_, err := fx.service.WhoAmI(context.Background(), "expired")

		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("deleted user", func(t *testing.T) {
		fx := createTestAuthService(t)
		fx.tokenService.EXPECT().
			Validate("access", true).
			Return(service.ValidToken(entity.Principal{ID: 42, Username: "alice"}))
		fx.userRepo.EXPECT().FindByID(mock.Anything, int64(42)).Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.WhoAmI(context.Background(), "access")

		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		fx := createTestAuthService(t)
		storeErr := errors.New("timeout")
		fx.tokenService.EXPECT().
			Validate("access", true).
			Return(service.ValidToken(entity.Principal{ID: 42, Username: "alice"}))
		fx.userRepo.EXPECT().FindByID(mock.Anything, int64(42)).Return(nil, storeErr)

		_, err := fx.service.WhoAmI(context.Background(), "access")

		assert.ErrorIs(t, err, storeErr)
	})
}

func TestAuthService_Logout(t *testing.T) {
	fx := createTestAuthService(t)

	assert.NoError(t, fx.service.Logout(context.Background()))
}
