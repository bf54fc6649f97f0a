// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tokengate/config"
	deliverycontext "tokengate/internal/delivery/context"
	"tokengate/internal/domain/entity"
	domainerrors "tokengate/internal/domain/errors"
	"tokengate/internal/domain/repository"
	"tokengate/internal/domain/service"
	"tokengate/internal/errors"
	"tokengate/internal/usecase"

	"go.uber.org/fx"
)

const defaultStoreTimeout = 5 * time.Second

// dummyPassword is hashed once and compared against when a login names an unknown user.
const dummyPassword = "tokengate-timing-equalizer"

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	storeTimeout time.Duration
	logger       *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	storeTimeout := defaultStoreTimeout
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.StoreTimeout > 0 {
		storeTimeout = params.Config.Auth.StoreTimeout
	}

	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		storeTimeout: storeTimeout,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// storeCtx bounds a single round of store calls.
func (srv *authService) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, srv.storeTimeout)
}

// Login checks the credentials and mints a fresh token pair.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*entity.TokenPair, error) {
	storeCtx, cancel := srv.storeCtx(ctx)
	defer cancel()

	user, err := srv.userRepo.FindByUsername(storeCtx, input.Username)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.burnPasswordCheck(input.Password)
		srv.log(ctx).Info("Login rejected", slog.String("username", input.Username), slog.String("cause", "unknown user"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to look up user for login", slog.String("username", input.Username), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Info("Login rejected", slog.String("username", input.Username), slog.String("cause", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	pair, err := srv.issuePair(user.Principal())
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens on login", slog.Int64("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Login succeeded", slog.Int64("userID", user.ID))

	return pair, nil
}

// Register creates the account inside one transaction. The caller stays anonymous.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) error {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username), slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if errors.Is(err, service.ErrPasswordTooLong) {
		srv.log(ctx).Info("Registration rejected", slog.String("username", input.Username), slog.String("cause", "password too long"))

		return errors.Join(domainerrors.ErrValidationFailed.WithDetails("password exceeds 72 bytes"), err)
	}
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	storeCtx, cancel := srv.storeCtx(ctx)
	defer cancel()

	newUser := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	err = srv.txManager.Execute(storeCtx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		exists, err := userRepo.ExistsByUsernameOrEmail(storeCtx, input.Username, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check existing user")
		}
		if exists {
			return domainerrors.ErrUserAlreadyExists
		}

		if err := userRepo.Create(storeCtx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		return nil
	})
	if errors.Is(err, domainerrors.ErrUserAlreadyExists) {
		srv.log(ctx).Info("Registration rejected", slog.String("username", input.Username), slog.String("cause", "duplicate"))

		return errors.Wrap(err, "registration failed")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("username", input.Username), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", newUser.ID))

	return nil
}

// Refresh trades a refresh token for a new pair. Expired refresh tokens are accepted.
func (srv *authService) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	principal, err := srv.authenticate(ctx, refreshToken, false)
	if err != nil {
		return nil, err
	}

	user, err := srv.reloadUser(ctx, principal)
	if err != nil {
		return nil, err
	}

	pair, err := srv.issuePair(user.Principal())
	if err != nil {
		srv.log(ctx).Error("Failed to issue tokens on refresh", slog.Int64("userID", user.ID), slog.Any("error", err))

		return nil, err
	}

	return pair, nil
}

// WhoAmI returns the current profile of the access token's owner.
func (srv *authService) WhoAmI(ctx context.Context, accessToken string) (*entity.UserProfile, error) {
	principal, err := srv.authenticate(ctx, accessToken, true)
	if err != nil {
		return nil, err
	}

	user, err := srv.reloadUser(ctx, principal)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()

	return &profile, nil
}

// Logout keeps no server-side state; the transport expires the cookies.
func (srv *authService) Logout(ctx context.Context) error {
	srv.log(ctx).Debug("Logout")

	return nil
}

func (srv *authService) authenticate(ctx context.Context, token string, checkExpiry bool) (entity.Principal, error) {
	if token == "" {
		return entity.Principal{}, domainerrors.ErrNotAuthenticated
	}

	result := srv.tokenService.Validate(token, checkExpiry)
	principal, ok := result.Principal()
	if !ok {
		srv.log(ctx).Warn("Rejected token", slog.Bool("checkExpiry", checkExpiry), slog.Any("reason", result.Reason()))

		return entity.Principal{}, domainerrors.ErrInvalidToken
	}

	return principal, nil
}

func (srv *authService) reloadUser(ctx context.Context, principal entity.Principal) (*entity.User, error) {
	storeCtx, cancel := srv.storeCtx(ctx)
	defer cancel()

	user, err := srv.userRepo.FindByID(storeCtx, principal.ID)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Warn("Token refers to a missing user", slog.Int64("userID", principal.ID))

		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		srv.log(ctx).Error("Failed to load user", slog.Int64("userID", principal.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

func (srv *authService) issuePair(principal entity.Principal) (*entity.TokenPair, error) {
	access, err := srv.tokenService.Mint(principal, entity.TokenKindAccess)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	refresh, err := srv.tokenService.Mint(principal, entity.TokenKindRefresh)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &entity.TokenPair{Access: access, Refresh: refresh}, nil
}

// burnPasswordCheck spends the same bcrypt work a real comparison would.
func (srv *authService) burnPasswordCheck(password string) {
	srv.dummyOnce.Do(func() {
		hash, err := srv.hasher.Hash(dummyPassword)
		if err == nil {
			srv.dummyHash = hash
		}
	})

	if srv.dummyHash != "" {
		srv.hasher.Check(password, srv.dummyHash)
	}
}
