// Package handler contains the HTTP handlers for the API.
package handler

import (
	"log/slog"
	"net/http"

	"tokengate/internal/delivery/api/cookie"
	"tokengate/internal/delivery/api/middleware"
	"tokengate/internal/delivery/api/response"
	domainerrors "tokengate/internal/domain/errors"
	"tokengate/internal/errors"
	"tokengate/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves the cookie-based authentication endpoints.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

// GetUser returns the profile of the Access cookie's owner.
func (h *AuthHandler) GetUser(c echo.Context) error {
	token, _ := middleware.GetToken(c)

	profile, err := h.authUC.WhoAmI(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile)
}

// Login sets fresh Access and Refresh cookies for valid credentials.
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.LoginInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authUC.Login(c.Request().Context(), &req)
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.SetTokens(c, pair)

	return c.NoContent(http.StatusOK)
}

// Register creates an account. It does not set any cookie.
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authUC.Register(c.Request().Context(), &req); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusOK)
}

// Refresh rotates both cookies using the Refresh cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	token, _ := middleware.GetToken(c)

	pair, err := h.authUC.Refresh(c.Request().Context(), token)
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.SetTokens(c, pair)

	return c.NoContent(http.StatusOK)
}

// Logout expires both cookies. Tokens already handed out stay valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authUC.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	cookie.ClearTokens(c)

	return c.NoContent(http.StatusOK)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	if err := c.Validate(req); err != nil {
		return errors.Join(domainerrors.ErrValidationFailed, err)
	}

	return nil
}
