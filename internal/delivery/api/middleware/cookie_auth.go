package middleware

import (
	"tokengate/internal/delivery/api/cookie"
	domainerrors "tokengate/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

const keyToken = "token"

// CookieAuthMiddleware requires a token cookie on the route and hands its raw value to the handler.
// Validating the token is left to the usecase, which decides whether expiry applies.
type CookieAuthMiddleware struct{}

// NewCookieAuthMiddleware is the constructor for CookieAuthMiddleware.
func NewCookieAuthMiddleware() *CookieAuthMiddleware {
	return &CookieAuthMiddleware{}
}

// RequireAccess guards routes that need the Access cookie.
func (m *CookieAuthMiddleware) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(cookie.AccessName, "Access token not provided.")(next)
}

// RequireRefresh guards routes that need the Refresh cookie.
func (m *CookieAuthMiddleware) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(cookie.RefreshName, "Refresh token not provided.")(next)
}

func (m *CookieAuthMiddleware) require(name, missingMessage string) echo.MiddlewareFunc {
	missing := domainerrors.NewBaseError(
		domainerrors.ErrNotAuthenticated.HTTPCode(),
		domainerrors.ErrNotAuthenticated.ErrorCode(),
		missingMessage,
		"",
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Read(c, name)
			if token == "" {
				return missing
			}

			c.Set(keyToken, token)

			return next(c)
		}
	}
}

// GetToken returns the raw token stored by RequireAccess or RequireRefresh.
func GetToken(c echo.Context) (string, bool) {
	token, ok := c.Get(keyToken).(string)

	return token, ok && token != ""
}
