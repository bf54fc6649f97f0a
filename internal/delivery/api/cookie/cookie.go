// Package cookie carries issued tokens between the API and the browser.
package cookie

import (
	"net/http"
	"time"

	"tokengate/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

const (
	AccessName  = "Access"
	RefreshName = "Refresh"
)

// NameFor maps a token kind to the cookie that carries it.
func NameFor(kind entity.TokenKind) string {
	if kind == entity.TokenKindRefresh {
		return RefreshName
	}

	return AccessName
}

// SetTokens attaches both tokens of the pair. Each cookie expires with its token.
func SetTokens(c echo.Context, pair *entity.TokenPair) {
	c.SetCookie(newTokenCookie(NameFor(pair.Access.Kind), pair.Access.Value, pair.Access.ExpiresAt))
	c.SetCookie(newTokenCookie(NameFor(pair.Refresh.Kind), pair.Refresh.Value, pair.Refresh.ExpiresAt))
}

// ClearTokens overwrites both cookies with empty, already expired values.
func ClearTokens(c echo.Context) {
	for _, name := range []string{AccessName, RefreshName} {
		ck := newTokenCookie(name, "", time.Unix(0, 0))
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}

// Read returns the named cookie's value, or "" when it is absent.
func Read(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}

	return ck.Value
}

// SameSite=None lets the SPA origin send the cookies cross-site; browsers require Secure with it.
func newTokenCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
