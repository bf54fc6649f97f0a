package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tokengate/config"
	"tokengate/internal/delivery/api/cookie"
	apimiddleware "tokengate/internal/delivery/api/middleware"
	"tokengate/internal/delivery/api/response"
	"tokengate/internal/delivery/api/router"
	"tokengate/internal/delivery/api/router/handler"
	"tokengate/internal/infra/auth"
	"tokengate/internal/infra/persistence/memory"
	"tokengate/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://localhost:5173"

type testApp struct {
	e     *echo.Echo
	store *memory.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.HTTP.CORS.AllowOrigins = []string{testOrigin}
	cfg.Storage.Driver = config.StorageDriverMemory
	cfg.SecretKey.Token = "an-hs512-secret-that-is-long-enough-for-tests"
	cfg.Auth = &config.AuthConfig{
		BcryptCost:   4,
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   30 * 24 * time.Hour,
		StoreTimeout: time.Second,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		TxManager:    memory.NewTransactionManager(store),
		UserRepo:     memory.NewUserRepository(store),
		Hasher:       auth.NewBcryptHasher(cfg),
		TokenService: tokenService,
		Config:       cfg,
		Logger:       logger,
	})

	routerParams := router.RouterParams{
		AuthHandler:    handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC, Logger: logger}),
		AuthMiddleware: apimiddleware.NewCookieAuthMiddleware(),
	}

	return &testApp{e: newEcho(cfg, logger, routerParams), store: store}
}

func (a *testApp) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

func (a *testApp) register(t *testing.T, username, email string) {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/auth/register",
		`{"username":"`+username+`","password":"correct horse","email":"`+email+`","firstName":"First","lastName":"Last"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (a *testApp) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	return a.do(t, http.MethodPost, "/api/auth/login", `{"username":"`+username+`","password":"`+password+`"}`)
}

func tokenCookies(t *testing.T, rec *httptest.ResponseRecorder) (access, refresh *http.Cookie) {
	t.Helper()

	for _, ck := range rec.Result().Cookies() {
		switch ck.Name {
		case cookie.AccessName:
			access = ck
		case cookie.RefreshName:
			refresh = ck
		}
	}
	require.NotNil(t, access, "Access cookie")
	require.NotNil(t, refresh, "Refresh cookie")

	return access, refresh
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorInfo {
	t.Helper()

	var body struct {
		Error response.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())

	return body.Error
}

func TestAuthFlow_RegisterLoginRefreshWhoAmI(t *testing.T) {
	app := newTestApp(t)

	app.register(t, "alice", "alice@example.com")

	loginRec := app.login(t, "alice", "correct horse")
	require.Equal(t, http.StatusOK, loginRec.Code, loginRec.Body.String())

	access, refresh := tokenCookies(t, loginRec)
	for _, ck := range []*http.Cookie{access, refresh} {
		assert.NotEmpty(t, ck.Value)
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	}
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), access.Expires, time.Minute)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), refresh.Expires, time.Minute)

	userRec := app.do(t, http.MethodGet, "/api/auth/user", "", access)
	require.Equal(t, http.StatusOK, userRec.Code, userRec.Body.String())

	var profileBody struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(userRec.Body.Bytes(), &profileBody))
	assert.Equal(t, "alice", profileBody.Data["username"])
	assert.Equal(t, "alice@example.com", profileBody.Data["email"])
	assert.Equal(t, "First", profileBody.Data["firstName"])
	assert.Equal(t, "Last", profileBody.Data["lastName"])
	assert.NotContains(t, userRec.Body.String(), "password")

	refreshRec := app.do(t, http.MethodPost, "/api/auth/refresh", "", refresh)
	require.Equal(t, http.StatusOK, refreshRec.Code, refreshRec.Body.String())
	newAccess, newRefresh := tokenCookies(t, refreshRec)
	assert.NotEmpty(t, newAccess.Value)
	assert.NotEmpty(t, newRefresh.Value)

	// Refresh tokens are not revoked by use.
	again := app.do(t, http.MethodPost, "/api/auth/refresh", "", refresh)
	assert.Equal(t, http.StatusOK, again.Code)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/auth/user", "", newAccess).Code)
}

func TestRegister_DoesNotSetCookies(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/register",
		`{"username":"bob","password":"pw","email":"bob@example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Empty(t, rec.Body.String())
}

func TestRegister_Conflicts(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "carol", "carol@example.com")

	tests := []struct {
		name string
		body string
	}{
		{"duplicate username", `{"username":"carol","password":"pw","email":"other@example.com"}`},
		{"duplicate email", `{"username":"other","password":"pw","email":"carol@example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/auth/register", tt.body)

			assert.Equal(t, http.StatusConflict, rec.Code)
			errInfo := decodeError(t, rec)
			assert.Equal(t, "USER_ALREADY_EXISTS", errInfo.Code)
			assert.Equal(t, "User already exists with this username or email.", errInfo.Message)
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/register", `{"username":"dave","password":"pw","email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errInfo := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", errInfo.Code)
	assert.Equal(t, map[string]any{"email": "email"}, errInfo.Details)

	malformed := app.do(t, http.MethodPost, "/api/auth/register", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, malformed).Code)
}

func TestRegister_PasswordLengthCountsBytes(t *testing.T) {
	app := newTestApp(t)

	// 40 runes encode to 80 bytes, past bcrypt's 72-byte limit.
	tooLong := strings.Repeat("é", 40)
	rec := app.do(t, http.MethodPost, "/api/auth/register",
		`{"username":"frank","password":"`+tooLong+`","email":"frank@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	errInfo := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", errInfo.Code)
	assert.Equal(t, map[string]any{"password": "maxbytes"}, errInfo.Details)

	fits := strings.Repeat("é", 36)
	rec = app.do(t, http.MethodPost, "/api/auth/register",
		`{"username":"frank","password":"`+fits+`","email":"frank@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := app.login(t, "frank", fits)
	assert.Equal(t, http.StatusOK, login.Code, login.Body.String())
}

func TestLogin_RejectionsAreIndistinguishable(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "erin", "erin@example.com")

	unknown := app.login(t, "nobody", "correct horse")
	wrong := app.login(t, "erin", "wrong password")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, decodeError(t, unknown), decodeError(t, wrong))
	assert.Equal(t, "Invalid username or password.", decodeError(t, wrong).Message)
	assert.Empty(t, unknown.Result().Cookies())
	assert.Empty(t, wrong.Result().Cookies())
}

func TestMissingCookies(t *testing.T) {
	app := newTestApp(t)

	userRec := app.do(t, http.MethodGet, "/api/auth/user", "")
	assert.Equal(t, http.StatusUnauthorized, userRec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", decodeError(t, userRec).Code)
	assert.Equal(t, "Access token not provided.", decodeError(t, userRec).Message)

	refreshRec := app.do(t, http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, refreshRec.Code)
	assert.Equal(t, "Refresh token not provided.", decodeError(t, refreshRec).Message)
}

func TestInvalidTokens(t *testing.T) {
	app := newTestApp(t)
	garbage := &http.Cookie{Name: cookie.AccessName, Value: "not.a.jwt"}

	rec := app.do(t, http.MethodGet, "/api/auth/user", "", garbage)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Code)

	// An access token is signed like a refresh token, so it is accepted on /refresh.
	app.register(t, "frank", "frank@example.com")
	access, _ := tokenCookies(t, app.login(t, "frank", "correct horse"))
	swapped := &http.Cookie{Name: cookie.RefreshName, Value: access.Value}
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/auth/refresh", "", swapped).Code)
}

func TestWhoAmI_DeletedUser(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "gina", "gina@example.com")
	access, refresh := tokenCookies(t, app.login(t, "gina", "correct horse"))

	user, err := app.store.FindByUsername(context.Background(), "gina")
	require.NoError(t, err)
	require.NoError(t, app.store.Delete(context.Background(), user.ID))

	userRec := app.do(t, http.MethodGet, "/api/auth/user", "", access)
	assert.Equal(t, http.StatusUnauthorized, userRec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeError(t, userRec).Code)

	refreshRec := app.do(t, http.MethodPost, "/api/auth/refresh", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, refreshRec.Code)
	assert.Equal(t, "User not found.", decodeError(t, refreshRec).Message)
}

func TestLogout_ClearsCookies(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/logout", "")

	require.Equal(t, http.StatusOK, rec.Code)
	access, refresh := tokenCookies(t, rec)
	for _, ck := range []*http.Cookie{access, refresh} {
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
		assert.True(t, ck.Expires.Before(time.Now()))
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	}
}

func TestCORS_AllowsCredentialsForConfiguredOrigin(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderOrigin, testOrigin)
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)

	assert.Equal(t, testOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))

	other := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	other.Header.Set(echo.HeaderOrigin, "https://evil.example")
	other.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	otherRec := httptest.NewRecorder()
	app.e.ServeHTTP(otherRec, other)

	assert.Empty(t, otherRec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestHealthAndRequestID(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Contains(t, rec.Body.String(), rec.Header().Get("X-Request-Id"))
}
