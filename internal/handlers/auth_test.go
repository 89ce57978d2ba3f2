package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiansio/hris-auth/internal/config"
	"github.com/christiansio/hris-auth/internal/repository"
	"github.com/christiansio/hris-auth/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "development",
		Session: config.SessionConfig{
			CookieName: "session_id",
			TTL:        24 * time.Hour,
		},
	}

	store := repository.NewMemoryStore()
	auth := service.NewAuthService(store.Users(), store.Sessions(), cfg.Session.TTL, zerolog.Nop())

	engine := gin.New()
	NewHandlerSet(zerolog.Nop(), cfg, auth, nil).Register(engine)
	return engine, store
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			return c
		}
	}
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	engine, store := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "registered", resp["message"])
	assert.Equal(t, "a@x.com", resp["email"])
	assert.Equal(t, "user", resp["role"])
	assert.Equal(t, 1, store.UserCount())

	// Same email again is a client error, not a second row.
	w = doJSON(t, engine, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"pw2"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email_already_exists")
	assert.Equal(t, 1, store.UserCount())
}

func TestRegisterEndpointRejectsBadBodies(t *testing.T) {
	engine, _ := newTestRouter(t)

	for _, body := range []string{
		``,
		`{"email":"not-an-email","password":"pw"}`,
		`{"email":"a@x.com"}`,
		`{"email":"a@x.com","password":"pw","role":"superuser"}`,
	} {
		w := doJSON(t, engine, http.MethodPost, "/auth/register", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestLoginEndpoint(t *testing.T) {
	engine, store := newTestRouter(t)

	doJSON(t, engine, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"pw1"}`, nil)

	w := doJSON(t, engine, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	var resp struct {
		Message   string       `json:"message"`
		User      userResponse `json:"user"`
		SessionID string       `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, "a@x.com", resp.User.Email)
	assert.Equal(t, cookie.Value, resp.SessionID)
	assert.Equal(t, 1, store.SessionCount())

	// Wrong password without a cookie is rejected.
	w = doJSON(t, engine, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_credentials")

	// Wrong password with a valid cookie succeeds: session trumps
	// credentials.
	w = doJSON(t, engine, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "loggedIn", resp.Message)
	assert.Equal(t, cookie.Value, resp.SessionID)
	assert.Equal(t, 1, store.SessionCount())
}

func TestMeAndLogoutScenario(t *testing.T) {
	engine, _ := newTestRouter(t)

	doJSON(t, engine, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	login := doJSON(t, engine, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"pw1"}`, nil)
	cookie := sessionCookie(t, login)
	require.NotNil(t, cookie)

	// Authenticated /me.
	w := doJSON(t, engine, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var me userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "a@x.com", me.Email)
	assert.Equal(t, "user", me.Role)
	assert.NotEmpty(t, me.ID)

	// Logout deletes the row and clears the cookie.
	w = doJSON(t, engine, http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logged_out")

	cleared := sessionCookie(t, w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	// The old cookie no longer authenticates.
	w = doJSON(t, engine, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestMeWithoutCookie(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestLogoutWithoutCookie(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "logged_out")
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	engine, _ := newTestRouter(t)

	// The test router has no gateway behind it.
	w := doJSON(t, engine, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "error", resp.Database)
}
