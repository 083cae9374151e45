package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/auth"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/testing/fakeapi"
	"github.com/stockdesk/stockdesk/internal/view"
	testenv "github.com/stockdesk/stockdesk/testing"
)

type env struct {
	backend  *fakeapi.Server
	sessions *shared.SessionManager
	service  *auth.Service
	router   chi.Router
}

func TestMain(m *testing.M) { testenv.Main(m) }

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	backend := fakeapi.New()
	backend.AddUser("Ada", "ada@example.com", "correct-horse")
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	api := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})

	templates, err := view.NewEngine(view.Options{})
	require.NoError(t, err)
	sessions := shared.NewSessionManager(rdb, "test_session", "secret", time.Hour, false)
	service := auth.NewService(auth.NewClient(api), nil)
	handler := auth.NewHandler(nil, service, view.Responder{
		Templates: templates,
		CSRF:      shared.NewCSRFManager("csrfsecret"),
	})

	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return &env{backend: backend, sessions: sessions, service: service, router: r}
}

// do runs req with sess bound and persists the session afterwards.
func (e *env) do(t *testing.T, req *http.Request, sess *shared.Session) *httptest.ResponseRecorder {
	t.Helper()
	ctx := shared.ContextWithSession(req.Context(), sess)
	if p, ok := sess.Principal(); ok {
		ctx = shared.ContextWithPrincipal(ctx, p)
	}
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.NoError(t, e.sessions.Commit(ctx, rec, req, sess))
	return rec
}

func (e *env) newSession(t *testing.T) *shared.Session {
	t.Helper()
	sess, err := e.sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginPage(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, httptest.NewRequest(http.MethodGet, "/auth/login", nil), e.newSession(t))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<form")
}

func TestLoginStoresPrincipal(t *testing.T) {
	e := newEnv(t)
	sess := e.newSession(t)
	rec := e.do(t, postForm("/auth/login", url.Values{"email": {"Ada@example.com"}, "password": {"correct-horse"}}), sess)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	p, ok := sess.Principal()
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", p.User.Email)
	owner, ok := e.backend.TokenOwner(p.Token)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", owner)
}

func TestLoginInvalidCredentials(t *testing.T) {
	e := newEnv(t)
	sess := e.newSession(t)
	rec := e.do(t, postForm("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}}), sess)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
	_, ok := sess.Principal()
	assert.False(t, ok)
}

func TestLoginValidationNeverCallsBackend(t *testing.T) {
	e := newEnv(t)
	before := e.backend.Requests()
	rec := e.do(t, postForm("/auth/login", url.Values{"email": {"not-an-email"}}), e.newSession(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
	assert.Contains(t, rec.Body.String(), "Enter your password.")
	assert.Equal(t, before, e.backend.Requests())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, postForm("/auth/register", url.Values{
		"name": {"Ada again"}, "email": {"ada@example.com"}, "password": {"long-enough"},
	}), e.newSession(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "This email is already registered.")
}

func TestRegisterSignsIn(t *testing.T) {
	e := newEnv(t)
	sess := e.newSession(t)
	rec := e.do(t, postForm("/auth/register", url.Values{
		"name": {"Grace"}, "email": {"grace@example.com"}, "password": {"long-enough"},
	}), sess)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, ok := sess.Principal()
	require.True(t, ok)
	assert.Equal(t, "Grace", p.User.Name)
}

func TestLogoutRevokesTokenAndClearsSession(t *testing.T) {
	e := newEnv(t)
	sess := e.newSession(t)
	e.do(t, postForm("/auth/login", url.Values{"email": {"ada@example.com"}, "password": {"correct-horse"}}), sess)
	p, ok := sess.Principal()
	require.True(t, ok)
	_ = sess.PopFlash()

	rec := e.do(t, postForm("/auth/logout", nil), sess)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, auth.LoginPath, rec.Header().Get("Location"))

	_, ok = sess.Principal()
	assert.False(t, ok)
	_, ok = e.backend.TokenOwner(p.Token)
	assert.False(t, ok)
}

func TestTeardownSurvivesBackendFailure(t *testing.T) {
	e := newEnv(t)
	sess := e.newSession(t)
	sess.SetPrincipal(shared.Principal{Token: "token-x", User: shared.User{Email: "ada@example.com"}})
	e.backend.Fail(http.MethodPost, "/logout", http.StatusInternalServerError, 1)

	e.service.Teardown(context.Background(), sess)

	_, ok := sess.Principal()
	assert.False(t, ok)
	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "You have been signed out.", flash.Message)
}

func TestMiddleware(t *testing.T) {
	e := newEnv(t)
	var seen string
	protected := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = apiclient.TokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	anon := e.newSession(t)
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req.WithContext(shared.ContextWithSession(req.Context(), anon)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, auth.LoginPath, rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodPost, "/products", nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req.WithContext(shared.ContextWithSession(req.Context(), anon)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, seen)

	signedIn := e.newSession(t)
	signedIn.SetPrincipal(shared.Principal{Token: "token-7"})
	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req.WithContext(shared.ContextWithSession(req.Context(), signedIn)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "token-7", seen)
}
