package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pet-shelter/internal/handler"
	"github.com/iliyamo/pet-shelter/internal/middleware"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/service"
	"github.com/iliyamo/pet-shelter/internal/session"
	"github.com/iliyamo/pet-shelter/internal/utils"
)

const secret = "router-secret"

// fakeAuth serves fixed sessions.  roles overrides what Refresh reads back
// from the user table, keyed by user id.
type fakeAuth struct {
	sessions map[string]*session.Session
	roles    map[uint64]string
}

func (a fakeAuth) Session(_ context.Context, sid string) (*session.Session, error) {
	if s, ok := a.sessions[sid]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, session.ErrNotFound
}

func (a fakeAuth) Refresh(_ context.Context, s *session.Session) (bool, error) {
	role, ok := a.roles[s.UserID]
	if !ok || role == s.Role {
		return false, nil
	}
	s.Role = role
	return true, nil
}
func (fakeAuth) Login(context.Context, string, string) (*session.Session, error) {
	return nil, nil
}
func (fakeAuth) Logout(context.Context, string) error                    { return nil }
func (fakeAuth) Register(context.Context, service.RegisterInput) error { return nil }

// empty satisfies every page service with empty results.
type empty struct{}

func (empty) Submit(context.Context, *session.Session, uint64, uint64, string) error { return nil }
func (empty) Approve(context.Context, *session.Session, uint64, uint64) (uint64, error) {
	return 0, nil
}
func (empty) Reject(context.Context, *session.Session, uint64, string) error { return nil }
func (empty) Withdraw(context.Context, *session.Session, uint64) error       { return nil }
func (empty) List(context.Context, string) ([]model.ApplicationView, error)  { return nil, nil }
func (empty) ListForUser(context.Context, uint64) ([]model.ApplicationView, error) {
	return nil, nil
}
func (empty) WorkerIDFor(context.Context, uint64) (uint64, bool, error) { return 0, false, nil }
func (empty) FormOptions(context.Context, *session.Session) (service.ApplicationForm, error) {
	return service.ApplicationForm{}, nil
}

type emptyPayments struct{}

func (emptyPayments) UpdateStatus(context.Context, *session.Session, uint64, string) error { return nil }
func (emptyPayments) UpdateMethod(context.Context, *session.Session, uint64, string) error { return nil }
func (emptyPayments) List(context.Context, string) ([]model.PaymentView, error)           { return nil, nil }

type emptyWorkers struct{}

func (emptyWorkers) Status(context.Context, uint64) (*model.WorkerRequest, error) { return nil, nil }
func (emptyWorkers) Request(context.Context, *session.Session, string, string) (uint64, error) {
	return 0, nil
}
func (emptyWorkers) Approve(context.Context, *session.Session, uint64) (model.WorkerRequest, error) {
	return model.WorkerRequest{}, nil
}
func (emptyWorkers) Reject(context.Context, *session.Session, uint64) error { return nil }
func (emptyWorkers) ListPending(context.Context) ([]model.WorkerRequestView, error) {
	return nil, nil
}

type emptyUsers struct{}

func (emptyUsers) Add(context.Context, *session.Session, repository.NewUser) error   { return nil }
func (emptyUsers) UpdateRole(context.Context, *session.Session, uint64, string) error { return nil }
func (emptyUsers) List(context.Context, string) ([]model.UserSummary, error)         { return nil, nil }

type emptyPets struct{}

func (emptyPets) List(context.Context) ([]model.PetView, error) { return nil, nil }
func (emptyPets) FormOptions(context.Context) (service.RegisterForm, error) {
	return service.RegisterForm{}, nil
}
func (emptyPets) Register(context.Context, *session.Session, repository.NewPet, string) (uint64, error) {
	return 0, nil
}
func (emptyPets) UpdateStatus(context.Context, *session.Session, uint64, string) error { return nil }
func (emptyPets) Delete(context.Context, *session.Session, uint64) error               { return nil }
func (emptyPets) Overview(context.Context, *session.Session) (model.Overview, error) {
	return model.Overview{}, nil
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	return newServerWith(t, nil)
}

// newServerWith builds the full router.  roles simulates role changes made
// in the database after the sessions were created.
func newServerWith(t *testing.T, roles map[uint64]string) *echo.Echo {
	t.Helper()
	auth := fakeAuth{sessions: map[string]*session.Session{
		"adopter": {ID: "adopter", UserID: 2, Name: "Ann", Role: model.RoleAdopter},
		"worker":  {ID: "worker", UserID: 8, Name: "Wes", Role: model.RoleShelterWorker},
		"admin":   {ID: "admin", UserID: 1, Name: "Ada", Role: model.RoleAdmin},
	}, roles: roles}
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	e := echo.New()
	e.Validator = handler.NewFormValidator()
	Use(e, auth, secret)
	RegisterAuth(e, handler.NewAuthHandler(auth, secret, time.Hour, false), passthrough)
	RegisterPages(e, handler.NewPageHandler(empty{}, emptyPayments{}, emptyWorkers{}, emptyUsers{}, emptyPets{}))
	RegisterRoutes(e)
	return e
}

func get(t *testing.T, e *echo.Echo, path, sid string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		tok, err := utils.NewSessionToken(secret, sid, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: tok.Token})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPages_Unauthenticated(t *testing.T) {
	e := newServer(t)
	for _, path := range []string{"/page/dashboard", "/page/manage_users", "/page/no_such_page"} {
		rec := get(t, e, path, "")
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation), path)
	}
}

func TestPages_AccessDecisions(t *testing.T) {
	e := newServer(t)

	tests := []struct {
		path, sid string
		status    int
	}{
		{"/page/dashboard", "adopter", http.StatusOK},
		{"/page/manage_my_applications", "adopter", http.StatusOK},
		{"/page/manage_applications", "adopter", http.StatusForbidden},
		{"/page/add_user", "worker", http.StatusForbidden},
		{"/page/manage_payments", "worker", http.StatusOK},
		{"/page/analytics", "worker", http.StatusOK},
		{"/page/no_such_page", "worker", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path+" as "+tt.sid, func(t *testing.T) {
			rec := get(t, e, tt.path, tt.sid)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
		})
	}
}

func TestPages_RoleRefreshedBeforeAccessCheck(t *testing.T) {
	e := newServer(t)
	assert.Equal(t, http.StatusOK, get(t, e, "/page/manage_users", "admin").Code)

	// The admin was demoted while their session was live.
	e = newServerWith(t, map[uint64]string{1: model.RoleAdopter})
	assert.Equal(t, http.StatusForbidden, get(t, e, "/page/manage_users", "admin").Code)

	rec := get(t, e, "/page/dashboard", "admin")
	require.Equal(t, http.StatusOK, rec.Code)
	var view handler.PageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, model.RoleAdopter, view.User.Role)
	assert.Equal(t, "Your role has been updated to adopter.", view.Message)

	// A worker promoted to admin gets the admin pages on the next request.
	e = newServerWith(t, map[uint64]string{8: model.RoleAdmin})
	assert.Equal(t, http.StatusOK, get(t, e, "/page/add_user", "worker").Code)
}

func TestIndexRedirect(t *testing.T) {
	e := newServer(t)

	assert.Equal(t, "/login", get(t, e, "/", "").Header().Get(echo.HeaderLocation))
	assert.Equal(t, "/page/dashboard", get(t, e, "/", "adopter").Header().Get(echo.HeaderLocation))
}

func TestUnknownSessionIsAnonymous(t *testing.T) {
	e := newServer(t)
	rec := get(t, e, "/page/dashboard", "expired-sid")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestHealthz(t *testing.T) {
	rec := get(t, newServer(t), "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
