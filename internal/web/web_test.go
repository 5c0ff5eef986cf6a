package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs"
	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/huviapp/huvi/internal/config"
	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/domain"
	"github.com/huviapp/huvi/internal/mocks"
	"github.com/huviapp/huvi/internal/provider"
	"github.com/huviapp/huvi/internal/session"
)

// fakeSessions is a canned session.Service. Resolve hands out the configured
// session for every token, which is all the guard tests need.
type fakeSessions struct {
	session     *session.Session
	loginToken  string
	loginErr    error
	registerRes provider.SignUpResult
	registerErr error
	updated     *domain.Profile
	updateErr   error
	loggedOut   []string
}

func (f *fakeSessions) Resolve(_ context.Context, _ string) *session.Session {
	if f.session != nil {
		return f.session
	}
	return &session.Session{}
}

func (f *fakeSessions) Login(_ context.Context, _, _ string) (string, *session.Session, error) {
	return f.loginToken, f.session, f.loginErr
}

func (f *fakeSessions) Register(_ context.Context, _, _, _ string) (provider.SignUpResult, error) {
	return f.registerRes, f.registerErr
}

func (f *fakeSessions) Logout(_ context.Context, token string) {
	f.loggedOut = append(f.loggedOut, token)
}

func (f *fakeSessions) UpdateProfile(_ context.Context, _ string, _ domain.ProfileUpdate) (*domain.Profile, error) {
	return f.updated, f.updateErr
}

type fakeNotifier struct {
	calls [][2]string
	err   error
}

func (f *fakeNotifier) FollowCreated(_ context.Context, follower, following string) error {
	f.calls = append(f.calls, [2]string{follower, following})
	return f.err
}

func newTestRouter(svc session.Service, d db.DB, n *fakeNotifier) chi.Router {
	if n == nil {
		n = &fakeNotifier{}
	}
	manager := scs.NewCookieManager("u46IpCV9y5Vlur8YvODJEhgOY8m9JVE4")
	handler := New(&config.Configuration{}, svc, d, n, manager)
	router := chi.NewRouter()
	handler.Mount(router)
	return router
}

func get(t *testing.T, router chi.Router, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func signedIn(role domain.Role) *session.Session {
	s := &session.Session{User: &domain.Identity{ID: "u1", Email: "sarah@example.com"}}
	if role != "" {
		s.Profile = &domain.Profile{ID: "u1", Role: role}
	}
	return s
}

func TestGuardRedirects(t *testing.T) {
	tests := []struct {
		name     string
		session  *session.Session
		target   string
		code     int
		location string
	}{
		{"public route, signed out", nil, "/", http.StatusOK, ""},
		{"protected route, signed out", nil, "/account", http.StatusSeeOther, LoginRoute},
		{"protected route, signed in", signedIn(domain.RoleUser), "/account", http.StatusOK, ""},
		{"role route, signed out", nil, "/dashboard", http.StatusSeeOther, LoginRoute},
		{"role route, plain user", signedIn(domain.RoleUser), "/dashboard", http.StatusSeeOther, HomeRoute},
		{"role route, missing profile", signedIn(""), "/dashboard", http.StatusSeeOther, HomeRoute},
		{"role route, publisher", signedIn(domain.RolePublisher), "/dashboard", http.StatusOK, ""},
		{"role route, admin", signedIn(domain.RoleAdmin), "/dashboard", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&fakeSessions{session: tc.session}, nil, nil)
			w := get(t, router, tc.target)

			if w.Code != tc.code {
				t.Errorf("expected status %d, got %d", tc.code, w.Code)
			}
			if got := w.Header().Get("Location"); got != tc.location {
				t.Errorf("expected redirect to %q, got %q", tc.location, got)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	svc := &fakeSessions{loginToken: "tok", session: signedIn(domain.RoleUser)}
	router := newTestRouter(svc, nil, nil)

	form := url.Values{"email": {"sarah@example.com"}, "password": {"correcthorse"}}
	r := httptest.NewRequest(http.MethodPost, LoginRoute, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d: %s", http.StatusSeeOther, w.Code, w.Body)
	}
	if got := w.Header().Get("Location"); got != HomeRoute {
		t.Errorf("expected redirect to %q, got %q", HomeRoute, got)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}
}

func TestLoginHandlerRejected(t *testing.T) {
	svc := &fakeSessions{loginErr: &provider.AuthError{Status: 400, Message: "Invalid login credentials"}}
	router := newTestRouter(svc, nil, nil)

	form := url.Values{"email": {"sarah@example.com"}, "password": {"wrongpassword"}}
	r := httptest.NewRequest(http.MethodPost, LoginRoute, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected the provider's status, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid login credentials") {
		t.Errorf("expected the provider's message in the response, got %s", w.Body)
	}
}

func TestLogoutHandler(t *testing.T) {
	svc := &fakeSessions{session: signedIn(domain.RoleUser)}
	router := newTestRouter(svc, nil, nil)

	w := get(t, router, "/logout")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, w.Code)
	}
	if got := w.Header().Get("Location"); got != LoginRoute {
		t.Errorf("expected redirect to %q, got %q", LoginRoute, got)
	}
	if len(svc.loggedOut) != 1 {
		t.Errorf("expected exactly one sign-out, got %d", len(svc.loggedOut))
	}
}

func TestSignUpHandler(t *testing.T) {
	ident := domain.Identity{ID: "u2", Email: "eren@example.com"}
	svc := &fakeSessions{registerRes: provider.SignUpResult{
		User:    ident,
		Session: &provider.Session{AccessToken: "tok2", User: ident},
	}}
	router := newTestRouter(svc, nil, nil)

	form := url.Values{
		"email":     {"eren@example.com"},
		"password":  {"correcthorse"},
		"full_name": {"Eren"},
	}
	r := httptest.NewRequest(http.MethodPost, SignupRoute, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"confirmed":true`) {
		t.Errorf("expected an immediate session to be reported, got %s", w.Body)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}
}

func TestFollowHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().InsertFollow(gomock.Any(), "u1", "u9").Return(true, nil)

	notifier := &fakeNotifier{}
	router := newTestRouter(&fakeSessions{session: signedIn(domain.RoleUser)}, d, notifier)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profiles/u9/follow", nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != [2]string{"u1", "u9"} {
		t.Errorf("expected one notification for u1 following u9, got %v", notifier.calls)
	}
}

func TestFollowHandlerDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().InsertFollow(gomock.Any(), "u1", "u9").Return(false, nil)

	notifier := &fakeNotifier{}
	router := newTestRouter(&fakeSessions{session: signedIn(domain.RoleUser)}, d, notifier)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profiles/u9/follow", nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, w.Code)
	}
	if len(notifier.calls) != 0 {
		t.Error("an already existing follow must not notify again")
	}
}

func TestFollowHandlerSelf(t *testing.T) {
	router := newTestRouter(&fakeSessions{session: signedIn(domain.RoleUser)}, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/profiles/u1/follow", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestProfileHandlerHidesPushID(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetProfile(gomock.Any(), "u9").
		Return(domain.Profile{ID: "u9", FullName: "Nadia", OnesignalID: "sub-123"}, nil)

	router := newTestRouter(&fakeSessions{}, d, nil)
	w := get(t, router, "/profiles/u9")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if strings.Contains(w.Body.String(), "sub-123") {
		t.Errorf("subscription id leaked: %s", w.Body)
	}
}

func TestProfileHandlerNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetProfile(gomock.Any(), "nobody").Return(domain.Profile{}, db.ErrNotFound)

	router := newTestRouter(&fakeSessions{}, d, nil)
	w := get(t, router, "/profiles/nobody")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestRespondErrorInternal(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, db.ErrInternal)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("malformed response: %s", err)
	}
	if body["error"] == "" {
		t.Error("expected a non-empty error message")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{db.ErrNotFound, http.StatusNotFound},
		{session.ErrInvalidInput, http.StatusBadRequest},
		{session.ErrForbidden, http.StatusForbidden},
		{&provider.AuthError{Status: 422, Message: "weak password"}, 422},
		{&provider.AuthError{}, http.StatusUnauthorized},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := GetCode(tc.err); got != tc.code {
			t.Errorf("GetCode(%v) = %d, expected %d", tc.err, got, tc.code)
		}
	}
}
