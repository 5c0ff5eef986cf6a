package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouteMeta declares the access policy of a route. The guard inspects nothing
// else. RequiresRole implies the authentication check: without a user there is
// no role, and the client is sent to the login page, never to home.
type RouteMeta struct {
	RequiresAuth bool
	RequiresRole bool
}

// Route is one entry of the static route table, defined at startup and never
// mutated.
type Route struct {
	Method  string
	Path    string
	Name    string
	Handler http.HandlerFunc
	Meta    RouteMeta
}

func (h *Handler) Routes() []Route {
	return []Route{
		{http.MethodGet, HomeRoute, "home", Home(h), RouteMeta{}},
		{http.MethodPost, LoginRoute, "login", Login(h), RouteMeta{}},
		{http.MethodPost, SignupRoute, "signup", SignUp(h), RouteMeta{}},
		{http.MethodGet, "/logout", "logout", Logout(h), RouteMeta{}},
		{http.MethodGet, "/account", "account", Account(h), RouteMeta{RequiresAuth: true}},
		{http.MethodPatch, "/account", "account-update", UpdateAccount(h), RouteMeta{RequiresAuth: true}},
		{http.MethodPut, "/account/push", "account-push", RegisterPush(h), RouteMeta{RequiresAuth: true}},
		{http.MethodGet, "/dashboard", "dashboard", Dashboard(h), RouteMeta{RequiresAuth: true, RequiresRole: true}},
		{http.MethodGet, "/profiles/{id}", "profile", Profile(h), RouteMeta{}},
		{http.MethodPost, "/profiles/{id}/follow", "follow", Follow(h), RouteMeta{RequiresAuth: true}},
		{http.MethodDelete, "/profiles/{id}/follow", "unfollow", Unfollow(h), RouteMeta{RequiresAuth: true}},
	}
}

func (h *Handler) Mount(r chi.Router) {
	r.Use(SessionMiddleware(h))
	for _, route := range h.Routes() {
		r.With(Guard(h, route.Meta)).Method(route.Method, route.Path, route.Handler)
	}
}
