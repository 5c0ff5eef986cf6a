package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs"

	"github.com/huviapp/huvi/internal/config"
	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/provider"
	"github.com/huviapp/huvi/internal/queue"
	"github.com/huviapp/huvi/internal/session"
)

const (
	HomeRoute   = "/"
	LoginRoute  = "/login"
	SignupRoute = "/signup"

	// TokenKey is the cookie-session key under which the provider's access
	// token is stored.
	TokenKey = "token"
)

type Handler struct {
	Config         *config.Configuration
	sessions       session.Service
	db             db.DB
	notifier       queue.Notifier
	SessionManager *scs.Manager
}

func New(config *config.Configuration, sessions session.Service, d db.DB, notifier queue.Notifier, manager *scs.Manager) Handler {
	return Handler{
		Config:         config,
		sessions:       sessions,
		db:             d,
		notifier:       notifier,
		SessionManager: manager,
	}
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, GetCode(err), map[string]string{"error": err.Error()})
}

// GetCode maps service errors to HTTP status codes. Provider rejections keep
// the status the provider chose.
func GetCode(err error) int {
	var authErr *provider.AuthError
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &authErr):
		if authErr.Status >= http.StatusBadRequest {
			return authErr.Status
		}
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
