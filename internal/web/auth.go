package web

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/session"
)

type sessionKey struct{}
type tokenKey struct{}

func GetSession(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session.Session)
	return s, ok
}

func Token(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// SessionMiddleware resolves the request's session before any handler or guard
// runs. Resolution blocks on the first request of a client until the session
// bootstrap completes, so nothing downstream ever sees a loading session.
func SessionMiddleware(handler *Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := handler.token(r)
			s := handler.sessions.Resolve(r.Context(), token)

			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			ctx = context.WithValue(ctx, tokenKey{}, token)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Guard enforces a route's access metadata. Exactly one of pass-through,
// redirect-to-login or redirect-to-home happens; the authentication check
// strictly precedes the role check.
func Guard(handler *Handler, meta RouteMeta) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !meta.RequiresAuth && !meta.RequiresRole {
				h.ServeHTTP(w, r)
				return
			}

			s, ok := GetSession(r.Context())
			if !ok {
				s = handler.sessions.Resolve(r.Context(), handler.token(r))
			}

			if !s.Authenticated() {
				http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
				return
			}
			if meta.RequiresRole && !s.Role().Privileged() {
				http.Redirect(w, r, HomeRoute, http.StatusSeeOther)
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) token(r *http.Request) string {
	s := h.SessionManager.Load(r)
	token, err := s.GetString(TokenKey)
	if err != nil {
		return ""
	}
	return token
}

func Login(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := handler.SessionManager.Load(r)
		if err := r.ParseForm(); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "failed to parse form body"})
			return
		}

		email := r.Form.Get("email")
		password := r.Form.Get("password")

		token, _, err := handler.sessions.Login(r.Context(), email, password)
		if err != nil {
			// The provider's message is meant for the end user.
			respondError(w, err)
			return
		}

		if err = cookie.PutString(w, TokenKey, token); err != nil {
			log.Error().Err(err).Msg("failed to write session cookie")
			respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
			return
		}

		http.Redirect(w, r, HomeRoute, http.StatusSeeOther)
	}
}

func Logout(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handler.sessions.Logout(r.Context(), Token(r.Context()))

		cookie := handler.SessionManager.Load(r)
		if err := cookie.Destroy(w); err != nil {
			log.Warn().Err(err).Msg("failed to destroy session cookie")
		}

		http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
	}
}
