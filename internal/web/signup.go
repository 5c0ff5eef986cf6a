package web

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

func SignUp(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "failed to parse form body"})
			return
		}

		email := r.Form.Get("email")
		password := r.Form.Get("password")
		fullName := r.Form.Get("full_name")

		res, err := handler.sessions.Register(r.Context(), email, password, fullName)
		if err != nil {
			respondError(w, err)
			return
		}

		// With email confirmation disabled the provider hands back a session
		// right away and the client is signed in immediately.
		if res.Session != nil {
			cookie := handler.SessionManager.Load(r)
			if err = cookie.PutString(w, TokenKey, res.Session.AccessToken); err != nil {
				log.Error().Err(err).Msg("failed to write session cookie")
			}
		}

		respond(w, http.StatusCreated, map[string]any{
			"user":      res.User,
			"confirmed": res.Session != nil,
		})
	}
}
