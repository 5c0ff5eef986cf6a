package web

import (
	"encoding/json"
	"net/http"

	"github.com/huviapp/huvi/internal/domain"
)

func Home(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func Account(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := GetSession(r.Context())
		// Profile may be null when the row hasn't been created yet; the
		// client renders empty fields rather than an error.
		respond(w, http.StatusOK, map[string]any{
			"user":    s.User,
			"profile": s.Profile,
		})
	}
}

func UpdateAccount(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var updates domain.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "malformed update"})
			return
		}

		p, err := handler.sessions.UpdateProfile(r.Context(), Token(r.Context()), updates)
		if err != nil {
			respondError(w, err)
			return
		}

		respond(w, http.StatusOK, p)
	}
}

// RegisterPush stores the device's push-subscription identifier so follow
// notifications can reach it.
func RegisterPush(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OnesignalID string `json:"onesignal_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respond(w, http.StatusBadRequest, map[string]string{"error": "malformed subscription"})
			return
		}

		updates := domain.ProfileUpdate{OnesignalID: &body.OnesignalID}
		if _, err := handler.sessions.UpdateProfile(r.Context(), Token(r.Context()), updates); err != nil {
			respondError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func Dashboard(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := GetSession(r.Context())
		respond(w, http.StatusOK, map[string]any{
			"status": "ok",
			"role":   s.Role(),
		})
	}
}
