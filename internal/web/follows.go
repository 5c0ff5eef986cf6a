package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func Profile(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		p, err := handler.db.GetProfile(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}

		// The subscription identifier stays private.
		p.OnesignalID = ""
		respond(w, http.StatusOK, p)
	}
}

func Follow(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := GetSession(r.Context())
		target := chi.URLParam(r, "id")

		if target == s.User.ID {
			respond(w, http.StatusBadRequest, map[string]string{"error": "cannot follow yourself"})
			return
		}

		created, err := handler.db.InsertFollow(r.Context(), s.User.ID, target)
		if err != nil {
			respondError(w, err)
			return
		}

		if created {
			if err = handler.notifier.FollowCreated(r.Context(), s.User.ID, target); err != nil {
				// The follow itself succeeded; delivery is best-effort here.
				log.Error().Err(err).Str("following", target).Msg("failed to enqueue follow notification")
			}
		}

		respond(w, http.StatusCreated, map[string]string{"status": "following"})
	}
}

func Unfollow(handler *Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := GetSession(r.Context())
		target := chi.URLParam(r, "id")

		if err := handler.db.DeleteFollow(r.Context(), s.User.ID, target); err != nil {
			respondError(w, err)
			return
		}

		respond(w, http.StatusOK, map[string]string{"status": "unfollowed"})
	}
}
