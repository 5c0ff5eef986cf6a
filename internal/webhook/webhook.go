// Package webhook handles database-change events delivered by the hosting
// backend. One event, one execution: the handler never retries, redelivery is
// the event source's problem.
package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/domain"
	"github.com/huviapp/huvi/internal/push"
)

const (
	eventInsert  = "INSERT"
	followsTable = "follows"

	// SecretHeader carries the shared secret configured at the event source.
	SecretHeader = "X-Webhook-Secret"
)

type Handler struct {
	db     db.DB
	push   *push.Client
	secret string
}

func New(d db.DB, p *push.Client, secret string) *Handler {
	return &Handler{
		db:     d,
		push:   p,
		secret: secret,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" &&
		subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(h.secret)) != 1 {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "bad webhook secret"})
		return
	}

	ctx := r.Context()

	var event domain.FollowEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.fail(w, err)
		return
	}

	// The channel delivers every event class; only new follows matter here.
	if event.Type != eventInsert || event.Table != followsTable {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	playerID, err := h.db.GetPushID(ctx, event.Record.FollowingID)
	if errors.Is(err, db.ErrNotFound) || (err == nil && playerID == "") {
		writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.push.NotifyFollow(ctx, playerID, h.followerName(r, event.Record.FollowerID))
	if err != nil {
		h.fail(w, err)
		return
	}

	// Pass the provider's body through unchanged.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result)
}

// followerName resolves the follower's display name, best-effort. The
// notification goes out either way.
func (h *Handler) followerName(r *http.Request, followerID string) string {
	name, err := h.db.GetFullName(r.Context(), followerID)
	if err != nil || name == "" {
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Warn().Err(err).Str("follower", followerID).Msg("follower name lookup failed")
		}
		return push.FallbackName
	}
	return name
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("follow event handling failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
