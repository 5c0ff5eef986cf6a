package webhook

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/huviapp/huvi/internal/config"
	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/mocks"
	"github.com/huviapp/huvi/internal/push"
)

const followInsert = `{
	"type": "INSERT",
	"table": "follows",
	"record": {"follower_id": "u1", "following_id": "u2"}
}`

func newPushClient(t *testing.T, endpoint string) *push.Client {
	t.Helper()
	c, err := push.New(&config.Configuration{
		PushURL:         endpoint,
		OneSignalAppID:  "app-1",
		OneSignalAPIKey: "key-1",
	}, &http.Client{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return c
}

func deliver(h *Handler, body, secret string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/hooks/events", strings.NewReader(body))
	if secret != "" {
		r.Header.Set(SecretHeader, secret)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestDeliversNotification(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		received = string(buf)
		w.Write([]byte(`{"id":"n-1"}`))
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("player-2", nil)
	d.EXPECT().GetFullName(gomock.Any(), "u1").Return("Sarah", nil)

	w := deliver(New(d, newPushClient(t, server.URL), ""), followInsert, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body)
	}
	if !strings.Contains(received, "player-2") {
		t.Errorf("expected the notification to target the followed user's device, got %s", received)
	}
	if !strings.Contains(received, "Sarah started following you.") {
		t.Errorf("expected the follower's name in the message, got %s", received)
	}
	if w.Body.String() != `{"id":"n-1"}` {
		t.Errorf("expected the provider body verbatim, got %s", w.Body)
	}
}

func TestFallbackNameWhenLookupFails(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		received = string(buf)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("player-2", nil)
	d.EXPECT().GetFullName(gomock.Any(), "u1").Return("", db.ErrNotFound)

	w := deliver(New(d, newPushClient(t, server.URL), ""), followInsert, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(received, "Someone started following you.") {
		t.Errorf("expected the fallback name, got %s", received)
	}
}

func TestIgnoresOtherEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)

	tests := []string{
		`{"type": "UPDATE", "table": "follows", "record": {"follower_id": "u1", "following_id": "u2"}}`,
		`{"type": "INSERT", "table": "profiles", "record": {}}`,
	}
	for _, body := range tests {
		w := deliver(New(d, nil, ""), body, "")
		if w.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		if !strings.Contains(w.Body.String(), "ignored") {
			t.Errorf("expected the event to be ignored, got %s", w.Body)
		}
	}
}

func TestSkipsUnsubscribedUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("", nil)

	w := deliver(New(d, nil, ""), followInsert, "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "skipped") {
		t.Errorf("expected the event to be skipped, got %s", w.Body)
	}
}

func TestSkipsMissingProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("", db.ErrNotFound)

	w := deliver(New(d, nil, ""), followInsert, "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestFailureReporting(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("", errors.New("disk I/O error"))

	w := deliver(New(d, nil, ""), followInsert, "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Errorf("expected an error payload, got %s", w.Body)
	}
}

func TestMalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)

	w := deliver(New(d, nil, ""), `{"type":`, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestSecretCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	h := New(d, nil, "hunter2")

	if w := deliver(h, followInsert, ""); w.Code != http.StatusForbidden {
		t.Errorf("expected status %d without the secret, got %d", http.StatusForbidden, w.Code)
	}
	if w := deliver(h, followInsert, "wrong"); w.Code != http.StatusForbidden {
		t.Errorf("expected status %d with a bad secret, got %d", http.StatusForbidden, w.Code)
	}

	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("", nil)
	if w := deliver(h, followInsert, "hunter2"); w.Code != http.StatusOK {
		t.Errorf("expected status %d with the right secret, got %d", http.StatusOK, w.Code)
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	ctrl := gomock.NewController(t)
	d := mocks.NewMockDB(ctrl)
	d.EXPECT().GetPushID(gomock.Any(), "u2").Return("player-2", nil)
	d.EXPECT().GetFullName(gomock.Any(), "u1").Return("Sarah", nil)

	w := deliver(New(d, newPushClient(t, server.URL), ""), followInsert, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d when the provider is unreachable, got %d", http.StatusInternalServerError, w.Code)
	}
}
