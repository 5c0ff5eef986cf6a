package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"codeberg.org/gruf/go-mutexes"
	"github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/domain"
	"github.com/huviapp/huvi/internal/provider"
	"github.com/huviapp/huvi/internal/validate"
)

var ErrInvalidInput = errors.New("invalid")

// sessionTTL bounds how long a resolved session is trusted before the token
// is validated with the provider again, so provider-side expiry or revocation
// takes effect at the next re-validation rather than never.
const sessionTTL = 5 * time.Minute

type entry struct {
	session *Session
	expires time.Time
}

// Manager implements Service on top of the credential provider and the local
// profile store. Cached sessions are never mutated after publication; readers
// hold the pointer without a lock, so every change replaces the map entry with
// a fresh value.
type Manager struct {
	db       db.DB
	provider provider.Provider
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]entry
	// locks serializes bootstraps per token, so concurrent requests arriving
	// during startup share one provider round-trip instead of racing.
	locks mutexes.MutexMap
}

func NewManager(d db.DB, p provider.Provider) *Manager {
	return &Manager{
		db:       d,
		provider: p,
		ttl:      sessionTTL,
		sessions: map[string]entry{},
	}
}

func (m *Manager) Resolve(ctx context.Context, token string) *Session {
	if token == "" {
		return &Session{}
	}

	if s := m.get(token); s != nil {
		return s
	}

	unlock := m.locks.Lock(token)
	defer unlock()

	// Another request may have finished the bootstrap while we waited.
	if s := m.get(token); s != nil {
		return s
	}

	ident, err := m.provider.GetUser(ctx, token)
	if err != nil {
		var authErr *provider.AuthError
		if errors.As(err, &authErr) {
			log.Debug().Int("status", authErr.Status).Msg("token rejected by auth provider")
		} else {
			log.Warn().Err(err).Msg("session lookup failed; treating client as signed out")
		}
		// Rejected or unverifiable tokens are not cached: anyone can send
		// arbitrary bearer tokens, and a transient provider failure should
		// not stick to the client.
		return &Session{}
	}

	s := &Session{User: &ident, Loading: true}
	m.fetchProfile(ctx, s)
	s.Loading = false

	m.put(token, s)
	return s
}

// fetchProfile loads the profile row for the session's user. A missing row
// clears the profile; any other failure keeps the last known value, so a
// transient error never wipes state the client already had.
func (m *Manager) fetchProfile(ctx context.Context, s *Session) {
	if s.User == nil {
		return
	}

	p, err := m.db.GetProfile(ctx, s.User.ID)
	switch {
	case errors.Is(err, db.ErrNotFound):
		s.Profile = nil
	case err != nil:
		log.Warn().Err(err).Str("user", s.User.ID).Msg("profile not ready")
	default:
		s.Profile = &p
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) (string, *Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := errors.Join(validate.Email(email), validate.Password(password)); err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	ps, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	s := &Session{User: &ps.User}
	m.fetchProfile(ctx, s)
	m.put(ps.AccessToken, s)
	return ps.AccessToken, s, nil
}

func (m *Manager) Register(ctx context.Context, email, password, fullName string) (provider.SignUpResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if err := validate.SignUpForm(email, password, fullName); err != nil {
		return provider.SignUpResult{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	res, err := m.provider.SignUp(ctx, email, password, fullName)
	if err != nil {
		return provider.SignUpResult{}, err
	}

	// Provision the profile row right away. Failure is tolerated: the session
	// simply runs without a profile until the row exists.
	if err := m.db.CreateProfile(ctx, domain.Profile{ID: res.User.ID, FullName: fullName}); err != nil {
		log.Warn().Err(err).Str("user", res.User.ID).Msg("profile row not created")
	}

	if res.Session != nil {
		s := &Session{User: &res.User}
		m.fetchProfile(ctx, s)
		m.put(res.Session.AccessToken, s)
	}
	return res, nil
}

func (m *Manager) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	// Fail open: a broken remote sign-out must not keep the client signed in.
	if err := m.provider.SignOut(ctx, token); err != nil {
		log.Warn().Err(err).Msg("remote sign-out failed; clearing local session anyway")
	}

	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

func (m *Manager) UpdateProfile(ctx context.Context, token string, updates domain.ProfileUpdate) (*domain.Profile, error) {
	s := m.Resolve(ctx, token)
	if !s.Authenticated() {
		return nil, nil
	}

	if updates.Role != nil && s.Role() != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only administrators may change roles", ErrForbidden)
	}

	if err := m.db.UpdateProfile(ctx, s.User.ID, updates); err != nil {
		return nil, err
	}

	// Replace the cache entry with a fresh session instead of touching the
	// published one; other requests may be reading it right now.
	user := *s.User
	fresh := &Session{User: &user}
	if s.Profile != nil {
		p := *s.Profile
		if updates.FullName != nil {
			p.FullName = *updates.FullName
		}
		if updates.OnesignalID != nil {
			p.OnesignalID = *updates.OnesignalID
		}
		if updates.Role != nil {
			p.Role = *updates.Role
		}
		fresh.Profile = &p
	} else {
		// The write just matched a row that was never loaded, likely after a
		// transient fetch failure. Read it back rather than guessing at the
		// fields the update didn't touch.
		m.fetchProfile(ctx, fresh)
	}
	m.put(token, fresh)

	if fresh.Profile == nil {
		return nil, nil
	}
	merged := *fresh.Profile
	return &merged, nil
}

func (m *Manager) get(token string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[token]
	if !ok || time.Now().After(e.expires) {
		return nil
	}
	return e.session
}

func (m *Manager) put(token string, s *Session) {
	now := time.Now()
	m.mu.Lock()
	for k, e := range m.sessions {
		if now.After(e.expires) {
			delete(m.sessions, k)
		}
	}
	m.sessions[token] = entry{session: s, expires: now.Add(m.ttl)}
	m.mu.Unlock()
}
