// Package session holds the bearer token and cached user profile,
// persisted across restarts via the credential store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/credential"
	"github.com/nhle/todoterm/internal/model"
)

// Credential store keys.
const (
	tokenKey   = "api_token"
	profileKey = "profile"
)

// AuthAPI is the slice of the api client the session manager uses.
type AuthAPI interface {
	Register(ctx context.Context, data api.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, data api.LoginRequest) (*api.AuthResponse, error)
	Verify(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
}

// Manager owns the current authentication state. It implements
// api.TokenSource so the client attaches the bearer header whenever a
// token is present.
type Manager struct {
	mu    sync.Mutex
	creds credential.Store
	auth  AuthAPI
	token string
	user  *model.User
}

// NewManager restores any persisted session from the credential store.
// A cached profile that fails to parse is treated as absent.
func NewManager(creds credential.Store) *Manager {
	m := &Manager{creds: creds}

	if token, err := creds.Get(tokenKey); err == nil {
		m.token = token
	}
	if raw, err := creds.Get(profileKey); err == nil {
		var user model.User
		if json.Unmarshal([]byte(raw), &user) == nil {
			m.user = &user
		}
	}

	return m
}

// SetAuthAPI attaches the api client used for auth calls. Split from
// NewManager because the client itself needs the manager as its
// token source.
func (m *Manager) SetAuthAPI(auth AuthAPI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

// Token returns the current bearer token. Satisfies api.TokenSource.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Authenticated reports whether a token is held. It does not imply
// the token is still accepted by the server; see Verify.
func (m *Manager) Authenticated() bool {
	_, ok := m.Token()
	return ok
}

// CurrentUser returns the cached profile, or nil when none is known.
func (m *Manager) CurrentUser() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Register creates a new account. It does not log in.
func (m *Manager) Register(ctx context.Context, data api.RegisterRequest) (*model.User, error) {
	auth := m.authAPI()
	if auth == nil {
		return nil, errors.New("session: no auth api attached")
	}
	return auth.Register(ctx, data)
}

// Login authenticates and persists the token and profile on success.
func (m *Manager) Login(ctx context.Context, data api.LoginRequest) (*model.User, error) {
	auth := m.authAPI()
	if auth == nil {
		return nil, errors.New("session: no auth api attached")
	}

	resp, err := auth.Login(ctx, data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.token = resp.AccessToken
	m.user = &resp.User
	m.mu.Unlock()

	// Persistence is best-effort: a failed keyring write only costs a
	// re-login next start.
	_ = m.creds.Set(tokenKey, resp.AccessToken)
	if raw, err := json.Marshal(resp.User); err == nil {
		_ = m.creds.Set(profileKey, string(raw))
	}

	return &resp.User, nil
}

// Logout clears the token and cached profile, in memory and on disk.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.creds.Delete(tokenKey); err != nil {
		return err
	}
	return m.creds.Delete(profileKey)
}

// Verify probes the backend with the current token.
func (m *Manager) Verify(ctx context.Context) bool {
	if !m.Authenticated() {
		return false
	}
	auth := m.authAPI()
	if auth == nil {
		return false
	}
	return auth.Verify(ctx) == nil
}

// RefreshProfile fetches the profile from the backend and re-caches it.
func (m *Manager) RefreshProfile(ctx context.Context) (*model.User, error) {
	auth := m.authAPI()
	if auth == nil {
		return nil, errors.New("session: no auth api attached")
	}

	user, err := auth.Me(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	if raw, err := json.Marshal(user); err == nil {
		_ = m.creds.Set(profileKey, string(raw))
	}

	return user, nil
}

func (m *Manager) authAPI() AuthAPI {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth
}
