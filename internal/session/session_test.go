package session_test

import (
	"context"
	"testing"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/credential"
	"github.com/nhle/todoterm/internal/session"
	"github.com/nhle/todoterm/tests/testutil"
)

// memStore is an in-memory credential.Store.
type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", credential.ErrNotFound
	}
	return v, nil
}

func (s *memStore) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.values, key)
	return nil
}

func newSession(t *testing.T, creds credential.Store) (*session.Manager, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	sess := session.NewManager(creds)
	client := api.NewClient(backend.URL(), sess)
	sess.SetAuthAPI(client)
	return sess, backend
}

func TestLoginPersistsTokenAndProfile(t *testing.T) {
	creds := newMemStore()
	sess, _ := newSession(t, creds)

	if sess.Authenticated() {
		t.Fatal("fresh session must not be authenticated")
	}

	user, err := sess.Login(context.Background(), api.LoginRequest{
		Username: "me", Password: "secret",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "me" {
		t.Errorf("username = %q", user.Username)
	}
	if !sess.Authenticated() {
		t.Error("expected authenticated after login")
	}

	if creds.values["api_token"] != testutil.Token {
		t.Errorf("persisted token = %q", creds.values["api_token"])
	}
	if creds.values["profile"] == "" {
		t.Error("profile not persisted")
	}
}

func TestSessionRestoredFromCredentialStore(t *testing.T) {
	creds := newMemStore()
	creds.values["api_token"] = testutil.Token
	creds.values["profile"] = `{"id":1,"email":"me@example.com","username":"me","is_active":true}`

	sess, _ := newSession(t, creds)

	if !sess.Authenticated() {
		t.Fatal("expected restored session to be authenticated")
	}
	user := sess.CurrentUser()
	if user == nil || user.Username != "me" {
		t.Errorf("restored user = %+v", user)
	}
	if !sess.Verify(context.Background()) {
		t.Error("expected stored token to verify against backend")
	}
}

func TestMalformedCachedProfileTreatedAsAbsent(t *testing.T) {
	creds := newMemStore()
	creds.values["api_token"] = testutil.Token
	creds.values["profile"] = "{not json"

	sess, _ := newSession(t, creds)

	if sess.CurrentUser() != nil {
		t.Error("malformed profile must be ignored")
	}
	if !sess.Authenticated() {
		t.Error("token restore must survive a bad profile")
	}
}

func TestLoginFailureLeavesSessionClean(t *testing.T) {
	creds := newMemStore()
	sess, _ := newSession(t, creds)

	_, err := sess.Login(context.Background(), api.LoginRequest{
		Username: "me", Password: "wrong",
	})
	if err == nil {
		t.Fatal("expected login failure")
	}
	if sess.Authenticated() {
		t.Error("failed login must not authenticate")
	}
	if len(creds.values) != 0 {
		t.Errorf("credentials written on failure: %v", creds.values)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	creds := newMemStore()
	sess, _ := newSession(t, creds)

	if _, err := sess.Login(context.Background(), api.LoginRequest{
		Username: "me", Password: "secret",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := sess.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.Authenticated() {
		t.Error("expected unauthenticated after logout")
	}
	if sess.CurrentUser() != nil {
		t.Error("expected no cached profile after logout")
	}
	if len(creds.values) != 0 {
		t.Errorf("credentials remain after logout: %v", creds.values)
	}
}

func TestVerifyWithStaleToken(t *testing.T) {
	creds := newMemStore()
	creds.values["api_token"] = "stale"

	sess, _ := newSession(t, creds)

	if sess.Verify(context.Background()) {
		t.Error("stale token must not verify")
	}
}

func TestRefreshProfileRecaches(t *testing.T) {
	creds := newMemStore()
	sess, _ := newSession(t, creds)

	if _, err := sess.Login(context.Background(), api.LoginRequest{
		Username: "me", Password: "secret",
	}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := sess.RefreshProfile(context.Background())
	if err != nil {
		t.Fatalf("RefreshProfile: %v", err)
	}
	if user.Email != "me@example.com" {
		t.Errorf("email = %q", user.Email)
	}
}
