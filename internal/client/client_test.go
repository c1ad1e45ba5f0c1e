package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playlister/api/internal/avatar"
)

// fakeAPI is a minimal in-memory stand-in for the auth endpoints, enough to
// exercise cookie persistence and the state machine.
type fakeAPI struct {
	mu       sync.Mutex
	users    map[string]fakeAccount // keyed by email
	sessions map[string]string      // cookie value -> email
	requests int
	nextID   int
}

type fakeAccount struct {
	displayName string
	password    string
	avatar      string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users:    make(map[string]fakeAccount),
		sessions: make(map[string]string),
	}
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", f.register)
	mux.HandleFunc("POST /api/auth/login", f.login)
	mux.HandleFunc("GET /api/auth/logout", f.logout)
	mux.HandleFunc("GET /api/auth/loggedIn", f.loggedIn)
	mux.HandleFunc("PUT /api/auth/edit-account", f.editAccount)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeAPI) sessionEmail(r *http.Request) (string, bool) {
	cookie, err := r.Cookie("token")
	if err != nil || cookie.Value == "" {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.sessions[cookie.Value]
	return email, ok
}

func (f *fakeAPI) startSession(w http.ResponseWriter, email string) {
	f.mu.Lock()
	f.nextID++
	token := fmt.Sprintf("session-%d", f.nextID)
	f.sessions[token] = email
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "token", Value: token, Path: "/", HttpOnly: true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errorMessage": "Invalid request payload."})
		return
	}

	f.mu.Lock()
	_, exists := f.users[req["email"]]
	if !exists {
		f.users[req["email"]] = fakeAccount{
			displayName: req["displayName"],
			password:    req["password"],
			avatar:      req["avatar"],
		}
	}
	f.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errorMessage": "An account with this email address already exists."})
		return
	}

	f.startSession(w, req["email"])
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    UserInfo{DisplayName: req["displayName"], Email: req["email"], Avatar: req["avatar"]},
	})
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errorMessage": "Invalid request payload."})
		return
	}

	f.mu.Lock()
	account, ok := f.users[req["email"]]
	f.mu.Unlock()

	if !ok || account.password != req["password"] {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errorMessage": "Wrong email or password provided."})
		return
	}

	f.startSession(w, req["email"])
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    UserInfo{DisplayName: account.displayName, Email: req["email"]},
	})
}

func (f *fakeAPI) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *fakeAPI) loggedIn(w http.ResponseWriter, r *http.Request) {
	email, ok := f.sessionEmail(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"loggedIn": false, "user": nil})
		return
	}

	f.mu.Lock()
	account := f.users[email]
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"loggedIn": true,
		"user":     UserInfo{DisplayName: account.displayName, Email: email, Avatar: account.avatar},
	})
}

func (f *fakeAPI) editAccount(w http.ResponseWriter, r *http.Request) {
	email, ok := f.sessionEmail(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errorMessage": "You must be logged in to edit your account."})
		return
	}

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errorMessage": "Invalid request payload."})
		return
	}

	f.mu.Lock()
	account := f.users[email]
	account.displayName = req["displayName"]
	account.avatar = req["avatar"]
	f.users[email] = account
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Account updated successfully.",
		"user":    UserInfo{DisplayName: account.displayName, Email: email, Avatar: account.avatar},
	})
}

func avatarPNG(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return bytes.NewReader(buf.Bytes())
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	c, err := New(server.URL)
	require.NoError(t, err)
	return c, api
}

func TestClientRegister_CookiePersistsAcrossCalls(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	err := c.Register(ctx, "Alice", "alice@x.com", "correct horse", "correct horse", avatarPNG(t, avatar.Width, avatar.Height))
	require.NoError(t, err)

	snap := c.State()
	assert.True(t, snap.LoggedIn)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Alice", snap.User.DisplayName)
	assert.Empty(t, snap.LastError)

	// The session cookie from registration authenticates the next call.
	refreshed, err := c.RefreshLoggedIn(ctx)
	require.NoError(t, err)
	assert.True(t, refreshed.LoggedIn)
	require.NotNil(t, refreshed.User)
	assert.Equal(t, "alice@x.com", refreshed.User.Email)
}

func TestClientRegister_AvatarGateBlocksBeforeNetwork(t *testing.T) {
	c, api := newTestClient(t)

	err := c.Register(context.Background(), "Alice", "alice@x.com", "correct horse", "correct horse", avatarPNG(t, 100, 100))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "200x200")

	snap := c.State()
	assert.False(t, snap.LoggedIn)
	assert.Contains(t, snap.LastError, "200x200")
	assert.Equal(t, 0, api.requestCount(), "a rejected avatar must never reach the server")
}

func TestClientLogin_FailureRecordsMessage(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.Login(context.Background(), "nobody@x.com", "whatever!")
	require.Error(t, err)

	snap := c.State()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.User)
	assert.Equal(t, "Wrong email or password provided.", snap.LastError)
}

func TestClientLogout_ResetsState(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "Alice", "alice@x.com", "correct horse", "correct horse", avatarPNG(t, avatar.Width, avatar.Height)))
	require.True(t, c.State().LoggedIn)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, SessionSnapshot{}, c.State())

	// The cleared cookie no longer authenticates.
	refreshed, err := c.RefreshLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, refreshed.LoggedIn)
}

func TestClientEditAccount_RefreshesIdentity(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "Alice", "alice@x.com", "correct horse", "correct horse", avatarPNG(t, avatar.Width, avatar.Height)))

	err := c.EditAccount(ctx, "Alice Cooper", avatarPNG(t, avatar.Width, avatar.Height), "", "")
	require.NoError(t, err)

	snap := c.State()
	require.NotNil(t, snap.User)
	assert.Equal(t, "Alice Cooper", snap.User.DisplayName)
}

func TestClientEditAccount_RequiresSession(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.EditAccount(context.Background(), "Alice", avatarPNG(t, avatar.Width, avatar.Height), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You must be logged in")
}
