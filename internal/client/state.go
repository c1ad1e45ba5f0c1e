package client

import "sync"

// UserInfo is the public slice of a user the API returns.
type UserInfo struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
}

// SessionSnapshot answers "am I logged in, and as whom". LastError carries
// the most recent auth failure message, cleared by any successful transition.
type SessionSnapshot struct {
	User      *UserInfo
	LoggedIn  bool
	LastError string
}

// transitionKind is the closed set of session state transitions. Every auth
// call maps to exactly one kind; the switch in apply is exhaustive over them.
type transitionKind int

const (
	transitionGetLoggedIn transitionKind = iota
	transitionLogin
	transitionLoginError
	transitionLogout
	transitionRegister
	transitionRegisterError
)

type transition struct {
	kind     transitionKind
	user     *UserInfo
	loggedIn bool
	message  string
}

// SessionState is the process-wide holder of the current session snapshot.
// Updates always replace the whole snapshot so readers never observe a torn
// mix of old and new fields.
type SessionState struct {
	mu   sync.RWMutex
	snap SessionSnapshot
}

// NewSessionState starts logged-out.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Snapshot returns a copy of the current state. Callers must re-fetch rather
// than assume it stays fresh.
func (s *SessionState) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *SessionState) apply(t transition) {
	var next SessionSnapshot

	switch t.kind {
	case transitionGetLoggedIn:
		next = SessionSnapshot{User: t.user, LoggedIn: t.loggedIn}
	case transitionLogin, transitionRegister:
		next = SessionSnapshot{User: t.user, LoggedIn: true}
	case transitionLoginError, transitionRegisterError:
		next = SessionSnapshot{LastError: t.message}
	case transitionLogout:
		next = SessionSnapshot{}
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
}
