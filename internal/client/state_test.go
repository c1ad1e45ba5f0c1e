package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionState_StartsLoggedOut(t *testing.T) {
	state := NewSessionState()

	snap := state.Snapshot()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.LastError)
}

func TestSessionState_LoginReplacesWholeSnapshot(t *testing.T) {
	state := NewSessionState()

	state.apply(transition{kind: transitionLoginError, message: "Wrong email or password provided."})
	assert.Equal(t, "Wrong email or password provided.", state.Snapshot().LastError)

	alice := &UserInfo{DisplayName: "Alice", Email: "alice@x.com"}
	state.apply(transition{kind: transitionLogin, user: alice})

	snap := state.Snapshot()
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, alice, snap.User)
	assert.Empty(t, snap.LastError, "a successful login clears the previous failure")
}

func TestSessionState_ErrorClearsIdentity(t *testing.T) {
	state := NewSessionState()
	state.apply(transition{kind: transitionLogin, user: &UserInfo{Email: "alice@x.com"}})

	state.apply(transition{kind: transitionRegisterError, message: "boom"})

	snap := state.Snapshot()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.User, "a failed transition must not keep the stale identity")
	assert.Equal(t, "boom", snap.LastError)
}

func TestSessionState_LogoutZeroesEverything(t *testing.T) {
	state := NewSessionState()
	state.apply(transition{kind: transitionLogin, user: &UserInfo{Email: "alice@x.com"}})

	state.apply(transition{kind: transitionLogout})

	assert.Equal(t, SessionSnapshot{}, state.Snapshot())
}

func TestSessionState_GetLoggedInMirrorsServerAnswer(t *testing.T) {
	state := NewSessionState()

	state.apply(transition{kind: transitionGetLoggedIn, user: &UserInfo{Email: "alice@x.com"}, loggedIn: true})
	assert.True(t, state.Snapshot().LoggedIn)

	state.apply(transition{kind: transitionGetLoggedIn, user: nil, loggedIn: false})
	snap := state.Snapshot()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.User)
}
