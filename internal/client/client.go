// Package client is a Go consumer of the Playlister auth API. It carries the
// session cookie between calls the way a browser would and keeps a
// SessionState snapshot refreshed after every auth operation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"playlister/api/internal/avatar"
)

type Client struct {
	base  *url.URL
	http  *http.Client
	state *SessionState
}

// New builds a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Client{
		base: base,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		state: NewSessionState(),
	}, nil
}

// State returns the current session snapshot.
func (c *Client) State() SessionSnapshot {
	return c.state.Snapshot()
}

type apiResponse struct {
	Success      bool      `json:"success"`
	LoggedIn     bool      `json:"loggedIn"`
	User         *UserInfo `json:"user"`
	ErrorMessage string    `json:"errorMessage"`
}

// Register validates avatarImage through the client-side admission gate,
// then submits the registration. On success the server's session cookie is
// retained and the local state reflects the new identity.
func (c *Client) Register(ctx context.Context, displayName, email, password, passwordConfirm string, avatarImage io.Reader) error {
	avatarURI, err := avatar.Validate(avatarImage)
	if err != nil {
		c.state.apply(transition{kind: transitionRegisterError, message: err.Error()})
		return err
	}

	status, resp, err := c.postJSON(ctx, "/api/auth/register", map[string]string{
		"displayName":     displayName,
		"email":           email,
		"password":        password,
		"passwordConfirm": passwordConfirm,
		"avatar":          avatarURI,
	})
	if err != nil {
		c.state.apply(transition{kind: transitionRegisterError, message: err.Error()})
		return err
	}

	if status != http.StatusOK {
		message := resp.ErrorMessage
		if message == "" {
			message = "Registration failed"
		}
		c.state.apply(transition{kind: transitionRegisterError, message: message})
		return fmt.Errorf("register: %s", message)
	}

	c.state.apply(transition{kind: transitionRegister, user: resp.User})
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	status, resp, err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		c.state.apply(transition{kind: transitionLoginError, message: err.Error()})
		return err
	}

	if status != http.StatusOK {
		message := resp.ErrorMessage
		if message == "" {
			message = "Login failed"
		}
		c.state.apply(transition{kind: transitionLoginError, message: message})
		return fmt.Errorf("login: %s", message)
	}

	c.state.apply(transition{kind: transitionLogin, user: resp.User})
	return nil
}

// Logout clears the session. Safe to call without one.
func (c *Client) Logout(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("logout: unexpected status %d", status)
	}

	c.state.apply(transition{kind: transitionLogout})
	return nil
}

// RefreshLoggedIn asks the server who we are and replaces the local snapshot
// with the answer.
func (c *Client) RefreshLoggedIn(ctx context.Context) (SessionSnapshot, error) {
	status, resp, err := c.do(ctx, http.MethodGet, "/api/auth/loggedIn", nil)
	if err != nil {
		return c.state.Snapshot(), err
	}
	if status != http.StatusOK {
		return c.state.Snapshot(), fmt.Errorf("loggedIn: unexpected status %d", status)
	}

	c.state.apply(transition{kind: transitionGetLoggedIn, user: resp.User, loggedIn: resp.LoggedIn})
	return c.state.Snapshot(), nil
}

// EditAccount updates display name and avatar, optionally changing the
// password when both password fields are supplied. The avatar goes through
// the same admission gate as registration.
func (c *Client) EditAccount(ctx context.Context, displayName string, avatarImage io.Reader, password, passwordConfirm string) error {
	avatarURI, err := avatar.Validate(avatarImage)
	if err != nil {
		return err
	}

	body := map[string]string{
		"displayName":     displayName,
		"avatar":          avatarURI,
		"password":        password,
		"passwordConfirm": passwordConfirm,
	}

	status, resp, err := c.request(ctx, http.MethodPut, "/api/auth/edit-account", body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		message := resp.ErrorMessage
		if message == "" {
			message = "Edit failed"
		}
		return fmt.Errorf("edit account: %s", message)
	}

	// The server is authoritative for what actually changed.
	if _, err := c.RefreshLoggedIn(ctx); err != nil {
		return err
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (int, apiResponse, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (int, apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return 0, apiResponse{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, apiResponse{}, err
	}
	defer res.Body.Close()

	var parsed apiResponse
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, apiResponse{}, err
	}
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return res.StatusCode, apiResponse{}, fmt.Errorf("decode response: %w", err)
		}
	}
	return res.StatusCode, parsed, nil
}

func (c *Client) request(ctx context.Context, method, path string, body any) (int, apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, apiResponse{}, err
	}
	return c.do(ctx, method, path, bytes.NewReader(payload))
}
