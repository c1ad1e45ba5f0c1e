package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playlister/api/internal/middleware"
	"playlister/api/internal/security"
	"playlister/api/internal/service"
)

type registerRequest struct {
	DisplayName     string `json:"displayName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Avatar          string `json:"avatar"`
}

type userResponse struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
}

func (h HandlerSet) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorMessage": "Invalid request payload."})
		return
	}

	user, token, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		DisplayName:     req.DisplayName,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Avatar:          req.Avatar,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	security.SetSessionCookie(c.Writer, token, h.sessionTTL(), h.cfg.IsProduction())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": userResponse{
			DisplayName: user.DisplayName,
			Email:       user.Email,
			Avatar:      user.Avatar,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorMessage": "Invalid request payload."})
		return
	}

	user, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	security.SetSessionCookie(c.Writer, token, h.sessionTTL(), h.cfg.IsProduction())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": userResponse{
			DisplayName: user.DisplayName,
			Email:       user.Email,
		},
	})
}

// Logout clears the session cookie unconditionally; no valid session is
// required and repeating the call is harmless. The token itself is not
// revoked; it ages out at its natural expiry.
func (h HandlerSet) Logout(c *gin.Context) {
	security.ClearSessionCookie(c.Writer, h.cfg.IsProduction())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// LoggedIn reports the session identity. Missing cookie, bad token, and a
// session id with no backing user all respond 200 with loggedIn=false.
func (h HandlerSet) LoggedIn(c *gin.Context) {
	user, loggedIn, err := h.accounts.GetSessionIdentity(c.Request.Context(), c.Request)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if !loggedIn {
		c.JSON(http.StatusOK, gin.H{"loggedIn": false, "user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user": userResponse{
			DisplayName: user.DisplayName,
			Email:       user.Email,
			Avatar:      user.Avatar,
		},
	})
}

type editAccountRequest struct {
	DisplayName     string `json:"displayName"`
	Avatar          string `json:"avatar"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (h HandlerSet) EditAccount(c *gin.Context) {
	var req editAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorMessage": "Invalid request payload."})
		return
	}

	userID := c.GetString(middleware.SessionUserIDKey)

	user, err := h.accounts.EditAccount(c.Request.Context(), userID, service.EditAccountInput{
		DisplayName:     req.DisplayName,
		Avatar:          req.Avatar,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account updated successfully.",
		"user": userResponse{
			DisplayName: user.DisplayName,
			Email:       user.Email,
			Avatar:      user.Avatar,
		},
	})
}
