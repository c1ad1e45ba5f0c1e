package service

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"playlister/api/internal/apperr"
	"playlister/api/internal/config"
	"playlister/api/internal/ids"
	"playlister/api/internal/media/sniffer"
	"playlister/api/internal/models"
	"playlister/api/internal/repository"
	"playlister/api/internal/security"
)

// Validation and credential messages are part of the public API contract.
// Login deliberately reports the same text for an unknown email and a wrong
// password so callers cannot enumerate accounts.
const (
	msgMissingFields       = "Please enter all required fields and select an avatar."
	msgMissingCredentials  = "Please enter all required fields."
	msgEmptyDisplayName    = "User name cannot be empty or only whitespace."
	msgInvalidEmail        = "Please enter a valid email address."
	msgShortPassword       = "Password must be at least 8 characters long."
	msgPasswordMismatch    = "Passwords do not match."
	msgInvalidAvatar       = "Invalid avatar format. Please select a valid image."
	msgDuplicateEmail      = "An account with this email address already exists."
	msgDuplicateEmailRace  = "An account with this email already exists."
	msgWrongCredentials    = "Wrong email or password provided."
	msgLoginRequiredToEdit = "You must be logged in to edit your account."
	msgLoginRequired       = "You must be logged in."
	msgUserNotFound        = "User not found."
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the persistence surface AccountService needs. Implemented by
// *repository.UserRepository; tests substitute in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, id string, displayName string, avatarURI string, passwordHash []byte) (models.User, error)
}

// AccountService orchestrates registration, login, session identity, and
// profile edits.
type AccountService struct {
	users UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAccountService(users UserStore, cfg *config.AppConfig, log zerolog.Logger) *AccountService {
	return &AccountService{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

type RegisterInput struct {
	DisplayName     string
	Email           string
	Password        string
	PasswordConfirm string
	Avatar          string
}

// Register validates the submission, persists the user, and mints a session
// token. Nothing is persisted on a validation failure.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (models.User, string, error) {
	if input.DisplayName == "" || input.Email == "" || input.Password == "" ||
		input.PasswordConfirm == "" || input.Avatar == "" {
		return models.User{}, "", apperr.Validation(msgMissingFields)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return models.User{}, "", apperr.Validation(msgEmptyDisplayName)
	}

	if !emailPattern.MatchString(input.Email) {
		return models.User{}, "", apperr.Validation(msgInvalidEmail)
	}

	if len(input.Password) < minPasswordLength {
		return models.User{}, "", apperr.Validation(msgShortPassword)
	}

	if input.Password != input.PasswordConfirm {
		return models.User{}, "", apperr.Validation(msgPasswordMismatch)
	}

	if !sniffer.IsImageDataURI(input.Avatar) {
		return models.User{}, "", apperr.Validation(msgInvalidAvatar)
	}

	email := normalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, "", apperr.Conflict(msgDuplicateEmail)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, "", apperr.Internal("lookup email", err)
	}

	passwordHash, err := security.HashPassword(input.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return models.User{}, "", apperr.Internal("hash password", err)
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Avatar:       input.Avatar,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Two concurrent registrations can both pass the lookup above;
		// the unique index breaks the tie.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, "", apperr.Conflict(msgDuplicateEmailRace)
		}
		return models.User{}, "", apperr.Internal("create user", err)
	}

	token, err := s.signSession(user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Login checks credentials and mints a session token. Unknown email and wrong
// password fail identically.
func (s *AccountService) Login(ctx context.Context, email string, password string) (models.User, string, error) {
	if email == "" || password == "" {
		return models.User{}, "", apperr.Validation(msgMissingCredentials)
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, "", apperr.Auth(msgWrongCredentials)
		}
		return models.User{}, "", apperr.Internal("lookup email", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return models.User{}, "", apperr.Auth(msgWrongCredentials)
	}

	token, err := s.signSession(user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// GetSessionIdentity resolves the request's session cookie to a stored user.
// A missing cookie, a bad token, and a dangling user id all come back as
// "not logged in" rather than an error.
func (s *AccountService) GetSessionIdentity(ctx context.Context, r *http.Request) (models.User, bool, error) {
	userID := security.ResolveSession(r, s.VerifyToken)
	if userID == "" {
		return models.User{}, false, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, apperr.Internal("lookup session user", err)
	}

	return user, true, nil
}

type EditAccountInput struct {
	DisplayName     string
	Avatar          string
	Password        string
	PasswordConfirm string
}

// EditAccount re-validates display name and avatar exactly as Register does
// and overwrites them together. The password change is optional but
// all-or-nothing: supplying either password field without a matching pair
// rejects the whole edit.
func (s *AccountService) EditAccount(ctx context.Context, userID string, input EditAccountInput) (models.User, error) {
	if userID == "" {
		return models.User{}, apperr.Auth(msgLoginRequiredToEdit)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return models.User{}, apperr.Validation(msgEmptyDisplayName)
	}

	if !sniffer.IsImageDataURI(input.Avatar) {
		return models.User{}, apperr.Validation(msgInvalidAvatar)
	}

	var passwordHash []byte
	if input.Password != "" || input.PasswordConfirm != "" {
		if len(input.Password) < minPasswordLength {
			return models.User{}, apperr.Validation(msgShortPassword)
		}
		if input.Password != input.PasswordConfirm {
			return models.User{}, apperr.Validation(msgPasswordMismatch)
		}

		hash, err := security.HashPassword(input.Password, s.cfg.Security.BcryptCost)
		if err != nil {
			return models.User{}, apperr.Internal("hash password", err)
		}
		passwordHash = hash
	}

	user, err := s.users.UpdateProfile(ctx, userID, displayName, input.Avatar, passwordHash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound(msgUserNotFound)
		}
		return models.User{}, apperr.Internal("update profile", err)
	}

	return user, nil
}

// UserByID loads the user behind a resolved session id. A dangling id reads
// as logged-out, not as a fault.
func (s *AccountService) UserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.Auth(msgLoginRequired)
		}
		return models.User{}, apperr.Internal("lookup session user", err)
	}
	return user, nil
}

// VerifyToken is the TokenVerifier wired into session extraction and the
// auth middleware.
func (s *AccountService) VerifyToken(token string) string {
	return security.VerifySession(token, s.cfg.SessionSecretOrDev())
}

func (s *AccountService) signSession(userID string) (string, error) {
	ttl := s.cfg.Security.SessionTTL
	if ttl <= 0 {
		ttl = security.SessionTTL
	}

	token, err := security.SignSession(userID, s.cfg.SessionSecretOrDev(), ttl)
	if err != nil {
		return "", apperr.Internal("sign session token", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
