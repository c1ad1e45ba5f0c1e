package models

import "time"

// User is the identity record. Avatar is an inline data URI
// (data:image/...;base64,...). PasswordHash is a bcrypt digest; the raw
// password is never stored.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	DisplayName  string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
