// Package models holds the rows stored by the sync server.
package models

import "time"

// User is an account. PasswordHash is argon2id over the password and Salt.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}
