// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account holder. Email doubles as the login and as the value
// other users put on a file's collaborator list to share with this user.
type User struct {
	ID           string
	Email        string
	AccountID    string
	PasswordHash []byte
	CreatedAt    time.Time
}
