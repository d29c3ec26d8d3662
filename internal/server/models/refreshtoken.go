package models

import "time"

// RefreshToken is a server-issued opaque token used to obtain a new
// access/refresh token pair.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
