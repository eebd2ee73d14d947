package models

import "time"

// User is a stored credential record. PasswordHash is a bcrypt hash, so the
// salt travels inside it.
type User struct {
	UserName     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
