// Package account implements the account directory: registration, lookup,
// full and partial updates, deletion, and credential verification against a
// pluggable store.
package account

import "time"

// Account is a stored user account. The password digest is excluded from
// every JSON projection; only the store ever sees it.
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
