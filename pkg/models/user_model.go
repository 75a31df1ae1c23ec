package models

import (
	"time"
)

// User maps to table `users`
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// Associations
	Account *Account
}

// Counterparty is the public projection of a User: no credentials.
type Counterparty struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u User) ToCounterparty() Counterparty {
	return Counterparty{ID: u.ID, Username: u.Username}
}
