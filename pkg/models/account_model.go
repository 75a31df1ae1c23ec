package models

import "time"

// Account maps to table `accounts`. Balance is in minor currency units and never negative.
type Account struct {
	ID        int64
	UserID    int64
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
