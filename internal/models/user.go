package model

import (
	"time"
)

// User is an account row. PasswordHash never leaves the server.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	TotalTaps    int64      `json:"total_taps"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActive   *time.Time `json:"last_active,omitempty"`
}

// LoginStat is the one-to-one login bookkeeping row of a user.
type LoginStat struct {
	UserID     int64     `json:"user_id"`
	LastLogin  time.Time `json:"last_login"`
	LoginCount int64     `json:"login_count"`
}

// RegisteredUser is the body of a successful registration.
type RegisteredUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	TotalTaps int64     `json:"total_taps"`
	CreatedAt time.Time `json:"created_at"`
}

// LoggedInUser is the body of a successful login.
type LoggedInUser struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	TotalTaps  int64     `json:"total_taps"`
	LoginCount int64     `json:"login_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// TapResult is returned after a successful tap.
type TapResult struct {
	Username  string `json:"username"`
	TotalTaps int64  `json:"total_taps"`
}

// UserStats aggregates a user's counters for the stats screen.
type UserStats struct {
	Username      string     `json:"username"`
	TotalTaps     int64      `json:"total_taps"`
	CreatedAt     time.Time  `json:"created_at"`
	LastActive    time.Time  `json:"last_active"`
	TapCountToday int64      `json:"tap_count_today"`
	LastLogin     *time.Time `json:"last_login"`
	LoginCount    int64      `json:"login_count"`
}
