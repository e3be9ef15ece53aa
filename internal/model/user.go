package model

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusSuspended   UserStatus = "suspended"
	UserStatusDeactivated UserStatus = "deactivated"
)

func (s UserStatus) String() string { return string(s) }

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusSuspended || s == UserStatusDeactivated
}

// ParseUserStatus normalizes input; returns (value, true) if valid.
func ParseUserStatus(s string) (UserStatus, bool) {
	v := UserStatus(strings.ToLower(strings.TrimSpace(s)))
	return v, v.Valid()
}

// User is the DB entity owned by the user-management side.
type User struct {
	ID        string     `db:"id"` // ULID
	Email     string     `db:"email"`
	Status    UserStatus `db:"status"`
	Role      string     `db:"role"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// UserProfile is the journey-side read model of a user, kept in sync
// through user-created / user-status-changed events.
type UserProfile struct {
	UserID    string     `db:"user_id"`
	Email     string     `db:"email"`
	Status    UserStatus `db:"status"`
	UpdatedAt time.Time  `db:"updated_at"`
}
