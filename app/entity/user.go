package entity

import (
	"database/sql"
	"time"
)

// Role is persisted as a plain string code in the users table.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Avatar       sql.NullString
	RefreshToken sql.NullString
	IsActive     bool
	IsConfirmed  bool
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
