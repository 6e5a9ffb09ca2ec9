package entity

import (
	"database/sql"
	"time"
)

type Contact struct {
	ID          uint64
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	DateOfBirth time.Time
	Note        sql.NullString
	UserID      uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
