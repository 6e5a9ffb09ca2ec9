package http

import (
	"errors"
	"strings"
	"time"
)

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RequestEmailRequest struct {
	Email string `json:"email"`
}

type ContactRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
	Note        string `json:"note,omitempty"`
}

func (r *SignupRequest) Validate() error {
	if len(strings.TrimSpace(r.Username)) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < 5 {
		return errors.New("password must be at least 5 characters")
	}
	return nil
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

func (r *RequestEmailRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	return nil
}

func (r *ContactRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("first_name and last_name are required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("a valid email is required")
	}
	if _, err := r.BirthDate(); err != nil {
		return errors.New("date_of_birth must be formatted as YYYY-MM-DD")
	}
	return nil
}

// BirthDate parses the wire date, which is a plain calendar date.
func (r *ContactRequest) BirthDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.DateOfBirth)
}
