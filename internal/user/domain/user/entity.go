package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInvalid  = errors.New("invalid user")
	ErrConflict = errors.New("email already registered")
)

type User struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields required to store a user.
func (u User) Validate() error {
	if strings.TrimSpace(u.FirstName) == "" {
		return errors.Join(ErrInvalid, errors.New("first_name is required"))
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.Join(ErrInvalid, errors.New("email is invalid"))
	}
	return nil
}

// Query filters FindAll. Empty fields match everything.
type Query struct {
	IDs   []int64
	Limit int
}
