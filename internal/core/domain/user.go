package domain

import (
	"errors"
	"time"
)

const (
	// RoleAdmin manages identities and reads attendance reports.
	RoleAdmin = "admin"
	// RoleKiosk is the check-in terminal role; it may only mark attendance.
	RoleKiosk = "kiosk"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// User models an authenticated operator of the system (not an employee
// identity — employees are matched by face, never by credentials).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
