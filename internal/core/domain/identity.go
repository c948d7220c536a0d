package domain

import (
	"errors"
	"strings"
	"time"
)

// MaxDescriptors caps how many reference descriptors an identity may hold.
const MaxDescriptors = 5

var ErrInvalidInput = errors.New("invalid input")
var ErrIdentityNotFound = errors.New("identity not found")
var ErrDuplicateEmployeeCode = errors.New("employee code already registered")
var ErrDuplicateFace = errors.New("face already registered to another identity")
var ErrInvalidDescriptor = errors.New("invalid face descriptor")
var ErrForbidden = errors.New("access forbidden")

// Descriptor is a fixed-length face embedding produced by an external
// recognition model. The dimension is fixed by that model (128 for the
// default browser pipeline); the core treats it as opaque numbers.
type Descriptor []float64

// Identity is the core aggregate: a registered employee together with the
// reference descriptors attendance marks are matched against.
type Identity struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	DisplayName  string       `json:"display_name" bson:"display_name"`
	EmployeeCode string       `json:"employee_code" bson:"employee_code"`
	Descriptors  []Descriptor `json:"descriptors" bson:"descriptors"`
	Active       bool         `json:"active" bson:"active"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// NormalizeEmployeeCode applies the canonical form used for uniqueness
// checks: trimmed, uppercase.
func NormalizeEmployeeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MatchResult is the ephemeral outcome of a descriptor comparison.
// Distance is euclidean; lower means more similar.
type MatchResult struct {
	Identity Identity
	Distance float64
}
