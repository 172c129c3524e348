package companies

import (
	"errors"
	"time"
)

// Company is one tenant organization.
type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile is a known user, keyed by email at login time.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Membership ties a user to a company with a role.
type Membership struct {
	CompanyID string    `json:"companyId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	// ErrNoMembership is returned when a user belongs to no company. Login
	// fails closed in that case.
	ErrNoMembership = errors.New("no organization membership")
	// ErrNotFound is returned when a company or profile does not exist.
	ErrNotFound = errors.New("record not found")
)
