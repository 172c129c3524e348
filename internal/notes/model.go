package notes

import (
	"errors"
	"time"
)

// LegalNote is a comment left by a reviewer on a contract.
type LegalNote struct {
	ID         string    `json:"id"`
	ContractID string    `json:"contractId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

var (
	// ErrNotFound is returned when the contract has no such note, or the
	// contract itself is outside the caller's organization.
	ErrNotFound = errors.New("note not found")
	// ErrInvalidInput is returned for an empty note body.
	ErrInvalidInput = errors.New("invalid note input")
)
