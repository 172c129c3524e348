package lifecycle

import (
	"errors"
	"time"
)

// Stage names tracked for a contract. Stages mirror the review workflow
// but are recorded independently of the status machine so durations
// survive status churn.
const (
	StageDrafting = "drafting"
	StageReview   = "review"
	StageApproval = "approval"
	StageActive   = "active"
	StageClosed   = "closed"
)

// Entry is one stage interval for a contract. At most one entry per
// contract is open (CompletedAt nil) at a time.
type Entry struct {
	ID              string     `json:"id"`
	ContractID      string     `json:"contractId"`
	Stage           string     `json:"stage"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DurationSeconds *int64     `json:"durationSeconds,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	AuthorID        string     `json:"authorId,omitempty"`
}

// ValidStage reports whether the stage name is one we track.
func ValidStage(stage string) bool {
	switch stage {
	case StageDrafting, StageReview, StageApproval, StageActive, StageClosed:
		return true
	}
	return false
}

var (
	// ErrNotFound is returned when the contract has no lifecycle rows or
	// is outside the caller's organization.
	ErrNotFound = errors.New("lifecycle entry not found")
	// ErrInvalidStage is returned for an unknown stage name.
	ErrInvalidStage = errors.New("invalid lifecycle stage")
)
