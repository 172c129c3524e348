package risk

import (
	"errors"
	"time"
)

// Finding is a single structured risk flagged in a contract during
// classification.
type Finding struct {
	ID          string    `json:"id"`
	ContractID  string    `json:"contractId"`
	Section     string    `json:"section,omitempty"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnalysisRecord is the audit row written for every classification
// attempt, successful or not. RawResponse holds the verbatim upstream
// payload when one was received.
type AnalysisRecord struct {
	ID               string    `json:"id"`
	ContractID       string    `json:"contractId"`
	RawResponse      []byte    `json:"-"`
	RiskLevel        string    `json:"riskLevel"`
	Confidence       float64   `json:"confidence"`
	ModelUsed        string    `json:"modelUsed"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ErrNotFound is returned when no finding or analysis row matches.
var ErrNotFound = errors.New("risk record not found")
