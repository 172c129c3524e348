package entities

import (
	"errors"
	"time"
)

// Extraction is one completed entity-extraction pass for a contract.
// History is preserved: rows are never overwritten, and the most recent
// AnalyzedAt is authoritative for display.
type Extraction struct {
	ID             string    `json:"id"`
	ContractID     string    `json:"contractId"`
	FirstParty     string    `json:"firstParty"`
	SecondParty    string    `json:"secondParty"`
	Value          *int64    `json:"value,omitempty"`
	DurationMonths *int      `json:"durationMonths,omitempty"`
	KeyTerms       []string  `json:"keyTerms,omitempty"`
	Confidence     float64   `json:"confidence"`
	Method         string    `json:"method,omitempty"`
	AnalyzedAt     time.Time `json:"analyzedAt"`
}

// ErrNotFound is returned when no extraction pass exists.
var ErrNotFound = errors.New("extraction not found")
