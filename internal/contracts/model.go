package contracts

import "time"

// Status is a contract's lifecycle stage. Contracts only move forward
// through the main chain; Revision Requested loops back to Submitted and
// Rejected/Expired are terminal.
type Status string

const (
	StatusDraft             Status = "Draft"
	StatusSubmitted         Status = "Submitted"
	StatusReviewed          Status = "Reviewed"
	StatusApproved          Status = "Approved"
	StatusActive            Status = "Active"
	StatusExpired           Status = "Expired"
	StatusRevisionRequested Status = "Revision Requested"
	StatusRejected          Status = "Rejected"
)

var transitions = map[Status][]Status{
	StatusDraft:             {StatusSubmitted},
	StatusSubmitted:         {StatusReviewed, StatusRevisionRequested, StatusRejected},
	StatusReviewed:          {StatusApproved, StatusRevisionRequested, StatusRejected},
	StatusApproved:          {StatusActive, StatusExpired},
	StatusActive:            {StatusExpired},
	StatusRevisionRequested: {StatusSubmitted},
	StatusExpired:           nil,
	StatusRejected:          nil,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransitionTo reports whether the move from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RiskLevel is the classifier's severity verdict.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// Contract is the aggregate root. Risk stays nil until a risk
// classification completes at least once.
type Contract struct {
	ID             string     `json:"id"`
	OrgID          string     `json:"orgId"`
	Name           string     `json:"name"`
	FirstParty     string     `json:"firstParty"`
	SecondParty    string     `json:"secondParty"`
	Value          *int64     `json:"value,omitempty"`
	DurationMonths *int       `json:"durationMonths,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         Status     `json:"status"`
	Risk           *RiskLevel `json:"risk,omitempty"`
	DocumentPath   string     `json:"documentPath,omitempty"`
	DocumentURL    string     `json:"documentUrl,omitempty"`
	CreatedBy      string     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status Status
	Risk   RiskLevel
	Search string
	Limit  int
	Offset int
}

// KPISummary aggregates the dashboard's top-line numbers for one org.
type KPISummary struct {
	Total            int               `json:"total"`
	ByStatus         map[Status]int    `json:"byStatus"`
	ByRisk           map[RiskLevel]int `json:"byRisk"`
	TotalValue       int64             `json:"totalValue"`
	ExpiringIn30Days int               `json:"expiringIn30Days"`
}
