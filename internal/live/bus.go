// Package live keeps derived views fresh without polling: repositories
// publish row-level change notifications and view synchronizers re-fetch on
// every matching event. Delivery is at-least-once and unordered across
// tables, so refreshes must be idempotent.
package live

// Tables change notifications are published for.
const (
	TableContracts = "contracts"
	TableEntities  = "contract_entities"
	TableFindings  = "risk_findings"
	TableNotes     = "legal_notes"
	TableLifecycle = "contract_lifecycle"
	TableAnalysis  = "ai_risk_analysis"
)

// Event is one row-level change notification.
type Event struct {
	Table      string `json:"table"`
	ContractID string `json:"contractId,omitempty"`
	Op         string `json:"op"`
}

// Ops describing the row change. Subscribers re-fetch regardless of op.
const (
	OpInsert = "insert"
	OpUpdate = "update"
)

// Scope selects which events a subscription receives: a whole table
// (ContractID empty, used by list/KPI views) or one contract's rows in a
// table (used by detail views).
type Scope struct {
	Table      string
	ContractID string
}

// Matches reports whether an event falls inside the scope.
func (s Scope) Matches(ev Event) bool {
	if s.Table != ev.Table {
		return false
	}
	return s.ContractID == "" || s.ContractID == ev.ContractID
}

// Handler receives matching events. Handlers must be safe to invoke
// redundantly and from multiple goroutines.
type Handler func(Event)

// CancelFunc releases a subscription. Calling it more than once is safe.
type CancelFunc func()

// Bus is the publish/subscribe contract between stores and view
// synchronizers. Subscriptions are owned explicitly via the returned
// CancelFunc; a leaked subscription is a resource leak.
type Bus interface {
	Publish(ev Event)
	Subscribe(scope Scope, handler Handler) CancelFunc
}
