package entities

import (
	"context"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Repo defines persistence operations for extraction passes. Writes are
// append-only.
type Repo interface {
	Create(ctx context.Context, scope tenant.Scope, extraction Extraction) error
	ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]Extraction, error)
	// LatestByContract returns the most recent pass by AnalyzedAt, or
	// ErrNotFound when none exists.
	LatestByContract(ctx context.Context, scope tenant.Scope, contractID string) (Extraction, error)
}
