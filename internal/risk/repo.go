package risk

import (
	"context"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Repo defines persistence for risk findings and the classification
// audit trail. All writes are append-only.
type Repo interface {
	// CreateFindings stores every finding from one classification pass.
	CreateFindings(ctx context.Context, scope tenant.Scope, findings []Finding) error
	ListFindings(ctx context.Context, scope tenant.Scope, contractID string) ([]Finding, error)
	// CreateAnalysis writes an audit row. Failed classification attempts
	// are recorded too, with their error shape instead of a model verdict.
	CreateAnalysis(ctx context.Context, scope tenant.Scope, record AnalysisRecord) error
	ListAnalyses(ctx context.Context, scope tenant.Scope, contractID string) ([]AnalysisRecord, error)
}
