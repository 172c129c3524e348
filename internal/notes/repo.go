package notes

import (
	"context"

	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Repo defines persistence operations for legal notes.
type Repo interface {
	Create(ctx context.Context, scope tenant.Scope, note LegalNote) error
	ListByContract(ctx context.Context, scope tenant.Scope, contractID string) ([]LegalNote, error)
}
