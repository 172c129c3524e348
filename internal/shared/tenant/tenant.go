package tenant

import (
	"errors"
	"strings"
)

// Scope identifies the organization and user a store call acts on behalf of.
// Every repository call requires one; callers fail closed when it is absent.
type Scope struct {
	OrgID  string
	UserID string
}

// ErrMissingScope is returned when a store call lacks organization context.
var ErrMissingScope = errors.New("organization scope required")

// Validate reports whether the scope carries enough context to run a query.
func (s Scope) Validate() error {
	if strings.TrimSpace(s.OrgID) == "" || strings.TrimSpace(s.UserID) == "" {
		return ErrMissingScope
	}
	return nil
}
