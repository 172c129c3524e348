package analysis

import "fmt"

// ErrorKind distinguishes why an analysis call failed.
type ErrorKind string

const (
	// KindTransport covers network failures and timeouts.
	KindTransport ErrorKind = "transport"
	// KindRejected covers non-success HTTP statuses and service-reported failures.
	KindRejected ErrorKind = "rejected"
	// KindMalformed covers responses that failed schema validation.
	KindMalformed ErrorKind = "malformed"
)

// Error is a typed failure from the analysis service. Callers decide retry
// policy; the client never retries implicitly.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("analysis %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }
