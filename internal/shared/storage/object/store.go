package object

import (
	"context"
	"errors"
	"io"
)

// ErrKeyExists is returned when a Put would overwrite an existing object.
// Document uploads are content-addressed and never overwritten.
var ErrKeyExists = errors.New("object key already exists")

// ObjectStore defines the contract for saving and resolving binary objects.
type ObjectStore interface {
	// Put writes the reader contents at key. Existing keys are never
	// overwritten; Put fails with ErrKeyExists instead.
	Put(ctx context.Context, key, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns a resolvable URL for the stored object.
	URL(ctx context.Context, key string) (string, error)
}
