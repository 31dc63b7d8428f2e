// Package store defines persistence for finished exports. Implementations
// live in the memory and sqlite subpackages; hosts pick one at startup.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no export carries the requested id.
var ErrNotFound = errors.New("store: export not found")

// Export is one stored JPEG blob.
type Export struct {
	ID        string
	Data      []byte
	CreatedAt time.Time
}

// ExportStore persists export blobs under server-minted ids.
type ExportStore interface {
	// Create stores data and returns the minted export.
	Create(ctx context.Context, data []byte) (Export, error)
	// FindID retrieves the export with the given id, or ErrNotFound.
	FindID(ctx context.Context, id string) (Export, error)
	// Close releases underlying resources.
	Close() error
}
