// Package store defines the graph store capabilities used by the exporter.
package store

import (
	"context"
	"fmt"
)

// Client creates nodes and relationships in a graph store
type Client interface {
	// Reset deletes every node and relationship in the store
	Reset(ctx context.Context) error

	// CreateNode creates a node labeled label and returns its reference
	CreateNode(ctx context.Context, label string, attributes map[string]string) (string, error)

	// CreateRelationship links two node references and returns the relationship reference
	CreateRelationship(ctx context.Context, from, to, relType string, attributes map[string]string) (string, error)
}

// Closer is implemented by clients holding connections
type Closer interface {
	Close(ctx context.Context) error
}

// Operations reported by BackendError
const (
	OpReset              = "reset"
	OpCreateNode         = "create node"
	OpCreateRelationship = "create relationship"
)

// BackendError reports a transport, authentication or protocol failure of the graph store
type BackendError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graph store %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("graph store %s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// NewBackendError wraps err as a BackendError for op
func NewBackendError(op string, err error) *BackendError {
	return &BackendError{Op: op, Err: err}
}
