package kg

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph store operations.
var (
	// ErrNotFound is returned when an operation references a node or edge
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRecord is returned when an entity, relation or source record
	// is missing required fields. The graph is left untouched.
	ErrInvalidRecord = errors.New("invalid record")
)

// NotFoundError names the missing node or edge.
type NotFoundError struct {
	Kind string // "node" or "edge"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidRecordError describes why a record was rejected.
type InvalidRecordError struct {
	Record string // "entity", "relation", "source", ...
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %s: %s", ErrInvalidRecord, e.Record, e.Reason)
	}
	return fmt.Sprintf("%s %s: field %s %s", ErrInvalidRecord, e.Record, e.Field, e.Reason)
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}

func nodeNotFound(id string) error {
	return &NotFoundError{Kind: "node", ID: id}
}

func edgeNotFound(id fmt.Stringer) error {
	return &NotFoundError{Kind: "edge", ID: id.String()}
}
