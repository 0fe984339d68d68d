package persist

import (
	"context"

	"github.com/agenthands/biokag/internal/core/kg"
)

// Backend saves and loads graph snapshots. The location string is a file
// path for FileBackend and an object key for S3Backend.
type Backend interface {
	Save(ctx context.Context, g *kg.Graph, location string) error
	Load(ctx context.Context, location string) (*kg.Graph, error)
}
