// Package core wires the knowledge graph, its persistence, retrieval and
// export into one service object shared by the HTTP server and the CLI.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/agenthands/biokag/internal/core/answer"
	"github.com/agenthands/biokag/internal/core/community"
	"github.com/agenthands/biokag/internal/core/ingest"
	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/core/persist"
	"github.com/agenthands/biokag/internal/core/schema"
	"github.com/agenthands/biokag/internal/driver"
	"github.com/agenthands/biokag/internal/logger"
)

// ErrExportDisabled is returned by Export when no graph database is configured.
var ErrExportDisabled = errors.New("graph export is not configured")

// ErrNoSnapshot is returned by Open when RequireSnapshot is set and no
// snapshot exists at the configured location.
var ErrNoSnapshot = errors.New("knowledge graph not found at provided path")

// KAG owns one graph. Writers are serialised and readers run concurrently.
type KAG struct {
	mu      sync.RWMutex
	graph   *kg.Graph
	builder *ingest.Builder

	Answerer *answer.Answerer
	Backend  persist.Backend
	Location string
	Exporter *driver.Exporter
}

type Options struct {
	Schema      *schema.Schema
	Strict      bool
	Synthesizer answer.Synthesizer
	MaxDepth    int
	Backend     persist.Backend
	Location    string
	Driver      driver.GraphDriver

	// RequireSnapshot makes Open fail instead of starting an empty graph.
	RequireSnapshot bool
}

// New wraps g, or a fresh graph when g is nil.
func New(g *kg.Graph, opts Options) *KAG {
	if g == nil {
		g = kg.New()
	}
	k := &KAG{
		graph:    g,
		builder:  ingest.NewBuilder(g, opts.Schema, opts.Strict),
		Answerer: answer.NewAnswerer(opts.Synthesizer, opts.MaxDepth),
		Backend:  opts.Backend,
		Location: opts.Location,
	}
	if opts.Driver != nil {
		k.Exporter = driver.NewExporter(opts.Driver)
	}
	return k
}

// Open loads the snapshot at opts.Location. A missing snapshot starts an
// empty graph unless opts.RequireSnapshot is set; any other load failure is
// returned.
func Open(ctx context.Context, opts Options) (*KAG, error) {
	if opts.Backend == nil || opts.Location == "" {
		if opts.RequireSnapshot {
			return nil, fmt.Errorf("%w: no snapshot location configured", ErrNoSnapshot)
		}
		return New(nil, opts), nil
	}
	g, err := opts.Backend.Load(ctx, opts.Location)
	if err != nil {
		if persist.IsNotExist(err) && !opts.RequireSnapshot {
			logger.Info("no snapshot found, starting empty graph", "location", opts.Location)
			return New(nil, opts), nil
		}
		if persist.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoSnapshot, opts.Location, err)
		}
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	logger.Info("graph loaded", "location", opts.Location, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return New(g, opts), nil
}

func (k *KAG) IngestDocument(doc model.Document) (ingest.Report, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.builder.IngestDocument(doc)
}

// IngestDocuments applies docs in order and stops at the first failure. The
// reports of documents applied before it are returned with the error.
func (k *KAG) IngestDocuments(docs []model.Document) ([]ingest.Report, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	reports := make([]ingest.Report, 0, len(docs))
	for _, doc := range docs {
		r, err := k.builder.IngestDocument(doc)
		if err != nil {
			return reports, fmt.Errorf("failed to ingest document %q: %w", doc.ID, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Answer answers question using the configured depth, or depth when it is
// not nil.
func (k *KAG) Answer(ctx context.Context, question string, depth *int) (model.QueryResult, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if depth != nil {
		return k.Answerer.AnswerWithDepth(ctx, question, k.graph, *depth)
	}
	return k.Answerer.Answer(ctx, question, k.graph)
}

func (k *KAG) Statistics() model.Statistics {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.graph.Statistics()
}

// FindEntities returns the entities whose text contains needle.
func (k *KAG) FindEntities(needle, entityType string) []model.Entity {
	k.mu.RLock()
	defer k.mu.RUnlock()

	ids := k.graph.QueryNodesByText(needle, entityType)
	out := make([]model.Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := k.graph.Entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

func (k *KAG) Neighbors(id, predicate string) ([]model.NeighborView, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.graph.Neighbors(id, predicate)
}

func (k *KAG) EntitySources(id string) ([]model.SourceRef, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.graph.EntitySources(id)
}

// Communities clusters the current entities by relation density.
func (k *KAG) Communities() []community.Cluster {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return community.NewLabelPropagationDetector().Detect(k.graph)
}

// Graph returns a deep copy of the current graph.
func (k *KAG) Graph() *kg.Graph {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.graph.Clone()
}

// Snapshot saves the graph to the configured backend.
func (k *KAG) Snapshot(ctx context.Context) error {
	if k.Backend == nil || k.Location == "" {
		return fmt.Errorf("no snapshot location configured")
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	if err := k.Backend.Save(ctx, k.graph, k.Location); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	logger.Info("snapshot saved", "location", k.Location, "nodes", k.graph.NodeCount(), "edges", k.graph.EdgeCount())
	return nil
}

// Export pushes the graph to the configured graph database.
func (k *KAG) Export(ctx context.Context) (driver.ExportReport, error) {
	if k.Exporter == nil {
		return driver.ExportReport{}, ErrExportDisabled
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.Exporter.Export(ctx, k.graph)
}
