package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/logger"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize   = 500
	DefaultParallelism = 4
)

// Exporter replaces the copy of a graph held in the database with a fresh
// snapshot. Entities become :Entity nodes, relations :RELATES_TO edges and
// every entity source a :MENTIONED_IN edge to a :Document node.
type Exporter struct {
	Driver      GraphDriver
	BatchSize   int
	Parallelism int
}

type ExportReport struct {
	GraphID   string `json:"graph_id"`
	Entities  int    `json:"entities"`
	Relations int    `json:"relations"`
	Mentions  int    `json:"mentions"`
}

func NewExporter(d GraphDriver) *Exporter {
	return &Exporter{Driver: d, BatchSize: DefaultBatchSize, Parallelism: DefaultParallelism}
}

func (e *Exporter) Export(ctx context.Context, g *kg.Graph) (ExportReport, error) {
	report := ExportReport{GraphID: g.Meta.ID}
	params := func(rows []map[string]any) map[string]any {
		return map[string]any{"graph_id": g.Meta.ID, "rows": rows}
	}

	if err := e.Driver.BuildIndices(ctx); err != nil {
		return report, fmt.Errorf("failed to build indices: %w", err)
	}
	if _, err := e.Driver.ExecuteQuery(ctx, DeleteGraphQuery, map[string]any{"graph_id": g.Meta.ID}); err != nil {
		return report, fmt.Errorf("failed to clear previous export: %w", err)
	}

	entities := g.Entities()
	var nodeRows, mentionRows []map[string]any
	for _, ent := range entities {
		sources, err := sourcesJSON(ent.Sources)
		if err != nil {
			return report, err
		}
		nodeRows = append(nodeRows, map[string]any{
			"id":              ent.ID,
			"type":            ent.Type,
			"text":            ent.Text,
			"normalized_text": ent.NormalizedText,
			"sources":         sources,
		})
		for _, ref := range ent.Sources {
			mentionRows = append(mentionRows, mentionRow(ent.ID, ref))
		}
	}

	var relRows []map[string]any
	for _, r := range g.Relations() {
		sources, err := sourcesJSON(r.Sources)
		if err != nil {
			return report, err
		}
		relRows = append(relRows, map[string]any{
			"subject":    r.Subject,
			"object":     r.Object,
			"key":        int64(r.Key),
			"predicate":  r.Predicate,
			"evidence":   r.Evidence,
			"confidence": r.Confidence,
			"sources":    sources,
		})
	}

	// Nodes must exist before mentions and relations can match them.
	if err := e.runBatches(ctx, SaveEntitiesQuery, nodeRows, params, e.Parallelism); err != nil {
		return report, fmt.Errorf("failed to save entities: %w", err)
	}
	// Mention batches MERGE shared :Document nodes and run one at a time.
	if err := e.runBatches(ctx, SaveMentionsQuery, mentionRows, params, 1); err != nil {
		return report, fmt.Errorf("failed to save mentions: %w", err)
	}
	if err := e.runBatches(ctx, SaveRelationsQuery, relRows, params, e.Parallelism); err != nil {
		return report, fmt.Errorf("failed to save relations: %w", err)
	}

	report.Entities = len(nodeRows)
	report.Mentions = len(mentionRows)
	report.Relations = len(relRows)
	logger.Info("graph exported", "graph_id", report.GraphID,
		"entities", report.Entities, "relations", report.Relations, "mentions", report.Mentions)
	return report, nil
}

func (e *Exporter) runBatches(ctx context.Context, query string, rows []map[string]any, params func([]map[string]any) map[string]any, parallelism int) error {
	size := e.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	eg, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		eg.SetLimit(parallelism)
	}
	for start := 0; start < len(rows); start += size {
		batch := rows[start:min(start+size, len(rows))]
		eg.Go(func() error {
			_, err := e.Driver.ExecuteQuery(ctx, query, params(batch))
			return err
		})
	}
	return eg.Wait()
}

func mentionRow(entityID string, ref model.SourceRef) map[string]any {
	row := map[string]any{
		"entity_id":   entityID,
		"document_id": ref.DocumentID,
		"section":     ref.SectionName,
		"start_pos":   nil,
		"end_pos":     nil,
		"timestamp":   ref.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if ref.StartPos != nil {
		row["start_pos"] = int64(*ref.StartPos)
	}
	if ref.EndPos != nil {
		row["end_pos"] = int64(*ref.EndPos)
	}
	return row
}

func sourcesJSON(refs []model.SourceRef) (string, error) {
	data, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("failed to encode sources: %w", err)
	}
	return string(data), nil
}

// Count reports how many entities and relations of graphID the database holds.
func (e *Exporter) Count(ctx context.Context, graphID string) (nodes, edges int64, err error) {
	res, err := e.Driver.ExecuteQuery(ctx, CountGraphQuery, map[string]any{"graph_id": graphID})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count exported graph: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, 0, nil
	}
	rec := res.Records[0]
	if v, ok := rec.Get("nodes"); ok {
		nodes, _ = v.(int64)
	}
	if v, ok := rec.Get("edges"); ok {
		edges, _ = v.(int64)
	}
	return nodes, edges, nil
}
