// Package ingest applies one document's extraction output to a graph,
// recording where every entity and relation came from.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/core/schema"
	"github.com/agenthands/biokag/internal/logger"
)

// Report summarises a single ingested document.
type Report struct {
	DocumentID        string `json:"document_id"`
	Entities          int    `json:"entities"`
	Relations         int    `json:"relations"`
	RejectedRelations int    `json:"rejected_relations"`
	NewNodes          int    `json:"new_nodes"`
}

// Builder feeds documents into a graph. It is not safe for concurrent use,
// matching the graph it writes to.
type Builder struct {
	Graph *kg.Graph

	// Schema, when set, is checked against every relation. In Strict mode
	// relations it rejects are dropped; otherwise they are kept and logged.
	Schema *schema.Schema
	Strict bool

	Now func() time.Time
}

func NewBuilder(g *kg.Graph, s *schema.Schema, strict bool) *Builder {
	return &Builder{Graph: g, Schema: s, Strict: strict, Now: time.Now}
}

// IngestDocument validates every record of doc and, only if all of them are
// valid, adds them to the graph. Entity sources carry the mention span;
// relation sources carry document and section only.
func (b *Builder) IngestDocument(doc model.Document) (Report, error) {
	report := Report{DocumentID: doc.ID}
	if strings.TrimSpace(doc.ID) == "" {
		return report, &kg.InvalidRecordError{Record: "document", Field: "id", Reason: "is required"}
	}
	if err := validateDocument(doc); err != nil {
		return report, err
	}

	now := b.Now()
	before := b.Graph.NodeCount()

	for _, sec := range doc.Sections {
		for _, rec := range sec.Entities {
			id, err := b.Graph.UpsertEntity(rec)
			if err != nil {
				return report, fmt.Errorf("failed to add entity in %s/%s: %w", doc.ID, sec.Name, err)
			}
			ref := model.NewSourceRef(doc.ID, sec.Name, rec.Span(), now)
			if err := b.Graph.AttachSourceToEntity(id, ref); err != nil {
				return report, fmt.Errorf("failed to attach entity source: %w", err)
			}
			report.Entities++
		}
	}

	for _, sec := range doc.Sections {
		for _, rec := range sec.Relations {
			if !b.accept(doc.ID, sec.Name, rec) {
				report.RejectedRelations++
				continue
			}
			eid, err := b.Graph.UpsertRelation(rec)
			if err != nil {
				return report, fmt.Errorf("failed to add relation in %s/%s: %w", doc.ID, sec.Name, err)
			}
			ref := model.NewSourceRef(doc.ID, sec.Name, nil, now)
			if err := b.Graph.AttachSourceToRelation(eid, ref); err != nil {
				return report, fmt.Errorf("failed to attach relation source: %w", err)
			}
			report.Relations++
		}
	}

	report.NewNodes = b.Graph.NodeCount() - before
	logger.Debug("document ingested",
		"document", doc.ID,
		"entities", report.Entities,
		"relations", report.Relations,
		"rejected", report.RejectedRelations,
		"new_nodes", report.NewNodes)
	return report, nil
}

func (b *Builder) accept(docID, section string, rec model.RelationRecord) bool {
	if b.Schema == nil {
		return true
	}
	if b.Schema.IsValidRelation(rec.Subject.Type, rec.Predicate, rec.Object.Type) {
		return true
	}
	if b.Strict {
		logger.Warn("relation rejected by schema",
			"document", docID, "section", section,
			"subject_type", rec.Subject.Type, "predicate", rec.Predicate, "object_type", rec.Object.Type)
		return false
	}
	logger.Debug("relation outside schema",
		"document", docID, "predicate", rec.Predicate)
	return true
}

func validateDocument(doc model.Document) error {
	for _, sec := range doc.Sections {
		for i, rec := range sec.Entities {
			if err := kg.ValidateEntity(rec); err != nil {
				return fmt.Errorf("section %q entity %d: %w", sec.Name, i, err)
			}
		}
		for i, rec := range sec.Relations {
			if err := kg.ValidateRelation(rec); err != nil {
				return fmt.Errorf("section %q relation %d: %w", sec.Name, i, err)
			}
		}
	}
	return nil
}
