// Package persist stores graphs as node-link JSON documents, on the local
// filesystem or in an S3 bucket.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
)

type document struct {
	Directed   bool          `json:"directed"`
	Multigraph bool          `json:"multigraph"`
	Graph      kg.Metadata   `json:"graph"`
	Nodes      *[]nodeRecord `json:"nodes"`
	Links      *[]linkRecord `json:"links"`
	Metadata   *saveMetadata `json:"metadata,omitempty"`
}

type nodeRecord struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Text           string            `json:"text"`
	NormalizedText string            `json:"normalized_text"`
	Sources        []model.SourceRef `json:"sources"`
}

type linkRecord struct {
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Key        *int              `json:"key"`
	Predicate  string            `json:"predicate"`
	Evidence   string            `json:"evidence"`
	Confidence float64           `json:"confidence"`
	Sources    []model.SourceRef `json:"sources"`
}

type saveMetadata struct {
	SavedAt   time.Time `json:"saved_at"`
	NodeCount int       `json:"node_count"`
	EdgeCount int       `json:"edge_count"`
}

// Encode writes g as an indented node-link document.
func Encode(w io.Writer, g *kg.Graph, savedAt time.Time) error {
	nodes := []nodeRecord{}
	links := []linkRecord{}
	doc := document{
		Directed:   true,
		Multigraph: true,
		Graph:      g.Meta,
		Nodes:      &nodes,
		Links:      &links,
		Metadata: &saveMetadata{
			SavedAt:   savedAt.UTC(),
			NodeCount: g.NodeCount(),
			EdgeCount: g.EdgeCount(),
		},
	}
	for _, e := range g.Entities() {
		nodes = append(nodes, nodeRecord(e))
	}
	for _, r := range g.Relations() {
		links = append(links, linkRecord{
			Source:     r.Subject,
			Target:     r.Object,
			Key:        model.IntPtr(r.Key),
			Predicate:  r.Predicate,
			Evidence:   r.Evidence,
			Confidence: r.Confidence,
			Sources:    r.Sources,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return nil
}

// Decode reads a node-link document. It never returns a partially built
// graph: any inconsistency yields a *FormatError and a nil graph.
func Decode(r io.Reader) (*kg.Graph, error) {
	var raw json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, &FormatError{Reason: "invalid JSON", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &FormatError{Reason: "trailing data after document"}
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &FormatError{Reason: "document is not a JSON object"}
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &FormatError{Reason: "invalid document", Err: err}
	}
	if doc.Nodes == nil {
		return nil, &FormatError{Reason: "missing nodes"}
	}
	if doc.Links == nil {
		return nil, &FormatError{Reason: "missing links"}
	}

	meta := doc.Graph
	if meta.SchemaVersion == "" {
		meta.SchemaVersion = kg.SchemaVersion
	}
	g := kg.NewWithMetadata(meta)

	for i, n := range *doc.Nodes {
		if n.ID == "" {
			return nil, &FormatError{Reason: fmt.Sprintf("node %d has no id", i)}
		}
		if err := g.AddNode(model.Entity(n)); err != nil {
			return nil, &FormatError{Reason: fmt.Sprintf("node %d", i), Err: err}
		}
	}

	// Links without a key get the next free ordinal for their pair.
	type pair struct{ s, t string }
	next := make(map[pair]int)
	for _, l := range *doc.Links {
		if l.Key != nil && *l.Key >= next[pair{l.Source, l.Target}] {
			next[pair{l.Source, l.Target}] = *l.Key + 1
		}
	}

	for i, l := range *doc.Links {
		if l.Source == "" || l.Target == "" {
			return nil, &FormatError{Reason: fmt.Sprintf("link %d has no source or target", i)}
		}
		p := pair{l.Source, l.Target}
		key := next[p]
		if l.Key != nil {
			key = *l.Key
		} else {
			next[p]++
		}

		err := g.AddEdge(model.Relation{
			Subject:    l.Source,
			Object:     l.Target,
			Key:        key,
			Predicate:  l.Predicate,
			Evidence:   l.Evidence,
			Confidence: l.Confidence,
			Sources:    l.Sources,
		})
		if err != nil {
			reason := fmt.Sprintf("link %d", i)
			if errors.Is(err, kg.ErrNotFound) {
				reason = fmt.Sprintf("link %d is dangling", i)
			}
			return nil, &FormatError{Reason: reason, Err: err}
		}
	}

	if m := doc.Metadata; m != nil {
		if m.NodeCount != g.NodeCount() || m.EdgeCount != g.EdgeCount() {
			return nil, &FormatError{Reason: fmt.Sprintf(
				"metadata counts %d/%d do not match content %d/%d",
				m.NodeCount, m.EdgeCount, g.NodeCount(), g.EdgeCount())}
		}
	}
	return g, nil
}
