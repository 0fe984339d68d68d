package kg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/biokag/internal/core/model"
)

// Entity returns a copy of the node with the given id.
func (g *Graph) Entity(id string) (model.Entity, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return model.Entity{}, false
	}
	return n.Clone(), true
}

// Relation returns a copy of the addressed edge.
func (g *Graph) Relation(id model.EdgeID) (model.Relation, bool) {
	r, ok := g.edges[id]
	if !ok {
		return model.Relation{}, false
	}
	return r.Clone(), true
}

// Entities returns copies of all nodes in insertion order.
func (g *Graph) Entities() []model.Entity {
	out := make([]model.Entity, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Relations returns copies of all edges in insertion order.
func (g *Graph) Relations() []model.Relation {
	out := make([]model.Relation, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id].Clone())
	}
	return out
}

func (g *Graph) EntitySources(id string) ([]model.SourceRef, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, nodeNotFound(id)
	}
	return model.CloneSources(n.Sources), nil
}

func (g *Graph) RelationSources(id model.EdgeID) ([]model.SourceRef, error) {
	r, ok := g.edges[id]
	if !ok {
		return nil, edgeNotFound(id)
	}
	return model.CloneSources(r.Sources), nil
}

// OutEdges lists the ids of edges leaving a node, in insertion order.
func (g *Graph) OutEdges(id string) []model.EdgeID {
	hs := g.out[id]
	out := make([]model.EdgeID, len(hs))
	for i, h := range hs {
		out[i] = model.EdgeID{Subject: id, Object: h.peer, Key: h.key}
	}
	return out
}

// InEdges lists the ids of edges entering a node, in insertion order.
func (g *Graph) InEdges(id string) []model.EdgeID {
	hs := g.in[id]
	out := make([]model.EdgeID, len(hs))
	for i, h := range hs {
		out[i] = model.EdgeID{Subject: h.peer, Object: id, Key: h.key}
	}
	return out
}

// QueryNodesByText returns the ids of nodes whose text or normalized text
// contains needle, ignoring case. An empty typeFilter matches every type.
func (g *Graph) QueryNodesByText(needle, typeFilter string) []string {
	needle = strings.ToLower(needle)
	var ids []string
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if typeFilter != "" && n.Type != typeFilter {
			continue
		}
		if strings.Contains(strings.ToLower(n.Text), needle) ||
			strings.Contains(strings.ToLower(n.NormalizedText), needle) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Neighbors describes every edge touching a node: outgoing edges first, then
// incoming, each group in insertion order. A non-empty predicateFilter keeps
// only edges with that predicate.
func (g *Graph) Neighbors(id, predicateFilter string) ([]model.NeighborView, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, nodeNotFound(id)
	}

	views := []model.NeighborView{}
	collect := func(dir model.Direction, ids []model.EdgeID) {
		for _, eid := range ids {
			r := g.edges[eid]
			if predicateFilter != "" && r.Predicate != predicateFilter {
				continue
			}
			peerID := r.Object
			if dir == model.Incoming {
				peerID = r.Subject
			}
			peer := g.nodes[peerID]
			views = append(views, model.NeighborView{
				Direction:  dir,
				Predicate:  r.Predicate,
				EntityID:   peerID,
				EntityType: peer.Type,
				EntityText: peer.Text,
				Confidence: r.Confidence,
				Evidence:   r.Evidence,
				Edge:       eid,
			})
		}
	}
	collect(model.Outgoing, g.OutEdges(id))
	collect(model.Incoming, g.InEdges(id))
	return views, nil
}

// Statistics counts nodes and edges by type and lists the distinct documents
// cited anywhere in the graph.
func (g *Graph) Statistics() model.Statistics {
	st := model.Statistics{
		NodeCount:     len(g.nodes),
		EdgeCount:     len(g.edges),
		EntityTypes:   make(map[string]int),
		RelationTypes: make(map[string]int),
		Documents:     []string{},
	}

	docs := make(map[string]struct{})
	addDocs := func(refs []model.SourceRef) {
		for _, ref := range refs {
			docs[ref.DocumentID] = struct{}{}
		}
	}
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		st.EntityTypes[n.Type]++
		addDocs(n.Sources)
	}
	for _, id := range g.edgeOrder {
		r := g.edges[id]
		st.RelationTypes[r.Predicate]++
		addDocs(r.Sources)
	}

	for d := range docs {
		st.Documents = append(st.Documents, d)
	}
	sort.Strings(st.Documents)
	st.DocumentCount = len(st.Documents)
	return st
}

// Induce copies the nodes in ids, plus every edge whose endpoints are both
// among them, into a new graph. Unknown ids are skipped. Node and edge order
// and edge keys follow the receiver.
func (g *Graph) Induce(ids []string) *Graph {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := g.nodes[id]; ok {
			keep[id] = struct{}{}
		}
	}

	sub := newEmpty()
	sub.Meta = g.Meta
	for _, id := range g.nodeOrder {
		if _, ok := keep[id]; ok {
			n := g.nodes[id].Clone()
			sub.insertNode(&n)
		}
	}
	for _, eid := range g.edgeOrder {
		_, okS := keep[eid.Subject]
		_, okO := keep[eid.Object]
		if okS && okO {
			r := g.edges[eid].Clone()
			sub.insertEdge(&r)
		}
	}
	return sub
}

// Clone returns a deep copy of the whole graph.
func (g *Graph) Clone() *Graph {
	return g.Induce(g.nodeOrder)
}

// AddNode restores a fully formed node, keeping its id and sources as given.
// It is meant for loading persisted graphs.
func (g *Graph) AddNode(e model.Entity) error {
	if e.ID == "" {
		return &InvalidRecordError{Record: "node", Field: "id", Reason: "is required"}
	}
	if _, ok := g.nodes[e.ID]; ok {
		return &InvalidRecordError{Record: "node", Field: "id", Reason: fmt.Sprintf("%q is duplicated", e.ID)}
	}
	for _, ref := range e.Sources {
		if err := ValidateSource(ref); err != nil {
			return err
		}
	}
	n := e.Clone()
	if n.Sources == nil {
		n.Sources = []model.SourceRef{}
	}
	g.insertNode(&n)
	return nil
}

// AddEdge restores a fully formed edge, keeping its key. Both endpoints must
// already exist.
func (g *Graph) AddEdge(r model.Relation) error {
	if _, ok := g.nodes[r.Subject]; !ok {
		return nodeNotFound(r.Subject)
	}
	if _, ok := g.nodes[r.Object]; !ok {
		return nodeNotFound(r.Object)
	}
	if r.Key < 0 {
		return &InvalidRecordError{Record: "edge", Field: "key", Reason: "is negative"}
	}
	if _, ok := g.edges[r.ID()]; ok {
		return &InvalidRecordError{Record: "edge", Field: "key", Reason: fmt.Sprintf("%s is duplicated", r.ID())}
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return &InvalidRecordError{Record: "edge", Field: "confidence", Reason: "is outside [0,1]"}
	}
	for _, ref := range r.Sources {
		if err := ValidateSource(ref); err != nil {
			return err
		}
	}
	c := r.Clone()
	if c.Sources == nil {
		c.Sources = []model.SourceRef{}
	}
	g.insertEdge(&c)
	return nil
}

// NewWithMetadata returns an empty graph carrying the given metadata.
func NewWithMetadata(meta Metadata) *Graph {
	g := newEmpty()
	g.Meta = meta
	return g
}
