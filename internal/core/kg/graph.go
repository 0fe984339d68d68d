// Package kg is the in-memory store for the knowledge graph: a directed
// multigraph of entities and relations, each carrying an append-only list of
// provenance records.
//
// # Ownership
//
// The Graph exclusively owns its node and edge records. Every accessor returns
// copies, and Induce/Clone produce graphs that share no memory with the source.
//
// # Thread Safety
//
// Graph is not safe for concurrent mutation. It is built by a single writer;
// once building stops, any number of goroutines may read it concurrently.
package kg

import (
	"time"

	"github.com/agenthands/biokag/internal/core/identity"
	"github.com/agenthands/biokag/internal/core/model"

	"github.com/google/uuid"
)

const SchemaVersion = "1.0"

// Metadata is graph-level information carried through persistence.
type Metadata struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	SchemaVersion string    `json:"schema_version"`
	Description   string    `json:"description,omitempty"`
}

// adjacency entry: the peer node and the key of the edge leading to it.
type halfEdge struct {
	peer string
	key  int
}

type pair struct {
	subject string
	object  string
}

type Graph struct {
	Meta Metadata

	nodes     map[string]*model.Entity
	nodeOrder []string

	out map[string][]halfEdge
	in  map[string][]halfEdge

	edges     map[model.EdgeID]*model.Relation
	edgeOrder []model.EdgeID
	nextKey   map[pair]int
}

// New returns an empty graph with fresh metadata.
func New() *Graph {
	g := newEmpty()
	g.Meta = Metadata{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Description:   "Biomedical knowledge graph",
	}
	return g
}

func newEmpty() *Graph {
	return &Graph{
		nodes:   make(map[string]*model.Entity),
		out:     make(map[string][]halfEdge),
		in:      make(map[string][]halfEdge),
		edges:   make(map[model.EdgeID]*model.Relation),
		nextKey: make(map[pair]int),
	}
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) HasEdge(id model.EdgeID) bool {
	_, ok := g.edges[id]
	return ok
}

// UpsertEntity resolves the record's identity and creates the node when it is
// absent. An existing node keeps the attributes it was first created with.
func (g *Graph) UpsertEntity(rec model.EntityRecord) (string, error) {
	if err := ValidateEntity(rec); err != nil {
		return "", err
	}

	id := identity.Resolve(rec.Type, rec.NormalizedText)
	if _, ok := g.nodes[id]; !ok {
		g.insertNode(&model.Entity{
			ID:             id,
			Type:           rec.Type,
			Text:           rec.Text,
			NormalizedText: rec.NormalizedText,
			Sources:        []model.SourceRef{},
		})
	}
	return id, nil
}

// UpsertRelation creates any missing endpoint and always appends a new
// parallel edge. It returns the address of that edge.
func (g *Graph) UpsertRelation(rec model.RelationRecord) (model.EdgeID, error) {
	if err := ValidateRelation(rec); err != nil {
		return model.EdgeID{}, err
	}

	subjectID := g.ensureEndpoint(rec.Subject)
	objectID := g.ensureEndpoint(rec.Object)

	p := pair{subject: subjectID, object: objectID}
	rel := &model.Relation{
		Subject:    subjectID,
		Object:     objectID,
		Key:        g.nextKey[p],
		Predicate:  rec.Predicate,
		Evidence:   rec.Evidence,
		Confidence: rec.Confidence,
		Sources:    []model.SourceRef{},
	}
	g.insertEdge(rel)
	return rel.ID(), nil
}

func (g *Graph) ensureEndpoint(ep model.Endpoint) string {
	id := EndpointID(ep)
	if _, ok := g.nodes[id]; ok {
		return id
	}

	node := &model.Entity{ID: id, Type: ep.Type, Text: ep.Text, Sources: []model.SourceRef{}}
	if ep.ID == "" {
		node.NormalizedText = identity.Normalize(ep.Text)
	}
	g.insertNode(node)
	return id
}

// AttachSourceToEntity appends a provenance record to a node.
func (g *Graph) AttachSourceToEntity(nodeID string, ref model.SourceRef) error {
	node, ok := g.nodes[nodeID]
	if !ok {
		return nodeNotFound(nodeID)
	}
	if err := ValidateSource(ref); err != nil {
		return err
	}
	node.Sources = append(node.Sources, ref.Clone())
	return nil
}

// AttachSourceToRelation appends a provenance record to an edge.
func (g *Graph) AttachSourceToRelation(id model.EdgeID, ref model.SourceRef) error {
	rel, ok := g.edges[id]
	if !ok {
		return edgeNotFound(id)
	}
	if err := ValidateSource(ref); err != nil {
		return err
	}
	rel.Sources = append(rel.Sources, ref.Clone())
	return nil
}

func (g *Graph) insertNode(n *model.Entity) {
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

func (g *Graph) insertEdge(r *model.Relation) {
	id := r.ID()
	g.edges[id] = r
	g.edgeOrder = append(g.edgeOrder, id)
	g.out[r.Subject] = append(g.out[r.Subject], halfEdge{peer: r.Object, key: r.Key})
	g.in[r.Object] = append(g.in[r.Object], halfEdge{peer: r.Subject, key: r.Key})

	p := pair{subject: r.Subject, object: r.Object}
	if r.Key >= g.nextKey[p] {
		g.nextKey[p] = r.Key + 1
	}
}
