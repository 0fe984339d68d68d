package model

type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// NeighborView describes one edge adjacent to a node, seen from that node.
type NeighborView struct {
	Direction  Direction `json:"direction"`
	Predicate  string    `json:"relation_type"`
	EntityID   string    `json:"entity_id"`
	EntityType string    `json:"entity_type"`
	EntityText string    `json:"entity_text"`
	Confidence float64   `json:"confidence"`
	Evidence   string    `json:"evidence"`
	Edge       EdgeID    `json:"edge"`
}

// Statistics summarises a graph.
type Statistics struct {
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
	EntityTypes   map[string]int `json:"entity_types"`
	RelationTypes map[string]int `json:"relation_types"`
	DocumentCount int            `json:"document_count"`
	Documents     []string       `json:"documents"`
}

// QueryResult is what a question against the graph produces.
type QueryResult struct {
	Answer     string      `json:"answer"`
	Citations  []SourceRef `json:"citations"`
	EntryNodes []string    `json:"entry_nodes,omitempty"`
}
