package model

import "fmt"

// EdgeID addresses one of possibly many parallel edges between a pair of nodes.
type EdgeID struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Key     int    `json:"key"`
}

func (id EdgeID) String() string {
	return fmt.Sprintf("%s -> %s #%d", id.Subject, id.Object, id.Key)
}

// Relation is a directed, labeled edge. Parallel relations between the same
// pair are distinguished by Key.
type Relation struct {
	Subject    string      `json:"subject"`
	Object     string      `json:"object"`
	Key        int         `json:"key"`
	Predicate  string      `json:"predicate"`
	Evidence   string      `json:"evidence"`
	Confidence float64     `json:"confidence"`
	Sources    []SourceRef `json:"sources"`
}

func (r Relation) ID() EdgeID {
	return EdgeID{Subject: r.Subject, Object: r.Object, Key: r.Key}
}

// Clone returns a copy that shares no memory with r.
func (r Relation) Clone() Relation {
	r.Sources = CloneSources(r.Sources)
	return r
}
