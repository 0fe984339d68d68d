package model

// Entity is a resolved biomedical concept in the graph.
type Entity struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	Text           string      `json:"text"`
	NormalizedText string      `json:"normalized_text"`
	Sources        []SourceRef `json:"sources"`
}

// Clone returns a copy that shares no memory with e.
func (e Entity) Clone() Entity {
	e.Sources = CloneSources(e.Sources)
	return e
}
