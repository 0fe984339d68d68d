package model

// EntityRecord is one entity mention produced by an upstream extractor.
type EntityRecord struct {
	Type           string `json:"type" validate:"required,excludes=:"`
	Text           string `json:"text"`
	NormalizedText string `json:"normalized_text" validate:"required"`
	StartPos       *int   `json:"start_pos,omitempty" validate:"omitempty,min=0"`
	EndPos         *int   `json:"end_pos,omitempty" validate:"omitempty,min=0"`
}

// Span returns the mention's character range, or nil when either end is missing.
func (r EntityRecord) Span() *Span {
	if r.StartPos == nil || r.EndPos == nil {
		return nil
	}
	return &Span{Start: *r.StartPos, End: *r.EndPos}
}

// Endpoint references the subject or object of a relation record. When ID is
// empty the node identity is derived from Type and Text.
type Endpoint struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type" validate:"required,excludes=:"`
	Text string `json:"text" validate:"required_without=ID"`
}

// RelationRecord is one relation produced by an upstream extractor.
type RelationRecord struct {
	Subject    Endpoint `json:"subject"`
	Predicate  string   `json:"predicate" validate:"required"`
	Object     Endpoint `json:"object"`
	Evidence   string   `json:"evidence"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=1"`
}

// Section groups the records extracted from one named part of a document.
type Section struct {
	Name      string           `json:"name"`
	Entities  []EntityRecord   `json:"entities"`
	Relations []RelationRecord `json:"relations"`
}

// Document is the extraction output for a single source document.
type Document struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}
