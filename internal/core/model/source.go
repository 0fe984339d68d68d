package model

import "time"

// SourceRef ties a fact back to the document location it was extracted from.
type SourceRef struct {
	DocumentID  string    `json:"document_id"`
	SectionName string    `json:"section_name"`
	StartPos    *int      `json:"start_pos,omitempty"`
	EndPos      *int      `json:"end_pos,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// CitationKey identifies a SourceRef for de-duplication. Timestamp is not part of it.
type CitationKey struct {
	DocumentID  string
	SectionName string
	HasStart    bool
	Start       int
	HasEnd      bool
	End         int
}

func (s SourceRef) CitationKey() CitationKey {
	k := CitationKey{DocumentID: s.DocumentID, SectionName: s.SectionName}
	if s.StartPos != nil {
		k.HasStart = true
		k.Start = *s.StartPos
	}
	if s.EndPos != nil {
		k.HasEnd = true
		k.End = *s.EndPos
	}
	return k
}

// Clone deep-copies the span pointers.
func (s SourceRef) Clone() SourceRef {
	if s.StartPos != nil {
		v := *s.StartPos
		s.StartPos = &v
	}
	if s.EndPos != nil {
		v := *s.EndPos
		s.EndPos = &v
	}
	return s
}

// NewSourceRef builds a provenance record. A nil span leaves both positions unset.
func NewSourceRef(documentID, section string, span *Span, now time.Time) SourceRef {
	ref := SourceRef{
		DocumentID:  documentID,
		SectionName: section,
		Timestamp:   now.UTC(),
	}
	if span != nil {
		ref.StartPos = IntPtr(span.Start)
		ref.EndPos = IntPtr(span.End)
	}
	return ref
}

// Span is a character range inside a section.
type Span struct {
	Start int
	End   int
}

func CloneSources(in []SourceRef) []SourceRef {
	out := make([]SourceRef, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func IntPtr(v int) *int {
	return &v
}
