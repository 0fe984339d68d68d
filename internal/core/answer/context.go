// Package answer turns a retrieved sub-graph into an answer: a textual
// context for the synthesizer and a de-duplicated list of citations.
package answer

import (
	"strings"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
)

// FormatContext renders one ENTITY line per node followed by one RELATION
// line per edge, in insertion order.
func FormatContext(sub *kg.Graph) string {
	var lines []string
	for _, e := range sub.Entities() {
		lines = append(lines, "ENTITY ["+orUnknown(e.Type)+"] "+e.Text)
	}
	for _, r := range sub.Relations() {
		subj, _ := sub.Entity(r.Subject)
		obj, _ := sub.Entity(r.Object)
		lines = append(lines, "RELATION ("+orUnknown(r.Predicate)+") "+subj.Text+" -> "+obj.Text)
	}
	return strings.Join(lines, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// GatherCitations collects the sources of every node and then every edge,
// keeping the first occurrence of each (document, section, start, end).
func GatherCitations(sub *kg.Graph) []model.SourceRef {
	citations := []model.SourceRef{}
	seen := make(map[model.CitationKey]struct{})
	add := func(refs []model.SourceRef) {
		for _, ref := range refs {
			k := ref.CitationKey()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			citations = append(citations, ref)
		}
	}

	for _, e := range sub.Entities() {
		add(e.Sources)
	}
	for _, r := range sub.Relations() {
		add(r.Sources)
	}
	return citations
}
