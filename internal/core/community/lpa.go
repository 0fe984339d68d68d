// Package community groups related entities of a knowledge graph using
// label propagation over the undirected relation structure.
package community

import (
	"sort"

	"github.com/agenthands/biokag/internal/core/kg"
)

// Cluster is a group of at least two densely connected entities.
type Cluster struct {
	Label   string   `json:"label"`
	Members []string `json:"members"`
}

// LabelPropagationDetector implements community detection using the Label
// Propagation Algorithm. Parallel relations count as a stronger connection.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

// Detect returns the clusters of g, largest first. Nodes are visited in
// insertion order and ties resolve to the lexicographically largest label,
// so the result is stable for a given graph.
func (d *LabelPropagationDetector) Detect(g *kg.Graph) []Cluster {
	entities := g.Entities()
	if len(entities) == 0 {
		return nil
	}

	adj := make(map[string]map[string]int, len(entities))
	order := make([]string, len(entities))
	labels := make(map[string]string, len(entities))
	for i, e := range entities {
		adj[e.ID] = make(map[string]int)
		order[i] = e.ID
		labels[e.ID] = e.ID
	}

	for _, r := range g.Relations() {
		if r.Subject == r.Object {
			continue
		}
		adj[r.Subject][r.Object]++
		adj[r.Object][r.Subject]++
	}

	iterations := d.MaxIterations
	if iterations <= 0 {
		iterations = 1
	}
	for iter := 0; iter < iterations; iter++ {
		changed := 0
		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			counts := make(map[string]int)
			best := 0
			for v, weight := range neighbors {
				counts[labels[v]] += weight
				if counts[labels[v]] > best {
					best = counts[labels[v]]
				}
			}

			var candidates []string
			for label, c := range counts {
				if c == best {
					candidates = append(candidates, label)
				}
			}
			sort.Strings(candidates)
			next := candidates[len(candidates)-1]

			if labels[u] != next {
				labels[u] = next
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	groups := make(map[string][]string)
	for _, id := range order {
		groups[labels[id]] = append(groups[labels[id]], id)
	}

	var out []Cluster
	for label, members := range groups {
		if len(members) >= 2 {
			out = append(out, Cluster{Label: label, Members: members})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Members) != len(out[j].Members) {
			return len(out[i].Members) > len(out[j].Members)
		}
		return out[i].Label < out[j].Label
	})
	return out
}
