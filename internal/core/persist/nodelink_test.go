package persist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var savedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func sampleGraph(t *testing.T) *kg.Graph {
	t.Helper()
	g := kg.New()
	g.Meta.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	id, err := g.UpsertEntity(model.EntityRecord{Type: "DISEASE", Text: "Diabetes", NormalizedText: "diabetes"})
	require.NoError(t, err)
	require.NoError(t, g.AttachSourceToEntity(id, model.NewSourceRef("PMC1", "abstract", &model.Span{Start: 0, End: 8}, savedAt)))

	rel := model.RelationRecord{
		Subject:    model.Endpoint{Type: "GENE", Text: "INS"},
		Predicate:  "ASSOCIATED_WITH",
		Object:     model.Endpoint{ID: id, Type: "DISEASE"},
		Evidence:   "INS is linked to diabetes",
		Confidence: 0.75,
	}
	for i := 0; i < 2; i++ {
		eid, err := g.UpsertRelation(rel)
		require.NoError(t, err)
		require.NoError(t, g.AttachSourceToRelation(eid, model.NewSourceRef("PMC1", "results", nil, savedAt)))
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	g := sampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, savedAt))

	loaded, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, g.Meta, loaded.Meta)
	assert.Equal(t, g.Entities(), loaded.Entities())
	assert.Equal(t, g.Relations(), loaded.Relations())
	assert.Equal(t, g.Statistics(), loaded.Statistics())
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleGraph(t), savedAt))
	out := buf.String()

	for _, want := range []string{`"directed": true`, `"multigraph": true`, `"links"`, `"node_count": 2`, `"edge_count": 2`, `"key": 1`, `"schema_version": "1.0"`} {
		assert.Contains(t, out, want)
	}
}

func TestDecodeKeylessLinks(t *testing.T) {
	data := `{
		"directed": true, "multigraph": true, "graph": {},
		"nodes": [{"id": "GENE:a", "type": "GENE"}, {"id": "GENE:b", "type": "GENE"}],
		"links": [
			{"source": "GENE:a", "target": "GENE:b", "key": 0, "predicate": "p"},
			{"source": "GENE:a", "target": "GENE:b", "predicate": "q"}
		]
	}`
	g, err := Decode(strings.NewReader(data))
	require.NoError(t, err)
	rels := g.Relations()
	require.Len(t, rels, 2)
	assert.Equal(t, 1, rels[1].Key)
	assert.Equal(t, kg.SchemaVersion, g.Meta.SchemaVersion)
}

func TestDecodeFormatErrors(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"nodes": [`,
		"node without id": `{"nodes": [{"type": "GENE"}], "links": []}`,
		"duplicate node":  `{"nodes": [{"id": "a"}, {"id": "a"}], "links": []}`,
		"dangling link":   `{"nodes": [{"id": "a"}], "links": [{"source": "a", "target": "b", "key": 0}]}`,
		"duplicate key":   `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"source": "a", "target": "b", "key": 0}, {"source": "a", "target": "b", "key": 0}]}`,
		"bad confidence":  `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"source": "a", "target": "b", "key": 0, "confidence": 2}]}`,
		"count mismatch":  `{"nodes": [{"id": "a"}], "links": [], "metadata": {"node_count": 3, "edge_count": 0}}`,
		"bad source":      `{"nodes": [{"id": "a", "sources": [{"section_name": "abstract"}]}], "links": []}`,
		"empty object":    `{}`,
		"null":            `null`,
		"null nodes":      `{"nodes": null, "links": []}`,
		"missing links":   `{"nodes": []}`,
		"unrelated":       `{"a": 1}`,
		"array":           `[]`,
		"number":          `42`,
		"trailing data":   `{"nodes": [], "links": []} {"x": 1}`,
		"trailing brace":  `{"nodes": [], "links": []}}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			g, err := Decode(strings.NewReader(data))
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestDecodeEmptyGraph(t *testing.T) {
	g, err := Decode(strings.NewReader(`{"nodes": [], "links": []}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	b := NewFileBackend()
	b.Now = func() time.Time { return savedAt }
	path := filepath.Join(t.TempDir(), "nested", "dir", "kg.json")

	g := sampleGraph(t)
	require.NoError(t, b.Save(ctx, g, path))

	loaded, err := b.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, g.Relations(), loaded.Relations())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestFileBackendLoadErrors(t *testing.T) {
	ctx := context.Background()
	b := NewFileBackend()
	dir := t.TempDir()

	_, err := b.Load(ctx, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("not json"), 0o644))
	_, err = b.Load(ctx, corrupt)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, corrupt, fe.Path)
}
