//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/biokag/internal/core"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/driver"
	"github.com/joho/godotenv"
)

func sampleDocument() model.Document {
	return model.Document{
		ID: "PMC-" + uuid.New().String(),
		Sections: []model.Section{{
			Name: "abstract",
			Entities: []model.EntityRecord{
				{Type: "GENE", Text: "APOE", NormalizedText: "apoe", StartPos: model.IntPtr(0), EndPos: model.IntPtr(4)},
				{Type: "DISEASE", Text: "Alzheimer's disease", NormalizedText: "alzheimer s disease", StartPos: model.IntPtr(20), EndPos: model.IntPtr(39)},
			},
			Relations: []model.RelationRecord{{
				Subject:    model.Endpoint{Type: "GENE", Text: "APOE"},
				Predicate:  "ASSOCIATED_WITH",
				Object:     model.Endpoint{Type: "DISEASE", Text: "Alzheimer's disease"},
				Confidence: 0.9,
			}},
		}},
	}
}

func TestMemgraphExport(t *testing.T) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	ctx := context.Background()

	d, err := driver.NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"))
	require.NoError(t, err)
	defer d.Close(ctx)

	k := core.New(nil, core.Options{Driver: d})
	_, err = k.IngestDocument(sampleDocument())
	require.NoError(t, err)

	report, err := k.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Entities)

	nodes, edges, err := k.Exporter.Count(ctx, report.GraphID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), nodes)
	assert.Equal(t, int64(1), edges)

	// A second export replaces rather than duplicates.
	_, err = k.Export(ctx)
	require.NoError(t, err)
	nodes, _, err = k.Exporter.Count(ctx, report.GraphID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), nodes)

	_, err = d.ExecuteQuery(ctx, driver.DeleteGraphQuery, map[string]interface{}{"graph_id": report.GraphID})
	require.NoError(t, err)
}
