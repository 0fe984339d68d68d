package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/agenthands/biokag/internal/core"
	"github.com/agenthands/biokag/internal/core/answer"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/core/persist"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const documentJSON = `{
	"id": "PMC42",
	"sections": [{
		"name": "abstract",
		"entities": [
			{"type": "GENE", "text": "INS", "normalized_text": "ins", "start_pos": 4, "end_pos": 7},
			{"type": "DISEASE", "text": "Diabetes", "normalized_text": "diabetes", "start_pos": 30, "end_pos": 38}
		],
		"relations": [
			{"subject": {"type": "GENE", "text": "INS"}, "predicate": "ASSOCIATED_WITH",
			 "object": {"type": "DISEASE", "text": "Diabetes"}, "evidence": "INS variants", "confidence": 0.8}
		]
	}]
}`

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	k := core.New(nil, core.Options{
		MaxDepth: 1,
		Backend:  persist.NewFileBackend(),
		Location: filepath.Join(t.TempDir(), "kg.json"),
	})
	s := NewServer(k)
	return s, s.SetupRouter()
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAddDocumentAndAnswer(t *testing.T) {
	_, r := newTestServer(t)

	w := do(r, http.MethodPost, "/documents", documentJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"new_nodes":2`)

	w = do(r, http.MethodPost, "/answer", `{"question": "Which genes relate to diabetes?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Answer, answer.StubPrefix)
	assert.Len(t, res.Citations, 3)
	assert.Equal(t, []string{"DISEASE:diabetes"}, res.EntryNodes)

	w = do(r, http.MethodPost, "/answer", `{"question": "cancer?", "max_depth": 3}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, answer.NoKnowledge, res.Answer)
	assert.Empty(t, res.Citations)
}

func TestBadRequests(t *testing.T) {
	_, r := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/documents", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/documents", `{"id": "", "sections": []}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/answer", `{}`).Code)
}

func TestEntityEndpoints(t *testing.T) {
	_, r := newTestServer(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/documents", documentJSON).Code)

	w := do(r, http.MethodGet, "/entities?q=diab", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"DISEASE:diabetes"`)

	id := url.PathEscape("GENE:ins")
	w = do(r, http.MethodGet, "/entities/"+id+"/neighbors?predicate=ASSOCIATED_WITH", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"relation_type":"ASSOCIATED_WITH"`)
	assert.Contains(t, w.Body.String(), `"direction":"outgoing"`)

	w = do(r, http.MethodGet, "/entities/"+id+"/sources", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"document_id":"PMC42"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/entities/GENE:nope/neighbors", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/entities/GENE:nope/sources", "").Code)
}

func TestStatsSnapshotExport(t *testing.T) {
	s, r := newTestServer(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/documents", documentJSON).Code)

	w := do(r, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st model.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 2, st.NodeCount)
	assert.Equal(t, []string{"PMC42"}, st.Documents)

	w = do(r, http.MethodPost, "/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	_, err := persist.NewFileBackend().Load(t.Context(), s.KAG.Location)
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/export", "").Code)
}

func TestCommunities(t *testing.T) {
	_, r := newTestServer(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/documents", documentJSON).Code)

	w := do(r, http.MethodGet, "/communities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Communities []struct {
			Label   string   `json:"label"`
			Members []string `json:"members"`
		} `json:"communities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Communities, 1)
	assert.ElementsMatch(t, []string{"GENE:ins", "DISEASE:diabetes"}, res.Communities[0].Members)
}
