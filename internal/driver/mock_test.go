package driver

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type call struct {
	Query  string
	Params map[string]interface{}
}

type MockDriver struct {
	mu           sync.Mutex
	Calls        []call
	IndicesBuilt bool
	FailOn       string
	Err          error
	MockResult   neo4j.EagerResult
	Delay        time.Duration

	inflight    map[string]int
	MaxInflight map[string]int
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, call{Query: query, Params: params})
	if m.inflight == nil {
		m.inflight = make(map[string]int)
		m.MaxInflight = make(map[string]int)
	}
	m.inflight[query]++
	m.MaxInflight[query] = max(m.MaxInflight[query], m.inflight[query])
	m.mu.Unlock()

	time.Sleep(m.Delay)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight[query]--
	if m.FailOn != "" && strings.Contains(query, m.FailOn) {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	m.IndicesBuilt = true
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func (m *MockDriver) rows(query string) []map[string]any {
	var out []map[string]any
	for _, c := range m.Calls {
		if c.Query == query {
			out = append(out, c.Params["rows"].([]map[string]any)...)
		}
	}
	return out
}

func (m *MockDriver) count(query string) int {
	n := 0
	for _, c := range m.Calls {
		if c.Query == query {
			n++
		}
	}
	return n
}
