package answer

import (
	"context"
	"fmt"

	"github.com/agenthands/biokag/internal/core/kg"
	"github.com/agenthands/biokag/internal/core/model"
	"github.com/agenthands/biokag/internal/core/retrieval"
	"github.com/agenthands/biokag/internal/logger"
)

// NoKnowledge is the answer returned when no node matches the question.
const NoKnowledge = "No relevant information found in KG."

const DefaultMaxDepth = 1

type Answerer struct {
	Tokenizer   retrieval.Tokenizer
	Synthesizer Synthesizer
	MaxDepth    int
}

func NewAnswerer(s Synthesizer, maxDepth int) *Answerer {
	if s == nil {
		s = StubSynthesizer{}
	}
	return &Answerer{Tokenizer: retrieval.ASCIITokenizer{}, Synthesizer: s, MaxDepth: maxDepth}
}

// Answer runs the whole retrieval pipeline for question against g. When no
// entry node matches, it returns NoKnowledge without traversing or calling the
// synthesizer.
func (a *Answerer) Answer(ctx context.Context, question string, g *kg.Graph) (model.QueryResult, error) {
	return a.AnswerWithDepth(ctx, question, g, a.MaxDepth)
}

func (a *Answerer) AnswerWithDepth(ctx context.Context, question string, g *kg.Graph, depth int) (model.QueryResult, error) {
	tokens := a.Tokenizer.Tokenize(question)
	entries := retrieval.IdentifyEntryNodes(g, tokens)
	if len(entries) == 0 {
		logger.Debug("no entry nodes", "tokens", len(tokens))
		return model.QueryResult{Answer: NoKnowledge, Citations: []model.SourceRef{}}, nil
	}

	sub := retrieval.Traverse(g, entries, depth)
	logger.Debug("retrieved sub-graph",
		"entries", len(entries), "depth", depth,
		"nodes", sub.NodeCount(), "edges", sub.EdgeCount())

	text, err := a.Synthesizer.Synthesize(ctx, question, FormatContext(sub))
	if err != nil {
		return model.QueryResult{}, fmt.Errorf("failed to synthesize answer: %w", err)
	}

	return model.QueryResult{
		Answer:     text,
		Citations:  GatherCitations(sub),
		EntryNodes: entries,
	}, nil
}
