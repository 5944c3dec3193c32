package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mgrain/sopchat/internal/models"
	"github.com/mgrain/sopchat/internal/types"
)

// ErrGeneration marks a failed answer turn: retrieval or model invocation
// errored. The turn is lost; nothing is retried.
var ErrGeneration = errors.New("answer generation failed")

const contextSeparator = "\n\n---\n\n"

// Completer is the slice of ChatEngine the generator needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator runs one grounded answer turn: top-k retrieval, prompt
// assembly, completion, latency measurement.
type Generator struct {
	engine Completer
	store  types.VectorStore
	topK   int
}

func NewGenerator(engine Completer, store types.VectorStore, topK int) *Generator {
	if topK <= 0 {
		topK = 5
	}
	return &Generator{
		engine: engine,
		store:  store,
		topK:   topK,
	}
}

// Answer retrieves context for the question and asks the model. SourceID is
// the rank-0 chunk, cited even when the answer drew on lower-ranked chunks.
// Latency spans retrieval through generation, in milliseconds.
func (g *Generator) Answer(ctx context.Context, question string) (*models.Answer, error) {
	start := time.Now()

	results, err := g.store.Query(ctx, question, g.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieving context: %v", ErrGeneration, err)
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}

	// With an empty corpus the context is empty and the grounding prompt
	// makes the model answer that it cannot find anything.
	text, err := g.engine.Complete(ctx, Prompt(strings.Join(texts, contextSeparator), question))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	answer := &models.Answer{
		Text:      text,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if len(results) > 0 {
		answer.SourceID = results[0].ID
	}
	return answer, nil
}
