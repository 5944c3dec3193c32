package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgrain/sopchat/internal/models"
	"github.com/mgrain/sopchat/internal/types"
	"github.com/mgrain/sopchat/pkg/session"
)

// Phase is the session state machine: Bootstrap until the store holds
// chunks, Ready afterwards. The guard is the store count, evaluated once
// per interaction, so the phase survives process restarts.
type Phase int

const (
	PhaseBootstrap Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "bootstrap"
}

var (
	// ErrBootstrapRequired rejects questions before any document is indexed.
	ErrBootstrapRequired = errors.New("no runbook indexed yet: upload a document first")
	// ErrAlreadyIndexed rejects uploads while a document is indexed; reset first.
	ErrAlreadyIndexed = errors.New("a runbook is already indexed: reset before uploading another")
)

// Assistant wires upload -> extract -> chunk -> index and
// question -> retrieve -> generate -> history. One instance per deployment;
// the store and generator it holds are the process-wide singletons built by
// the composition root.
type Assistant struct {
	extractor types.Extractor
	chunker   types.Chunker
	store     types.VectorStore
	generator types.Generator
	session   *session.Session
	batchSize int

	// OnIndexed, when set, receives (indexed, total) after each upsert
	// batch during Upload. Used by the CLI progress bar.
	OnIndexed func(done, total int)
}

func New(extractor types.Extractor, chunker types.Chunker, store types.VectorStore, generator types.Generator, sess *session.Session, batchSize int) *Assistant {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Assistant{
		extractor: extractor,
		chunker:   chunker,
		store:     store,
		generator: generator,
		session:   sess,
		batchSize: batchSize,
	}
}

func (a *Assistant) Phase(ctx context.Context) (Phase, error) {
	count, err := a.store.Count(ctx)
	if err != nil {
		return PhaseBootstrap, fmt.Errorf("failed to check store state: %w", err)
	}
	if count == 0 {
		return PhaseBootstrap, nil
	}
	return PhaseReady, nil
}

// Upload runs the bootstrap pipeline for one document and returns the
// number of chunks indexed. Ids are deterministic ("chunk-<i>") so answer
// citations stay stable across re-uploads of the same document.
func (a *Assistant) Upload(ctx context.Context, path string) (int, error) {
	phase, err := a.Phase(ctx)
	if err != nil {
		return 0, err
	}
	if phase != PhaseBootstrap {
		return 0, ErrAlreadyIndexed
	}

	text, err := a.extractor.Extract(path)
	if err != nil {
		return 0, err
	}

	pieces, err := a.chunker.Chunk(text)
	if err != nil {
		return 0, err
	}

	chunks := make([]models.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.Chunk{
			ID:    fmt.Sprintf("chunk-%d", i),
			Text:  piece,
			Index: i,
		}
	}

	for start := 0; start < len(chunks); start += a.batchSize {
		end := start + a.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := a.store.Upsert(ctx, chunks[start:end]); err != nil {
			return start, err
		}
		if a.OnIndexed != nil {
			a.OnIndexed(end, len(chunks))
		}
	}

	return len(chunks), nil
}

// Ask answers one question in the Ready phase and appends the turn to the
// session. On generation failure the user message stays in the history as
// an unanswered turn; the transcript shows what was actually asked.
func (a *Assistant) Ask(ctx context.Context, question string) (*models.Answer, error) {
	phase, err := a.Phase(ctx)
	if err != nil {
		return nil, err
	}
	if phase != PhaseReady {
		return nil, ErrBootstrapRequired
	}

	a.session.AppendUser(question)

	answer, err := a.generator.Answer(ctx, question)
	if err != nil {
		return nil, err
	}

	a.session.AppendAssistant(answer.Text, models.MessageMeta{
		Source:    answer.SourceID,
		LatencyMS: answer.LatencyMS,
	})

	return answer, nil
}

// Reset clears the index and returns the deployment to the Bootstrap
// phase. The session history is deliberately kept; it belongs to the
// conversation, not the document.
func (a *Assistant) Reset(ctx context.Context) error {
	return a.store.DeleteCollection(ctx)
}

// History returns the session transcript in chat order.
func (a *Assistant) History() []models.Message {
	return a.session.Messages()
}
