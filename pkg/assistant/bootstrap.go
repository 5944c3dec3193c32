package assistant

import (
	"errors"
	"fmt"

	"github.com/mgrain/sopchat/pkg/chunker"
	"github.com/mgrain/sopchat/pkg/config"
	"github.com/mgrain/sopchat/pkg/extractor"
	"github.com/mgrain/sopchat/pkg/llm"
	"github.com/mgrain/sopchat/pkg/session"
	"github.com/mgrain/sopchat/pkg/store"
)

// ErrInitialization marks missing credentials or an unreachable store at
// startup. Nothing works until it is resolved.
var ErrInitialization = errors.New("initialization failed")

// Build is the composition root: it constructs the embedder, store and
// chat engine exactly once and hands them to a single Assistant. Both the
// CLI and the server go through here instead of constructing clients at
// call sites. The returned func closes the store pool.
func Build(cfg *config.Config) (*Assistant, func(), error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInitialization, errs[0])
	}

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:   cfg.Embedder.Model,
		BaseURL: cfg.Embedder.BaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}

	vectorStore, err := store.NewWithConfig(store.VectorStoreConfig{
		ConnString:  cfg.Database.URL,
		TableName:   cfg.Database.TableName,
		VectorDim:   cfg.Database.VectorDim,
		SearchLimit: cfg.Retrieval.TopK,
	}, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}

	engine, err := llm.NewWithConfig(llm.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		RateLimit:   cfg.LLM.RateLimit,
	})
	if err != nil {
		vectorStore.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrInitialization, err)
	}

	a := New(
		extractor.New(),
		chunker.NewWithConfig(chunker.ChunkerConfig{
			Size:    cfg.Chunker.Size,
			Overlap: cfg.Chunker.Overlap,
		}),
		vectorStore,
		llm.NewGenerator(engine, vectorStore, cfg.Retrieval.TopK),
		session.New(),
		cfg.Retrieval.BatchSize,
	)

	return a, vectorStore.Close, nil
}
