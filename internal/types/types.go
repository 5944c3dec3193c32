package types

import (
	"context"

	"github.com/mgrain/sopchat/internal/models"
)

// Core interfaces

// Extractor converts a document file into plain text, one line per
// paragraph or flattened table row, in body order.
type Extractor interface {
	Extract(path string) (string, error)
}

// Chunker splits extracted text into overlapping segments.
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// VectorStore persists chunks and answers similarity queries. Embedding is
// the store's concern; callers pass plain text.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []models.Chunk) error
	Query(ctx context.Context, text string, n int) ([]models.SearchResult, error)
	Count(ctx context.Context) (int, error)
	DeleteCollection(ctx context.Context) error
	Close()
}

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces a grounded answer for a question.
type Generator interface {
	Answer(ctx context.Context, question string) (*models.Answer, error)
}
