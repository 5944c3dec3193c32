package chunker

import "fmt"

type ChunkerConfig struct {
	Size    int
	Overlap int
}

type Chunker struct {
	config ChunkerConfig
}

func NewWithConfig(config ChunkerConfig) Chunker {
	if config.Size == 0 {
		config.Size = 1000
	}
	if config.Overlap == 0 {
		config.Overlap = 200
	}

	return Chunker{
		config: config,
	}
}

// Chunk splits text into windows using the configured size and overlap.
func (c Chunker) Chunk(text string) ([]string, error) {
	return Split(text, c.config.Size, c.config.Overlap)
}

// Split slices text into windows of size bytes, each window starting
// size-overlap bytes after the previous one. The last window may be shorter
// than size. Splitting is purely positional; chunks can start or end
// mid-word, which keeps the reconstruction property exact at the cost of
// sentence awareness.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must satisfy 0 <= overlap < size, got size=%d overlap=%d", size, overlap)
	}
	if len(text) == 0 {
		return nil, nil
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(text); start += step {
		end := start + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}

	return chunks, nil
}
