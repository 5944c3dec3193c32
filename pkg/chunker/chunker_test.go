package chunker_test

import (
	"strings"
	"testing"

	"github.com/mgrain/sopchat/pkg/chunker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_WindowOffsets(t *testing.T) {
	// 2500 bytes, size 1000, overlap 200: windows start at 0, 800, 1600, 2400.
	text := strings.Repeat("a", 2500)

	chunks, err := chunker.Split(text, 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	assert.Len(t, chunks[0], 1000)
	assert.Len(t, chunks[1], 1000)
	assert.Len(t, chunks[2], 1000)
	assert.Len(t, chunks[3], 100)
}

func TestSplit_Reconstruction(t *testing.T) {
	text := "The incident commander pages the on-call engineer. Severity is assessed within five minutes of detection and every update goes to the status channel."
	size := 40
	overlap := 10

	chunks, err := chunker.Split(text, size, overlap)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Dropping each chunk's leading overlap bytes and concatenating must
	// reproduce the input exactly.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		assert.Equal(t, prev[len(prev)-overlap:], chunks[i][:overlap],
			"chunks %d and %d must overlap by exactly %d bytes", i-1, i, overlap)
		rebuilt.WriteString(chunks[i][overlap:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_ShortText(t *testing.T) {
	chunks, err := chunker.Split("short", 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short", chunks[0])
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := chunker.Split("", 1000, 200)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ZeroOverlap(t *testing.T) {
	chunks, err := chunker.Split("abcdefghij", 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunks)
}

func TestSplit_InvalidArguments(t *testing.T) {
	_, err := chunker.Split("text", 0, 0)
	assert.Error(t, err)

	_, err = chunker.Split("text", 100, 100)
	assert.Error(t, err, "overlap equal to size would never terminate")

	_, err = chunker.Split("text", 100, 150)
	assert.Error(t, err)

	_, err = chunker.Split("text", 100, -1)
	assert.Error(t, err)
}

func TestChunker_Defaults(t *testing.T) {
	c := chunker.NewWithConfig(chunker.ChunkerConfig{})

	text := strings.Repeat("x", 2500)
	chunks, err := c.Chunk(text)
	require.NoError(t, err)
	assert.Len(t, chunks, 4)
}
