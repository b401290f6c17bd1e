package cognee

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextParagraphPacking(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."
	chunks := chunkText("test", "doc-1", text, 40, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", chunks[0].Text)
	assert.Equal(t, "Third paragraph.", chunks[1].Text)
	assert.Equal(t, 0, chunks[0].ChunkIndex)
	assert.Equal(t, 1, chunks[1].ChunkIndex)
	assert.Equal(t, "test", chunks[0].Dataset)
	assert.Equal(t, "doc-1", chunks[0].SourceID)
}

func TestChunkTextOversizedParagraph(t *testing.T) {
	text := strings.Repeat("word ", 50)
	chunks := chunkText("test", "", text, 60, 0)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 60)
		require.NoError(t, chunk.Validate())
	}
}

func TestChunkTextDeterministicIDs(t *testing.T) {
	text := "Stable content.\n\nMore stable content."
	first := chunkText("test", "doc-1", text, 1024, 0)
	second := chunkText("test", "doc-1", text, 1024, 0)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	// A different source produces different identities for the same text.
	other := chunkText("test", "doc-2", text, 1024, 0)
	assert.NotEqual(t, first[0].ID, other[0].ID)
}

func TestChunkTextBlankInput(t *testing.T) {
	assert.Empty(t, chunkText("test", "", "   \n\n  ", 1024, 0))
}
