package cognee

import (
	"fmt"
	"strings"

	"github.com/cognee-oss/cognee-go/pkg/identity"
	"github.com/cognee-oss/cognee-go/pkg/types"
)

// DefaultChunkSize is the character budget per chunk when Config.ChunkSize
// is unset. Small enough for one extraction prompt, large enough to keep
// related sentences together.
const DefaultChunkSize = 1024

// chunkText splits one document into DocumentChunks. Paragraphs are packed
// greedily up to the size budget; a single paragraph over budget is split on
// word boundaries. Chunk ids derive from dataset, source, position and text,
// so re-ingesting an unchanged document produces the same chunk identities.
func chunkText(dataset, sourceID, text string, size int, startIndex int) []*types.DocumentChunk {
	paragraphs := strings.Split(text, "\n\n")

	var pieces []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			pieces = append(pieces, current.String())
			current.Reset()
		}
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) > size {
			flush()
			pieces = append(pieces, splitWords(para, size)...)
			continue
		}
		if current.Len() > 0 && current.Len()+2+len(para) > size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	chunks := make([]*types.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		index := startIndex + i
		chunks = append(chunks, &types.DocumentChunk{
			ID:         identity.GenerateID(fmt.Sprintf("%s|%s|%d|%s", dataset, sourceID, index, piece)),
			Text:       piece,
			ChunkIndex: index,
			Dataset:    dataset,
			SourceID:   sourceID,
		})
	}
	return chunks
}

// splitWords hard-splits an oversized paragraph on word boundaries. A single
// word longer than the budget becomes its own piece.
func splitWords(text string, size int) []string {
	words := strings.Fields(text)

	var pieces []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > size {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}
