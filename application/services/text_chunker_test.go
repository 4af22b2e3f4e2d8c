package services

import (
	"strings"
	"testing"

	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextChunker_Chunk(t *testing.T) {
	chunker := NewTextChunker(10)

	chunks, err := chunker.Chunk("first\n\nsecond\n   \nthird")
	require.NoError(t, err)

	assert.Equal(t, []domain.TextChunk{
		{Index: 0, Text: "first"},
		{Index: 1, Text: "second"},
		{Index: 2, Text: "third"},
	}, chunks)
}

func TestTextChunker_LineAtLimitIsKept(t *testing.T) {
	chunker := NewTextChunker(5)

	chunks, err := chunker.Chunk("héllo")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "héllo", chunks[0].Text)
}

func TestTextChunker_OversizedLineFails(t *testing.T) {
	chunker := NewTextChunker(domain.DefaultMaxChunkLength)

	text := "ok\n" + strings.Repeat("a", domain.DefaultMaxChunkLength+1) + "\nalso ok"
	chunks, err := chunker.Chunk(text)

	require.ErrorIs(t, err, domain.ErrLineTooLong)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, chunks)
}

func TestTextChunker_EmptyText(t *testing.T) {
	chunks, err := NewTextChunker(0).Chunk("\n\n")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTextChunker_OversizedBlankLineFails(t *testing.T) {
	chunker := NewTextChunker(8)

	chunks, err := chunker.Chunk("ok\n" + strings.Repeat(" ", 20) + "\n   \nend")

	require.ErrorIs(t, err, domain.ErrLineTooLong)
	assert.Contains(t, err.Error(), "line 2 has 20 characters")
	assert.Nil(t, chunks)
}
