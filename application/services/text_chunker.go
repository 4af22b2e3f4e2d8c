package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type textChunker struct {
	maxLength int
}

func NewTextChunker(maxLength int) inbound.TextChunkerPort {
	if maxLength <= 0 {
		maxLength = domain.DefaultMaxChunkLength
	}
	return &textChunker{
		maxLength: maxLength,
	}
}

// Chunk emits one chunk per non-blank line, in input order. A line longer than maxLength
// characters fails the whole call, blank or not; lines are never split or truncated.
func (c *textChunker) Chunk(text string) ([]domain.TextChunk, error) {
	chunks := make([]domain.TextChunk, 0)
	for lineNo, line := range strings.Split(text, "\n") {
		if length := utf8.RuneCountInString(line); length > c.maxLength {
			return nil, fmt.Errorf("%w: line %d has %d characters, max is %d",
				domain.ErrLineTooLong, lineNo+1, length, c.maxLength)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		chunks = append(chunks, domain.TextChunk{
			Index: len(chunks),
			Text:  line,
		})
	}
	return chunks, nil
}
