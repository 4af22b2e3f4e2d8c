package inbound

import "github.com/jamieforrest/speakyer-proc/domain"

type TextChunkerPort interface {
	Chunk(text string) ([]domain.TextChunk, error)
}
