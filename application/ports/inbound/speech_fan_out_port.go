package inbound

import (
	"context"

	"github.com/jamieforrest/speakyer-proc/domain"
)

type SynthesizeChunksParams struct {
	Chunks  []domain.TextChunk
	Voice   domain.Voice
	WorkDir string
}

// SpeechFanOutPort synthesizes every chunk concurrently and returns the fragments so that
// fragment[i] belongs to chunk[i], whatever order the calls finished in.
type SpeechFanOutPort interface {
	Synthesize(ctx context.Context, params SynthesizeChunksParams) ([]domain.AudioFragment, error)
}
