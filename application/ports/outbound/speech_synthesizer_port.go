package outbound

import (
	"context"
	"io"

	"github.com/jamieforrest/speakyer-proc/domain"
)

type SynthesizeSpeechRequest struct {
	Text  string
	Voice domain.Voice
}

type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, req SynthesizeSpeechRequest) (io.ReadCloser, error)
}
