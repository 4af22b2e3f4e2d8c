package mock

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
)

// 128 kbps, 44.1 kHz, mono MPEG-1 Layer III frame with empty side info.
var silentFrameHeader = []byte{0xFF, 0xFB, 0x90, 0xC4}

const (
	silentFrameSize     = 417
	silentFramesASecond = 39
)

// SilentMP3 returns roughly the given number of seconds of silent MP3 frames.
func SilentMP3(seconds int) []byte {
	if seconds < 1 {
		seconds = 1
	}
	frame := make([]byte, silentFrameSize)
	copy(frame, silentFrameHeader)
	return bytes.Repeat(frame, seconds*silentFramesASecond)
}

type CannedSpeechOption func(*CannedSpeechSynthesizer)

// WithDelay makes every call sleep for delay(text) before answering.
func WithDelay(delay func(text string) time.Duration) CannedSpeechOption {
	return func(c *CannedSpeechSynthesizer) {
		c.delay = delay
	}
}

// WithFailure makes calls for which fail(text) is true return err.
func WithFailure(fail func(text string) bool, err error) CannedSpeechOption {
	return func(c *CannedSpeechSynthesizer) {
		c.fail = fail
		c.failErr = err
	}
}

// WithPerTextAudio answers with the text itself appended to the canned audio, so tests can
// tell fragments apart after reassembly.
func WithPerTextAudio() CannedSpeechOption {
	return func(c *CannedSpeechSynthesizer) {
		c.perText = true
	}
}

// CannedSpeechSynthesizer answers every synthesis call with the same audio payload.
type CannedSpeechSynthesizer struct {
	logger  outbound.LoggerPort
	audio   []byte
	delay   func(text string) time.Duration
	fail    func(text string) bool
	failErr error
	perText bool

	calls atomic.Int64
	mu    sync.Mutex
	texts []string
}

func NewCannedSpeechSynthesizer(logger outbound.LoggerPort, audio []byte, opts ...CannedSpeechOption) *CannedSpeechSynthesizer {
	if len(audio) == 0 {
		audio = SilentMP3(1)
	}
	c := &CannedSpeechSynthesizer{
		logger: logger,
		audio:  audio,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCannedSpeechSynthesizerFromFile uses the file contents as the canned audio. An empty
// fileName falls back to one second of silence.
func NewCannedSpeechSynthesizerFromFile(logger outbound.LoggerPort, fileName string) (*CannedSpeechSynthesizer, error) {
	if fileName == "" {
		return NewCannedSpeechSynthesizer(logger, nil), nil
	}
	audio, err := os.ReadFile(fileName)
	if err != nil {
		logger.Error(err, "failed to read canned audio file")
		return nil, err
	}
	return NewCannedSpeechSynthesizer(logger, audio), nil
}

func (c *CannedSpeechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) (io.ReadCloser, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.texts = append(c.texts, req.Text)
	c.mu.Unlock()

	if c.delay != nil {
		select {
		case <-time.After(c.delay(req.Text)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.fail != nil && c.fail(req.Text) {
		return nil, fmt.Errorf("canned synthesis of %q: %w", req.Text, c.failErr)
	}

	payload := c.audio
	if c.perText {
		payload = append(append([]byte{}, c.audio...), req.Text...)
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (c *CannedSpeechSynthesizer) Calls() int {
	return int(c.calls.Load())
}

// Texts returns the synthesized texts in call order.
func (c *CannedSpeechSynthesizer) Texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.texts...)
}
