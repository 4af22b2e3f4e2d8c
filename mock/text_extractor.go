package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
)

// EchoTextExtractor returns the raw payload, trimmed, as the extracted text.
type EchoTextExtractor struct {
	logger outbound.LoggerPort
	calls  atomic.Int64
}

func NewEchoTextExtractor(logger outbound.LoggerPort) *EchoTextExtractor {
	return &EchoTextExtractor{
		logger: logger,
	}
}

func (e *EchoTextExtractor) Extract(ctx context.Context, rawData string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.calls.Add(1)
	e.logger.DebugWithFields("Echoing raw payload as extracted text", map[string]interface{}{
		"raw_length": len(rawData),
	})
	return strings.TrimSpace(rawData), nil
}

func (e *EchoTextExtractor) Calls() int {
	return int(e.calls.Load())
}
