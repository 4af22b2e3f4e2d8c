package outbound

import "context"

// TextExtractorPort returns the readable text of a raw message. An empty string with a
// nil error means the model produced no content.
type TextExtractorPort interface {
	Extract(ctx context.Context, rawData string) (string, error)
}
