package inbound

import (
	"context"

	"github.com/jamieforrest/speakyer-proc/domain"
)

type ProcessResult struct {
	InputKey       string
	OutputLocation string
	TextKey        string
	AudioKey       string
	FeedItems      int
}

type PodcastPipelinePort interface {
	Process(ctx context.Context, request domain.ProcessingRequest) (*ProcessResult, error)
}
