package lambda_interface

import (
	"context"
	"encoding/json"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/application/services"
	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/jamieforrest/speakyer-proc/infrastructure/adapters"
)

type ProcessEvent struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type ProcessHandler func(ctx context.Context, event ProcessEvent) (domain.Response, error)

type FilterHandler func(ctx context.Context, event json.RawMessage) (domain.Response, error)

// NewProcessHandler never returns an error to the runtime; failures are reported in the
// response so the invoker is not retried automatically.
func NewProcessHandler(pipeline inbound.PodcastPipelinePort, metrics outbound.MetricsPort) ProcessHandler {
	return func(ctx context.Context, event ProcessEvent) (domain.Response, error) {
		return services.HandleProcessing(ctx, pipeline, metrics, event.Bucket, event.Key), nil
	}
}

func NewFilterHandler(logger outbound.LoggerPort, filter inbound.SenderFilterPort) FilterHandler {
	return func(ctx context.Context, event json.RawMessage) (domain.Response, error) {
		email, err := adapters.ParseSESNotification(event)
		if err != nil {
			logger.Error(err, "Failed to parse inbound event")
			return domain.ErrorResponse("Error processing email: " + err.Error()), nil
		}
		return filter.Accept(ctx, email), nil
	}
}
