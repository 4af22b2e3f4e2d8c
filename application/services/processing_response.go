package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

// ProcessingResponse maps a pipeline outcome to the response returned to callers.
func ProcessingResponse(request domain.ProcessingRequest, result *inbound.ProcessResult, err error) domain.Response {
	switch {
	case err == nil:
		return domain.SuccessResponse(fmt.Sprintf("Extracted text from %s stored in %s/%s and audio stored in %s/%s",
			result.InputKey, result.OutputLocation, result.TextKey, result.OutputLocation, result.AudioKey))
	case errors.Is(err, domain.ErrExtractionEmpty):
		return domain.ErrorResponse(fmt.Sprintf("Failed to extract text from %s", request.InputKey))
	case errors.Is(err, domain.ErrAlreadyProcessing):
		return domain.ErrorResponse(fmt.Sprintf("%s is already being processed", request.InputKey))
	case errors.Is(err, domain.ErrInvalidInput):
		return domain.ErrorResponse(fmt.Sprintf("Failed to process input: %s", err))
	default:
		return domain.ErrorResponse(fmt.Sprintf("Error processing %s: %s", request.InputKey, err))
	}
}

// HandleProcessing validates the boundary fields, runs the pipeline and records the outcome.
func HandleProcessing(ctx context.Context, pipeline inbound.PodcastPipelinePort, metrics outbound.MetricsPort,
	location string, inputKey string) domain.Response {
	request, err := domain.NewProcessingRequest(location, inputKey)
	if err != nil {
		response := ProcessingResponse(request, nil, err)
		metrics.PipelineOutcome(response.StatusCode)
		return response
	}

	result, err := pipeline.Process(ctx, request)
	response := ProcessingResponse(request, result, err)
	metrics.PipelineOutcome(response.StatusCode)
	return response
}
