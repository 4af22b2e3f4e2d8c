package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

type openAISpeechSynthesizer struct {
	ContentFetcher
	logger       outbound.LoggerPort
	openAIConfig *config.OpenAIConfig
}

func NewOpenAISpeechSynthesizer(contentFetcher ContentFetcher, openAIConfig *config.OpenAIConfig, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &openAISpeechSynthesizer{
		ContentFetcher: contentFetcher,
		logger:         logger,
		openAIConfig:   openAIConfig,
	}
}

// Synthesize streams the MP3 body back to the caller, who must close it.
func (o *openAISpeechSynthesizer) Synthesize(ctx context.Context, req outbound.SynthesizeSpeechRequest) (io.ReadCloser, error) {
	voice := req.Voice
	if voice == "" {
		voice = domain.DefaultVoice
	}

	jsonPayload, err := json.Marshal(speechRequest{
		Model:          o.openAIConfig.SpeechModel,
		Voice:          string(voice),
		Input:          req.Text,
		ResponseFormat: domain.AudioExtension,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.openAIConfig.SpeechUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		o.logger.ErrorWithFields(err, "Failed to create the HTTP POST request", map[string]interface{}{
			"URL": o.openAIConfig.SpeechUrl,
		})
		return nil, err
	}

	reqHeaders := map[string]string{
		"Accept":        domain.AudioMediaType,
		"Authorization": "Bearer " + o.openAIConfig.ApiKey,
		"Content-Type":  "application/json",
	}
	for key, value := range reqHeaders {
		httpReq.Header.Add(key, value)
	}

	return o.FetchStream(httpReq)
}
