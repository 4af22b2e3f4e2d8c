package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/donovanhide/eventsource"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/config"
)

const extractionPrompt = `Extract the readable content from the raw email data below and respond with just the readable content.
Don't just give me a summary; give me as much of the readable text as you can and remain as close to the original text as you can.
You should be showing me just the plain text from the raw data, suitable for sending to a text-to-speech model to read the text aloud.
Do not include any email metadata information like "from", "to", "subject", etc. Do not include any other explanation or text. ONLY include the readable text in your response.

Here is the raw data:
`

const DoneSignal = "[DONE]"

type chatCompletionRequest struct {
	Stream      bool          `json:"stream"`
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Index int `json:"index"`
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type openAITextExtractor struct {
	logger       outbound.LoggerPort
	openAIConfig *config.OpenAIConfig
}

func NewOpenAITextExtractor(openAIConfig *config.OpenAIConfig, logger outbound.LoggerPort) outbound.TextExtractorPort {
	return &openAITextExtractor{
		logger:       logger,
		openAIConfig: openAIConfig,
	}
}

// Extract streams the completion and joins the deltas. A stream that ends without any
// content yields "".
func (o *openAITextExtractor) Extract(ctx context.Context, rawData string) (string, error) {
	req, err := o.createRequest(ctx, extractionPrompt+rawData)
	if err != nil {
		o.logger.Error(err, "Failed to create HTTP request for text extraction")
		return "", err
	}

	o.logger.DebugWithFields("Sending extraction prompt", map[string]interface{}{
		"model":        o.openAIConfig.TextModel,
		"prompt_bytes": len(extractionPrompt) + len(rawData),
	})

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		var subscriptionErr eventsource.SubscriptionError
		if errors.As(err, &subscriptionErr) {
			o.logger.ErrorWithFields(err, "HTTP request returned non-OK status code", map[string]interface{}{
				"status":  subscriptionErr.Code,
				"message": subscriptionErr.Message,
			})
			return "", fmt.Errorf("HTTP request returned non-OK status code: %d", subscriptionErr.Code)
		}
		o.logger.Error(err, "Failed to subscribe to extraction stream")
		return "", err
	}
	defer stream.Close()

	var text strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-stream.Events:
			if !ok || ev.Data() == DoneSignal {
				return o.finish(text.String()), nil
			}
			content, err := o.extractPayload(ev)
			if err != nil {
				return "", err
			}
			text.WriteString(content)
		case err, ok := <-stream.Errors:
			if !ok || err == io.EOF {
				o.logger.Info("Extraction stream closed")
				return o.finish(text.String()), nil
			}
			o.logger.Error(err, "Error occurred during extraction stream")
			return "", err
		}
	}
}

func (o *openAITextExtractor) finish(text string) string {
	if text == "" {
		o.logger.Warn("Chat completion returned no content")
		return ""
	}
	o.logger.DebugWithFields("Received extracted text", map[string]interface{}{
		"text_bytes": len(text),
	})
	return text
}

func (o *openAITextExtractor) extractPayload(event eventsource.Event) (string, error) {
	var chunk chatCompletionChunk
	if err := json.Unmarshal([]byte(event.Data()), &chunk); err != nil {
		o.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
		return "", nil
	}
	return *chunk.Choices[0].Delta.Content, nil
}

func (o *openAITextExtractor) createRequest(ctx context.Context, prompt string) (*http.Request, error) {
	reqBody := chatCompletionRequest{
		Stream: true,
		Model:  o.openAIConfig.TextModel,
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Temperature: 0,
		MaxTokens:   o.openAIConfig.MaxTokens,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.openAIConfig.ChatUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+o.openAIConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
