package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpenAIConfig(serverURL string) *config.OpenAIConfig {
	return &config.OpenAIConfig{
		ApiKey:      "sk-test",
		ChatUrl:     serverURL + "/v1/chat/completions",
		SpeechUrl:   serverURL + "/v1/audio/speech",
		TextModel:   "gpt-4o-mini",
		MaxTokens:   16383,
		SpeechModel: "tts-1",
		Timeout:     5 * time.Second,
	}
}

func writeEvents(w http.ResponseWriter, events ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	for _, event := range events {
		_, _ = fmt.Fprintf(w, "data: %s\n\n", event)
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func TestOpenAITextExtractor_Extract(t *testing.T) {
	var received chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeEvents(w,
			`{"choices":[{"index":0,"delta":{"role":"assistant","content":""}}]}`,
			`{"choices":[{"index":0,"delta":{"content":"Hello"}}]}`,
			`{"choices":[{"index":0,"delta":{"content":" World"}}]}`,
			`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
			DoneSignal)
	}))
	defer server.Close()

	extractor := NewOpenAITextExtractor(testOpenAIConfig(server.URL), NewNopLogger())

	text, err := extractor.Extract(context.Background(), "From: a@b.c\n\nHello World")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)

	assert.True(t, received.Stream)
	assert.Equal(t, "gpt-4o-mini", received.Model)
	assert.Equal(t, 16383, received.MaxTokens)
	assert.Zero(t, received.Temperature)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
	assert.True(t, strings.HasPrefix(received.Messages[0].Content, "Extract the readable content"))
	assert.True(t, strings.HasSuffix(received.Messages[0].Content, "Here is the raw data:\nFrom: a@b.c\n\nHello World"))
}

func TestOpenAITextExtractor_StreamWithoutContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEvents(w,
			`{"choices":[{"index":0,"delta":{"role":"assistant","content":null}}]}`,
			`{"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
			DoneSignal)
	}))
	defer server.Close()

	extractor := NewOpenAITextExtractor(testOpenAIConfig(server.URL), NewNopLogger())

	text, err := extractor.Extract(context.Background(), "raw")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAITextExtractor_MalformedEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEvents(w, `{"choices":`, DoneSignal)
	}))
	defer server.Close()

	extractor := NewOpenAITextExtractor(testOpenAIConfig(server.URL), NewNopLogger())

	_, err := extractor.Extract(context.Background(), "raw")
	require.Error(t, err)
}

func TestOpenAITextExtractor_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	extractor := NewOpenAITextExtractor(testOpenAIConfig(server.URL), NewNopLogger())

	_, err := extractor.Extract(context.Background(), "raw")
	require.EqualError(t, err, "HTTP request returned non-OK status code: 429")
}

func TestOpenAISpeechSynthesizer_Synthesize(t *testing.T) {
	var received speechRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte{0xFF, 0xFB, 0x90, 0xC4})
	}))
	defer server.Close()

	logger := NewNopLogger()
	synth := NewOpenAISpeechSynthesizer(NewContentFetcher(logger, server.Client()), testOpenAIConfig(server.URL), logger)

	body, err := synth.Synthesize(context.Background(), outbound.SynthesizeSpeechRequest{
		Text:  "Hello World",
		Voice: domain.VoiceShimmer,
	})
	require.NoError(t, err)
	defer body.Close()

	audio, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFB, 0x90, 0xC4}, audio)
	assert.Equal(t, speechRequest{
		Model:          "tts-1",
		Voice:          "shimmer",
		Input:          "Hello World",
		ResponseFormat: "mp3",
	}, received)
}
