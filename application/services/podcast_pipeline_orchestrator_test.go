package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/jamieforrest/speakyer-proc/infrastructure/adapters"
	"github.com/jamieforrest/speakyer-proc/mock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	inputLocation  = "in"
	outputLocation = "out"
)

type extractorFunc func(ctx context.Context, rawData string) (string, error)

func (f extractorFunc) Extract(ctx context.Context, rawData string) (string, error) {
	return f(ctx, rawData)
}

type refusingLedger struct {
	released []outbound.ProcessingStatus
}

func (r *refusingLedger) Claim(context.Context, string, string) error {
	return domain.ErrAlreadyProcessing
}

func (r *refusingLedger) Release(_ context.Context, _ string, _ string, status outbound.ProcessingStatus) error {
	r.released = append(r.released, status)
	return nil
}

type recordingLedger struct {
	claims   int
	released []outbound.ProcessingStatus
}

func (r *recordingLedger) Claim(context.Context, string, string) error {
	r.claims++
	return nil
}

func (r *recordingLedger) Release(_ context.Context, _ string, _ string, status outbound.ProcessingStatus) error {
	r.released = append(r.released, status)
	return nil
}

type pipelineFixture struct {
	store     *mock.MemoryBlobStore
	extractor *mock.EchoTextExtractor
	synth     *mock.CannedSpeechSynthesizer
	metrics   *adapters.PrometheusMetrics
	pipeline  inbound.PodcastPipelinePort
}

type fixtureOptions struct {
	extractor outbound.TextExtractorPort
	ledger    outbound.ProcessingLedgerPort
	synthOpts []mock.CannedSpeechOption
	maxLength int
}

func newPipelineFixture(t *testing.T, opts fixtureOptions) *pipelineFixture {
	t.Helper()
	logger := adapters.NewNopLogger()
	f := &pipelineFixture{
		store:     mock.NewMemoryBlobStore(),
		extractor: mock.NewEchoTextExtractor(logger),
		synth:     mock.NewCannedSpeechSynthesizer(logger, mock.SilentMP3(1), opts.synthOpts...),
		metrics:   adapters.NewPrometheusMetrics(),
	}

	var extractor outbound.TextExtractorPort = f.extractor
	if opts.extractor != nil {
		extractor = opts.extractor
	}
	ledger := opts.ledger
	if ledger == nil {
		ledger = adapters.NewNoopProcessingLedger()
	}

	f.pipeline = NewPodcastPipelineOrchestrator(logger, f.store, extractor,
		NewTextChunker(opts.maxLength),
		NewSpeechFanOut(logger, f.synth, f.metrics, newTestPool(t)),
		mock.NewByteConcatReassembler(logger),
		NewFeedRebuilder(logger, f.store, testChannel),
		ledger, f.metrics,
		PodcastPipelineParams{OutputLocation: outputLocation})
	return f
}

func (f *pipelineFixture) process(key string) domain.Response {
	return HandleProcessing(context.Background(), f.pipeline, f.metrics, inputLocation, key)
}

func TestPodcastPipeline_EndToEnd(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{})
	f.store.Put(inputLocation, "raw/msg1.eml", []byte("Hello World"), time.Now())

	response := f.process("raw/msg1.eml")

	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, response.Body, "msg1")
	assert.Equal(t, "Extracted text from raw/msg1.eml stored in out/texts/msg1.txt and audio stored in out/audios/msg1.mp3", response.Body)

	text, ok := f.store.Get(outputLocation, "texts/msg1.txt")
	require.True(t, ok)
	assert.Equal(t, "Hello World", string(text))

	audio, ok := f.store.Get(outputLocation, "audios/msg1.mp3")
	require.True(t, ok)
	assert.Equal(t, mock.SilentMP3(1), audio)

	feed := parseFeed(t, f.store, outputLocation)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "msg1", feed.Items[0].Title)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PipelineOutcomes.WithLabelValues("200")))
}

func TestPodcastPipeline_SecondRunIsCacheHit(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{})
	f.store.Put(inputLocation, "raw/msg2.eml", []byte("First line\n\nSecond line\nThird line"), time.Now())

	first := f.process("raw/msg2.eml")
	require.Equal(t, http.StatusOK, first.StatusCode)
	textBefore, _ := f.store.Get(outputLocation, "texts/msg2.txt")
	audioBefore, _ := f.store.Get(outputLocation, "audios/msg2.mp3")

	second := f.process("raw/msg2.eml")
	require.Equal(t, http.StatusOK, second.StatusCode)

	assert.Equal(t, 1, f.extractor.Calls())
	assert.Equal(t, 3, f.synth.Calls())
	assert.Equal(t, 1, f.store.Writes(outputLocation, "texts/msg2.txt"))
	assert.Equal(t, 1, f.store.Writes(outputLocation, "audios/msg2.mp3"))
	assert.Equal(t, 2, f.store.Writes(outputLocation, domain.FeedKey))
	assert.Equal(t, 1, f.store.Reads(inputLocation, "raw/msg2.eml"))

	textAfter, _ := f.store.Get(outputLocation, "texts/msg2.txt")
	audioAfter, _ := f.store.Get(outputLocation, "audios/msg2.mp3")
	assert.Equal(t, textBefore, textAfter)
	assert.Equal(t, audioBefore, audioAfter)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StageResults.WithLabelValues("text", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StageResults.WithLabelValues("audio", "hit")))
}

func TestPodcastPipeline_AudioMatchesSequentialOrder(t *testing.T) {
	lines := []string{"alpha", "bravo", "charlie", "delta"}
	delays := map[string]time.Duration{"alpha": 60 * time.Millisecond, "bravo": 40 * time.Millisecond,
		"charlie": 20 * time.Millisecond, "delta": 0}
	f := newPipelineFixture(t, fixtureOptions{synthOpts: []mock.CannedSpeechOption{
		mock.WithPerTextAudio(),
		mock.WithDelay(func(text string) time.Duration { return delays[text] }),
	}})
	f.store.Put(inputLocation, "raw/order.eml", []byte(strings.Join(lines, "\n")), time.Now())

	require.Equal(t, http.StatusOK, f.process("raw/order.eml").StatusCode)

	var expected bytes.Buffer
	for _, line := range lines {
		expected.Write(mock.SilentMP3(1))
		expected.WriteString(line)
	}
	audio, ok := f.store.Get(outputLocation, "audios/order.mp3")
	require.True(t, ok)
	assert.Equal(t, expected.Bytes(), audio)
}

func TestPodcastPipeline_SynthesisFaultLeavesNoAudio(t *testing.T) {
	failing := true
	f := newPipelineFixture(t, fixtureOptions{synthOpts: []mock.CannedSpeechOption{
		mock.WithFailure(func(text string) bool { return failing && text == "second" }, errors.New("tts down")),
	}})
	f.store.Put(inputLocation, "raw/msg3.eml", []byte("first\nsecond"), time.Now())

	response := f.process("raw/msg3.eml")
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Contains(t, response.Body, "tts down")

	_, ok := f.store.Get(outputLocation, "audios/msg3.mp3")
	assert.False(t, ok)
	_, ok = f.store.Get(outputLocation, domain.FeedKey)
	assert.False(t, ok)
	assert.Equal(t, 1, f.store.Writes(outputLocation, "texts/msg3.txt"))

	failing = false
	retry := f.process("raw/msg3.eml")
	assert.Equal(t, http.StatusOK, retry.StatusCode)
	assert.Equal(t, 1, f.extractor.Calls())
	assert.Equal(t, 1, f.store.Writes(outputLocation, "audios/msg3.mp3"))
}

func TestPodcastPipeline_EmptyExtraction(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{extractor: extractorFunc(func(context.Context, string) (string, error) {
		return "", nil
	})})
	f.store.Put(inputLocation, "raw/empty.eml", []byte("<html></html>"), time.Now())

	response := f.process("raw/empty.eml")

	assert.Equal(t, domain.ErrorResponse("Failed to extract text from raw/empty.eml"), response)
	assert.Equal(t, 1, f.store.TotalWrites())
	assert.Zero(t, f.synth.Calls())
}

func TestPodcastPipeline_ExistenceCheckFailureIsNotAMiss(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{})
	f.store.Put(inputLocation, "raw/msg4.eml", []byte("Hello"), time.Now())
	f.store.ExistsErr = errors.New("access denied")

	response := f.process("raw/msg4.eml")

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Zero(t, f.extractor.Calls())
	assert.Equal(t, 1, f.store.TotalWrites())
}

func TestPodcastPipeline_OversizedLine(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{maxLength: 8})
	f.store.Put(inputLocation, "raw/long.eml", []byte("short\nthis line is too long"), time.Now())

	response := f.process("raw/long.eml")

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Contains(t, response.Body, "text line exceeds max chunk length")
	assert.Zero(t, f.synth.Calls())
	_, ok := f.store.Get(outputLocation, "audios/long.mp3")
	assert.False(t, ok)
}

func TestPodcastPipeline_MissingInput(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{})

	response := f.process("raw/missing.eml")

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Contains(t, response.Body, domain.ErrNotFound.Error())
	assert.Zero(t, f.extractor.Calls())
}

func TestPodcastPipeline_InvalidRequest(t *testing.T) {
	f := newPipelineFixture(t, fixtureOptions{})

	response := HandleProcessing(context.Background(), f.pipeline, f.metrics, inputLocation, "  ")

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Equal(t, "Failed to process input: invalid input: key is required", response.Body)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PipelineOutcomes.WithLabelValues("500")))
}

func TestPodcastPipeline_ClaimRefused(t *testing.T) {
	ledger := &refusingLedger{}
	f := newPipelineFixture(t, fixtureOptions{ledger: ledger})
	f.store.Put(inputLocation, "raw/msg5.eml", []byte("Hello"), time.Now())

	response := f.process("raw/msg5.eml")

	assert.Equal(t, domain.ErrorResponse("raw/msg5.eml is already being processed"), response)
	assert.Zero(t, f.extractor.Calls())
	assert.Empty(t, ledger.released)
}

func TestPodcastPipeline_ReleasesClaimWithOutcome(t *testing.T) {
	ledger := &recordingLedger{}
	f := newPipelineFixture(t, fixtureOptions{ledger: ledger})
	f.store.Put(inputLocation, "raw/msg6.eml", []byte("Hello"), time.Now())

	require.Equal(t, http.StatusOK, f.process("raw/msg6.eml").StatusCode)
	require.Equal(t, http.StatusInternalServerError, f.process("raw/absent.eml").StatusCode)

	assert.Equal(t, 2, ledger.claims)
	assert.Equal(t, []outbound.ProcessingStatus{
		outbound.ProcessingStatusCompleted,
		outbound.ProcessingStatusFailed,
	}, ledger.released)
}
