package services

import (
	"context"
	"fmt"
	"os"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

const (
	textStage  = "text"
	audioStage = "audio"
)

type PodcastPipelineParams struct {
	OutputLocation string
	Voice          domain.Voice
}

type podcastPipelineOrchestrator struct {
	logger      outbound.LoggerPort
	store       outbound.BlobStorePort
	extractor   outbound.TextExtractorPort
	chunker     inbound.TextChunkerPort
	fanOut      inbound.SpeechFanOutPort
	reassembler outbound.AudioReassemblerPort
	feed        inbound.FeedRebuilderPort
	ledger      outbound.ProcessingLedgerPort
	metrics     outbound.MetricsPort
	params      PodcastPipelineParams
}

func NewPodcastPipelineOrchestrator(logger outbound.LoggerPort, store outbound.BlobStorePort,
	extractor outbound.TextExtractorPort, chunker inbound.TextChunkerPort, fanOut inbound.SpeechFanOutPort,
	reassembler outbound.AudioReassemblerPort, feed inbound.FeedRebuilderPort, ledger outbound.ProcessingLedgerPort,
	metrics outbound.MetricsPort, params PodcastPipelineParams) inbound.PodcastPipelinePort {
	if params.Voice == "" {
		params.Voice = domain.DefaultVoice
	}
	return &podcastPipelineOrchestrator{
		logger:      logger,
		store:       store,
		extractor:   extractor,
		chunker:     chunker,
		fanOut:      fanOut,
		reassembler: reassembler,
		feed:        feed,
		ledger:      ledger,
		metrics:     metrics,
		params:      params,
	}
}

// Process runs text, audio and feed stages in order and stops at the first fault. Text
// and audio outputs are written only once complete, so a retry after a fault redoes the
// failed stage instead of finding a partial artifact.
func (p *podcastPipelineOrchestrator) Process(ctx context.Context, request domain.ProcessingRequest) (result *inbound.ProcessResult, err error) {
	logger := p.logger.With(map[string]interface{}{
		"location":  request.Location,
		"input_key": request.InputKey,
	})

	if err := p.ledger.Claim(ctx, request.Location, request.InputKey); err != nil {
		logger.Error(err, "Failed to claim input")
		return nil, err
	}
	defer func() {
		status := outbound.ProcessingStatusCompleted
		if err != nil {
			status = outbound.ProcessingStatusFailed
		}
		releaseErr := p.ledger.Release(context.WithoutCancel(ctx), request.Location, request.InputKey, status)
		if releaseErr != nil {
			logger.Error(releaseErr, "Failed to release input claim")
		}
	}()

	textKey := request.TextKey()
	audioKey := request.AudioKey()

	text, err := p.resolveText(ctx, logger, request, textKey)
	if err != nil {
		return nil, err
	}

	if err = p.resolveAudio(ctx, logger, text, audioKey); err != nil {
		return nil, err
	}

	items, err := p.feed.Rebuild(ctx, p.params.OutputLocation)
	if err != nil {
		logger.Error(err, "Failed to rebuild feed")
		return nil, err
	}

	logger.InfoWithFields("Input processed", map[string]interface{}{
		"text_key":   textKey,
		"audio_key":  audioKey,
		"feed_items": items,
	})

	return &inbound.ProcessResult{
		InputKey:       request.InputKey,
		OutputLocation: p.params.OutputLocation,
		TextKey:        textKey,
		AudioKey:       audioKey,
		FeedItems:      items,
	}, nil
}

func (p *podcastPipelineOrchestrator) resolveText(ctx context.Context, logger outbound.LoggerPort,
	request domain.ProcessingRequest, textKey string) (string, error) {
	exists, err := p.store.Exists(ctx, p.params.OutputLocation, textKey)
	if err != nil {
		logger.ErrorWithFields(err, "Failed to check text output", map[string]interface{}{"key": textKey})
		return "", fmt.Errorf("check %s: %w", textKey, err)
	}
	p.metrics.StageResult(textStage, exists)

	if exists {
		logger.InfoWithFields("Text already extracted", map[string]interface{}{"key": textKey})
		text, err := p.store.ReadText(ctx, p.params.OutputLocation, textKey)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", textKey, err)
		}
		return text, nil
	}

	raw, err := p.store.ReadText(ctx, request.Location, request.InputKey)
	if err != nil {
		logger.Error(err, "Failed to read raw input")
		return "", fmt.Errorf("read %s/%s: %w", request.Location, request.InputKey, err)
	}

	text, err := p.extractor.Extract(ctx, raw)
	if err != nil {
		logger.Error(err, "Failed to extract text")
		return "", fmt.Errorf("extract text from %s: %w", request.InputKey, err)
	}
	if text == "" {
		logger.Warn("Extraction returned no content")
		return "", fmt.Errorf("extract text from %s: %w", request.InputKey, domain.ErrExtractionEmpty)
	}

	if err := p.store.WriteText(ctx, p.params.OutputLocation, textKey, text); err != nil {
		logger.ErrorWithFields(err, "Failed to store extracted text", map[string]interface{}{"key": textKey})
		return "", fmt.Errorf("write %s: %w", textKey, err)
	}
	logger.InfoWithFields("Extracted text stored", map[string]interface{}{"key": textKey})

	return text, nil
}

func (p *podcastPipelineOrchestrator) resolveAudio(ctx context.Context, logger outbound.LoggerPort, text string, audioKey string) error {
	exists, err := p.store.Exists(ctx, p.params.OutputLocation, audioKey)
	if err != nil {
		logger.ErrorWithFields(err, "Failed to check audio output", map[string]interface{}{"key": audioKey})
		return fmt.Errorf("check %s: %w", audioKey, err)
	}
	p.metrics.StageResult(audioStage, exists)

	if exists {
		logger.InfoWithFields("Audio already synthesized", map[string]interface{}{"key": audioKey})
		return nil
	}

	chunks, err := p.chunker.Chunk(text)
	if err != nil {
		logger.Error(err, "Failed to chunk text")
		return err
	}

	workDir, err := os.MkdirTemp("", "speakyer-")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Error(err, "Failed to remove work dir")
		}
	}()

	fragments, err := p.fanOut.Synthesize(ctx, inbound.SynthesizeChunksParams{
		Chunks:  chunks,
		Voice:   p.params.Voice,
		WorkDir: workDir,
	})
	if err != nil {
		return err
	}

	audioFile, err := p.reassembler.Reassemble(ctx, workDir, fragments)
	if err != nil {
		logger.Error(err, "Failed to reassemble audio")
		return err
	}

	audio, err := os.ReadFile(audioFile)
	if err != nil {
		return fmt.Errorf("read reassembled audio: %w", err)
	}

	if err := p.store.WriteBytes(ctx, p.params.OutputLocation, audioKey, audio); err != nil {
		logger.ErrorWithFields(err, "Failed to store audio", map[string]interface{}{"key": audioKey})
		return fmt.Errorf("write %s: %w", audioKey, err)
	}
	logger.InfoWithFields("Audio stored", map[string]interface{}{
		"key":    audioKey,
		"chunks": len(chunks),
		"bytes":  len(audio),
	})

	return nil
}
