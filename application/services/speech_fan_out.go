package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/channel_utils"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type speechFanOut struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	metrics     outbound.MetricsPort
	workerPool  outbound.TaskDispatcher
}

func NewSpeechFanOut(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	metrics outbound.MetricsPort, workerPool outbound.TaskDispatcher) inbound.SpeechFanOutPort {
	return &speechFanOut{
		logger:      logger,
		synthesizer: synthesizer,
		metrics:     metrics,
		workerPool:  workerPool,
	}
}

func (s *speechFanOut) Synthesize(ctx context.Context, params inbound.SynthesizeChunksParams) ([]domain.AudioFragment, error) {
	if len(params.Chunks) == 0 {
		return []domain.AudioFragment{}, nil
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan domain.AudioFragment, len(params.Chunks))
	errCh := make(chan error, len(params.Chunks)+1)

	var wg sync.WaitGroup
	for _, c := range params.Chunks {
		chunk := c
		wg.Add(1)
		err := s.workerPool.Submit(func() {
			defer wg.Done()

			fragment, err := s.synthesizeChunk(newCtx, chunk, params)
			if err != nil {
				errCh <- err
				cancel()
				return
			}
			out <- *fragment
		})
		if err != nil {
			wg.Done()
			errCh <- fmt.Errorf("submit chunk %d: %w", chunk.Index, err)
			cancel()
			break
		}
	}

	go func() {
		wg.Wait()
		close(out)
		close(errCh)
	}()

	fragments, err := channel_utils.Collect(ctx, out, errCh)
	if err != nil {
		cancel()
		// sibling tasks may still be writing into WorkDir
		wg.Wait()
		return nil, err
	}
	if len(fragments) != len(params.Chunks) {
		return nil, fmt.Errorf("expected %d audio fragments, got %d", len(params.Chunks), len(fragments))
	}

	sort.Sort(domain.AudioFragmentsAscByIndex(fragments))

	s.logger.InfoWithFields("Synthesized all chunks", map[string]interface{}{
		"chunks": len(fragments),
		"voice":  string(params.Voice),
	})

	return fragments, nil
}

func (s *speechFanOut) synthesizeChunk(ctx context.Context, chunk domain.TextChunk, params inbound.SynthesizeChunksParams) (*domain.AudioFragment, error) {
	start := time.Now()
	reader, err := s.synthesizer.Synthesize(ctx, outbound.SynthesizeSpeechRequest{
		Text:  chunk.Text,
		Voice: params.Voice,
	})
	s.metrics.SynthesisCall(time.Since(start), err)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to synthesize chunk", map[string]interface{}{
			"chunk": chunk.Index,
		})
		return nil, fmt.Errorf("synthesize chunk %d: %w", chunk.Index, err)
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close the speech body")
		}
	}(reader)

	fileName, err := s.writeFragment(params.WorkDir, chunk.Index, reader)
	if err != nil {
		s.logger.Error(err, "Failed to write audio fragment to file")
		return nil, err
	}

	return &domain.AudioFragment{
		Index:    chunk.Index,
		FileName: fileName,
	}, nil
}

func (s *speechFanOut) writeFragment(workDir string, index int, reader io.Reader) (string, error) {
	if workDir == "" {
		workDir = os.TempDir()
	}
	fileName := filepath.Join(workDir, strconv.Itoa(index)+"-"+uuid.NewString()+"."+domain.AudioExtension)
	file, err := os.Create(fileName)
	if err != nil {
		return "", err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			s.logger.Error(err, "Failed to close the file")
		}
	}(file)

	if _, err = io.Copy(file, reader); err != nil {
		return "", err
	}

	return file.Name(), nil
}
