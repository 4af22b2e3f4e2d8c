package mock

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

// ByteConcatReassembler appends fragment files byte for byte. MP3 frame streams stay
// playable when joined this way, so it stands in for ffmpeg in offline runs.
type ByteConcatReassembler struct {
	logger outbound.LoggerPort
}

func NewByteConcatReassembler(logger outbound.LoggerPort) *ByteConcatReassembler {
	return &ByteConcatReassembler{
		logger: logger,
	}
}

func (b *ByteConcatReassembler) Reassemble(ctx context.Context, workDir string, fragments []domain.AudioFragment) (string, error) {
	if len(fragments) == 0 {
		return "", domain.ErrNoFragments
	}
	if workDir == "" {
		workDir = os.TempDir()
	}

	outputName := filepath.Join(workDir, uuid.NewString()+"."+domain.AudioExtension)
	output, err := os.Create(outputName)
	if err != nil {
		return "", err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			b.logger.Error(err, "failed to close the reassembled file")
		}
	}(output)

	for _, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := b.appendFile(output, fragment.FileName); err != nil {
			return "", err
		}
	}

	return outputName, nil
}

func (b *ByteConcatReassembler) appendFile(dst io.Writer, fileName string) error {
	src, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			b.logger.Error(err, "failed to close the fragment file")
		}
	}(src)

	_, err = io.Copy(dst, src)
	return err
}
