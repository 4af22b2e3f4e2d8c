package adapters

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type ffmpegAudioReassembler struct {
	logger outbound.LoggerPort
	binary string
}

func NewFFmpegAudioReassembler(logger outbound.LoggerPort) outbound.AudioReassemblerPort {
	return &ffmpegAudioReassembler{
		logger: logger,
		binary: "ffmpeg",
	}
}

// Reassemble decodes the fragments in the order given and encodes one MP3. Nothing is
// inserted between fragments.
func (f *ffmpegAudioReassembler) Reassemble(ctx context.Context, workDir string, fragments []domain.AudioFragment) (string, error) {
	if len(fragments) == 0 {
		return "", domain.ErrNoFragments
	}
	if workDir == "" {
		workDir = os.TempDir()
	}

	listFileName, err := f.writeList(workDir, fragments)
	if err != nil {
		return "", err
	}
	defer func(name string) {
		err := os.Remove(name)
		if err != nil {
			f.logger.Error(err, "Failed to remove audio list file")
		}
	}(listFileName)

	outputFile := filepath.Join(workDir, uuid.NewString()+"."+domain.AudioExtension)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, "-hide_banner", "-loglevel", "error", "-y",
		"-f", "concat", "-safe", "0", "-i", listFileName,
		"-c:a", "libmp3lame", "-b:a", "128k", outputFile)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		f.logger.ErrorWithFields(err, "Failed to concatenate audio", map[string]interface{}{
			"fragments": len(fragments),
			"stderr":    strings.TrimSpace(stderr.String()),
		})
		return "", fmt.Errorf("ffmpeg concat: %w", err)
	}

	return outputFile, nil
}

func (f *ffmpegAudioReassembler) writeList(workDir string, fragments []domain.AudioFragment) (string, error) {
	fileList, err := os.Create(filepath.Join(workDir, uuid.NewString()+".txt"))
	if err != nil {
		f.logger.Error(err, "Failed to create audio list file")
		return "", err
	}
	defer func(fileList *os.File) {
		err := fileList.Close()
		if err != nil {
			f.logger.Error(err, "Failed to close audio list file")
		}
	}(fileList)

	writer := bufio.NewWriter(fileList)
	for _, fragment := range fragments {
		if _, err := writer.WriteString("file '" + concatListEscape(fragment.FileName) + "'\n"); err != nil {
			f.logger.Error(err, "Failed to write to audio list file")
			return "", err
		}
	}
	if err := writer.Flush(); err != nil {
		f.logger.Error(err, "Failed to flush audio list file")
		return "", err
	}

	return fileList.Name(), nil
}

func concatListEscape(fileName string) string {
	return strings.ReplaceAll(fileName, "'", `'\''`)
}
