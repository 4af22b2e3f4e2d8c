package config

import (
	"fmt"
	"os"

	"github.com/jamieforrest/speakyer-proc/domain"
)

type PipelineConfig struct {
	OutputBucket   string
	MaxChunkLength int
	Voice          domain.Voice
	WorkerPoolSize int
	MockMode       bool
	MockAudioFile  string
	LogLevel       string
}

func GetPipelineConfig() (*PipelineConfig, error) {
	outputBucket := os.Getenv("OUTPUT_S3_BUCKET")
	if outputBucket == "" {
		return nil, fmt.Errorf("OUTPUT_S3_BUCKET must be set")
	}
	maxChunkLength, err := getIntEnvOrDefault("MAX_CHUNK_LENGTH", domain.DefaultMaxChunkLength)
	if err != nil {
		return nil, err
	}
	voice, err := domain.ParseVoice(os.Getenv("TTS_VOICE"))
	if err != nil {
		return nil, fmt.Errorf("TTS_VOICE: %w", err)
	}
	workerPoolSize, err := getIntEnvOrDefault("WORKER_POOL_SIZE", 120)
	if err != nil {
		return nil, err
	}

	return &PipelineConfig{
		OutputBucket:   outputBucket,
		MaxChunkLength: maxChunkLength,
		Voice:          voice,
		WorkerPoolSize: workerPoolSize,
		MockMode:       getBoolEnv("MOCK_MODE"),
		MockAudioFile:  os.Getenv("MOCK_AUDIO_FILE"),
		LogLevel:       GetLogLevel(),
	}, nil
}

func GetLogLevel() string {
	return getEnvOrDefault("LOG_LEVEL", "info")
}
