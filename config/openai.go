package config

import (
	"fmt"
	"os"
	"time"
)

type OpenAIConfig struct {
	ApiKey      string
	ChatUrl     string
	SpeechUrl   string
	TextModel   string
	MaxTokens   int
	SpeechModel string
	Timeout     time.Duration
}

func GetOpenAIConfig() (*OpenAIConfig, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	maxTokens, err := getIntEnvOrDefault("OPENAI_MAX_TOKENS", 16383)
	if err != nil {
		return nil, err
	}
	timeoutSeconds, err := getIntEnvOrDefault("OPENAI_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	return &OpenAIConfig{
		ApiKey:      apiKey,
		ChatUrl:     getEnvOrDefault("OPENAI_CHAT_URL", "https://api.openai.com/v1/chat/completions"),
		SpeechUrl:   getEnvOrDefault("OPENAI_SPEECH_URL", "https://api.openai.com/v1/audio/speech"),
		TextModel:   getEnvOrDefault("OPENAI_TEXT_MODEL", "gpt-4o-mini"),
		MaxTokens:   maxTokens,
		SpeechModel: getEnvOrDefault("OPENAI_SPEECH_MODEL", "tts-1"),
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}
