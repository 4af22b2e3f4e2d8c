package domain

import (
	"fmt"
	"strings"
)

type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"

	DefaultVoice = VoiceAlloy
)

var supportedVoices = []Voice{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer}

// ParseVoice returns DefaultVoice for an empty value.
func ParseVoice(value string) (Voice, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultVoice, nil
	}
	for _, v := range supportedVoices {
		if string(v) == value {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported voice %q", ErrInvalidInput, value)
}
