package domain

import (
	"strings"
	"time"
)

const (
	TextCategory  = "texts"
	TextExtension = "txt"

	AudioCategory  = "audios"
	AudioExtension = "mp3"
	AudioMediaType = "audio/mpeg"

	FeedKey = "rss/podcast_feed.xml"

	DefaultMaxChunkLength = 4096
)

// ProcessingRequest identifies the raw artifact one pipeline run works on.
type ProcessingRequest struct {
	Location string
	InputKey string
}

// NewProcessingRequest validates the boundary event fields once, so the rest of the
// pipeline never deals with a partially populated request.
func NewProcessingRequest(location string, inputKey string) (ProcessingRequest, error) {
	location = strings.TrimSpace(location)
	inputKey = strings.TrimSpace(inputKey)
	if location == "" {
		return ProcessingRequest{}, InvalidInput("bucket is required")
	}
	if inputKey == "" {
		return ProcessingRequest{}, InvalidInput("key is required")
	}
	if baseName(inputKey) == "" {
		return ProcessingRequest{}, InvalidInput("key %q has no file name", inputKey)
	}
	return ProcessingRequest{Location: location, InputKey: inputKey}, nil
}

func (r ProcessingRequest) TextKey() string {
	return DeriveKey(r.InputKey, TextCategory, TextExtension)
}

func (r ProcessingRequest) AudioKey() string {
	return DeriveKey(r.InputKey, AudioCategory, AudioExtension)
}

// DeriveKey swaps the directory part of key for category and the file extension for
// extension: "raw/msg1.eml" -> "texts/msg1.txt".
func DeriveKey(key string, category string, extension string) string {
	return category + "/" + baseName(key) + "." + extension
}

// baseName is the last path segment up to its first dot.
func baseName(key string) string {
	name := key
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}

// TextChunk is one unit of synthesis work. Index is its playback position.
type TextChunk struct {
	Index int
	Text  string
}

// AudioFragment is the synthesized speech for the chunk with the same Index, held in a
// file that lives only as long as the pipeline run.
type AudioFragment struct {
	Index    int
	FileName string
}

type AudioFragmentsAscByIndex []AudioFragment

func (a AudioFragmentsAscByIndex) Len() int           { return len(a) }
func (a AudioFragmentsAscByIndex) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a AudioFragmentsAscByIndex) Less(i, j int) bool { return a[i].Index < a[j].Index }

type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}
