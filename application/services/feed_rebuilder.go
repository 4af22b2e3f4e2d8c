package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamieforrest/speakyer-proc/application/ports/inbound"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type feedRebuilder struct {
	logger  outbound.LoggerPort
	store   outbound.BlobStorePort
	channel domain.FeedChannel
}

func NewFeedRebuilder(logger outbound.LoggerPort, store outbound.BlobStorePort, channel domain.FeedChannel) inbound.FeedRebuilderPort {
	return &feedRebuilder{
		logger:  logger,
		store:   store,
		channel: channel,
	}
}

// Rebuild regenerates the whole feed from a listing of the audio prefix and overwrites
// the feed key. It returns the number of items written.
func (f *feedRebuilder) Rebuild(ctx context.Context, location string) (int, error) {
	prefix := domain.AudioCategory + "/"
	suffix := "." + domain.AudioExtension

	objects, err := f.store.List(ctx, location, prefix)
	if err != nil {
		f.logger.ErrorWithFields(err, "Failed to list audio artifacts", map[string]interface{}{
			"location": location,
		})
		return 0, fmt.Errorf("list %s/%s: %w", location, prefix, err)
	}

	document := domain.FeedDocument{
		Channel: f.channel,
		Entries: make([]domain.FeedEntry, 0, len(objects)),
	}
	for _, object := range objects {
		if !strings.HasSuffix(object.Key, suffix) {
			continue
		}
		url := f.store.PublicURL(location, object.Key)
		document.Entries = append(document.Entries, domain.FeedEntry{
			Title:       strings.TrimSuffix(strings.TrimPrefix(object.Key, prefix), suffix),
			URL:         url,
			GUID:        url,
			PublishedAt: object.LastModified,
			Length:      object.Size,
			MediaType:   domain.AudioMediaType,
		})
	}

	payload, err := document.MarshalRSS()
	if err != nil {
		return 0, fmt.Errorf("render feed: %w", err)
	}

	if err := f.store.WriteBytes(ctx, location, domain.FeedKey, payload); err != nil {
		f.logger.ErrorWithFields(err, "Failed to write feed", map[string]interface{}{
			"location": location,
			"key":      domain.FeedKey,
		})
		return 0, fmt.Errorf("write %s/%s: %w", location, domain.FeedKey, err)
	}

	f.logger.InfoWithFields("Feed rebuilt", map[string]interface{}{
		"location": location,
		"items":    len(document.Entries),
	})

	return len(document.Entries), nil
}
