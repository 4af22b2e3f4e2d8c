package config

import "github.com/jamieforrest/speakyer-proc/domain"

func GetFeedConfig() domain.FeedChannel {
	return domain.FeedChannel{
		Title:       getEnvOrDefault("FEED_TITLE", "Jamie Forrest's Speakyer Podcast"),
		Link:        getEnvOrDefault("FEED_LINK", "https://speakyer.com"),
		Description: getEnvOrDefault("FEED_DESCRIPTION", "Turn anything into a podcast."),
	}
}
