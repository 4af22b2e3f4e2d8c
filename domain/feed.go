package domain

import (
	"encoding/xml"
	"time"
)

const RSSDateLayout = "Mon, 02 Jan 2006 15:04:05 +0000"

type FeedChannel struct {
	Title       string
	Link        string
	Description string
}

type FeedEntry struct {
	Title       string
	URL         string
	GUID        string
	PublishedAt time.Time
	Length      int64
	MediaType   string
}

type FeedDocument struct {
	Channel FeedChannel
	Entries []FeedEntry
}

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title     string       `xml:"title"`
	Link      string       `xml:"link"`
	GUID      string       `xml:"guid"`
	PubDate   string       `xml:"pubDate"`
	Enclosure rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// MarshalRSS renders the document as an indented RSS 2.0 feed with an XML declaration.
// Items keep the order of Entries.
func (d FeedDocument) MarshalRSS() ([]byte, error) {
	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:       d.Channel.Title,
			Link:        d.Channel.Link,
			Description: d.Channel.Description,
			Items:       make([]rssItem, 0, len(d.Entries)),
		},
	}
	for _, e := range d.Entries {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:   e.Title,
			Link:    e.URL,
			GUID:    e.GUID,
			PubDate: e.PublishedAt.UTC().Format(RSSDateLayout),
			Enclosure: rssEnclosure{
				URL:    e.URL,
				Length: e.Length,
				Type:   e.MediaType,
			},
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
