package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/dakshmehta/site/essay"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel channelXML `xml:"channel"`
}

// channelXML is the channel as it's written: RSS wants RFC 1123 dates, not RFC 3339.
type channelXML struct {
	ChannelMeta
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

// ChannelMeta describes the feed as a whole.
type ChannelMeta struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Copyright   string `xml:"copyright"`
	TTL         int    `xml:"ttl,omitempty"`

	LastBuildDate time.Time `xml:"-"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	GUID        struct {
		IsPermaLink bool   `xml:"isPermaLink,attr"`
		Value       string `xml:",chardata"`
	} `xml:"guid"`
	PubDate string `xml:"pubDate"`
}

// Channel is the site's channel, built at now.
func Channel(siteURL string, now time.Time) ChannelMeta {
	return ChannelMeta{
		Title:         essay.Author + ": essays",
		Link:          siteURL,
		Description:   "essays by " + essay.Author,
		Copyright:     fmt.Sprintf("%d %s. all rights reserved", now.Year(), essay.Author),
		TTL:           1800,
		LastBuildDate: now,
	}
}

// Encode renders an RSS 2.0 document.
func Encode(ch ChannelMeta, items []Item) ([]byte, error) {
	doc := rss{Version: "2.0", Channel: channelXML{
		ChannelMeta:   ch,
		LastBuildDate: ch.LastBuildDate.UTC().Format(time.RFC1123Z),
		Items:         make([]rssItem, len(items)),
	}}
	for i, it := range items {
		out := &doc.Channel.Items[i]
		out.Title, out.Link, out.Description = it.Title, it.Link, it.Description
		out.GUID.Value = it.GUID.String()
		out.PubDate = it.PubDate.UTC().Format(time.RFC1123Z)
	}
	b, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}
	return append([]byte(xml.Header), append(b, '\n')...), nil
}
