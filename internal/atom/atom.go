// Package atom renders feed articles as an Atom 1.0 document.
package atom

import (
	"encoding/xml"
	"fmt"

	"github.com/theoremoon/articlefeed/internal/article"
)

const (
	Namespace = "http://www.w3.org/2005/Atom"
	MediaType = "application/atom+xml; charset=utf-8"
)

type Feed struct {
	XMLName xml.Name `xml:"feed"`
	Xmlns   string   `xml:"xmlns,attr"`
	ID      string   `xml:"id"`
	Title   string   `xml:"title"`
	Link    []Link   `xml:"link,omitempty"`
	Entry   []Entry  `xml:"entry"`
}

type Entry struct {
	ID      string  `xml:"id"`
	Title   string  `xml:"title"`
	Author  Author  `xml:"author"`
	Summary Content `xml:"summary"`
	Link    []Link  `xml:"link,omitempty"`
}

type Author struct {
	Name string `xml:"name"`
	URI  string `xml:"uri,omitempty"`
}

type Content struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

func EntryID(articleID int64) string {
	return fmt.Sprintf("urn:articlefeed:article:%d", articleID)
}

func NewEntry(a article.Article) Entry {
	entry := Entry{
		ID:     EntryID(a.ID),
		Title:  a.Title,
		Author: Author{Name: a.Author},
		Summary: Content{
			Type: "text",
			Text: a.Excerpt,
		},
	}
	if a.Image != "" {
		entry.Link = append(entry.Link, Link{Rel: "enclosure", Href: a.Image})
	}
	return entry
}

// Render encodes articles in order as an Atom feed. selfURL is optional.
func Render(title, selfURL string, articles []article.Article) ([]byte, error) {
	feed := Feed{
		Xmlns: Namespace,
		ID:    "urn:articlefeed",
		Title: title,
		Entry: make([]Entry, 0, len(articles)),
	}
	if selfURL != "" {
		feed.Link = append(feed.Link, Link{Rel: "self", Href: selfURL})
	}
	for _, a := range articles {
		feed.Entry = append(feed.Entry, NewEntry(a))
	}

	xmlData, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	return append([]byte(xml.Header), xmlData...), nil
}

// Parse decodes an Atom document produced by Render.
func Parse(data []byte) (*Feed, error) {
	var feed Feed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}
	return &feed, nil
}
