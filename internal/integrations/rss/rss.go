package rss

import (
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/acourtin/thefeed/internal/models"
)

// Renderer builds the RSS 2.0 representation of the feed.
type Renderer struct {
	baseURL string
}

// NewRenderer returns a renderer; baseURL is used for channel and item links.
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: baseURL}
}

// Render builds the RSS document for the given publications. The slice is
// expected in feed order (most recent first) and is emitted as-is.
func (r *Renderer) Render(publications []models.Publication) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText("The Feed")
	channel.CreateElement("link").SetText(r.baseURL)
	channel.CreateElement("description").SetText("Latest publications")

	for _, p := range publications {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(fmt.Sprintf("Publication by %s", p.AuthorLogin))
		item.CreateElement("description").SetText(p.Message)
		item.CreateElement("author").SetText(p.AuthorLogin)
		item.CreateElement("link").SetText(fmt.Sprintf("%s/users/%s/publications", r.baseURL, p.AuthorLogin))
		item.CreateElement("guid").SetText(fmt.Sprintf("%s/publications/%d", r.baseURL, p.ID))
		item.CreateElement("pubDate").SetText(p.PublishedAt.Format(time.RFC1123Z))
	}

	doc.Indent(2)
	body, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize RSS document: %w", err)
	}
	return body, nil
}
