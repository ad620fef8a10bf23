package rss

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acourtin/thefeed/internal/models"
)

func TestRenderFeed(t *testing.T) {
	renderer := NewRenderer("http://example.test")
	publications := []models.Publication{
		{ID: 2, Message: "newest", AuthorLogin: "alice", PublishedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)},
		{ID: 1, Message: "oldest", AuthorLogin: "bob", PublishedAt: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)},
	}

	body, err := renderer.Render(publications)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))

	items := doc.FindElements("//channel/item")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "newest", first.FindElement("./description").Text())
	assert.Equal(t, "alice", first.FindElement("./author").Text())
	assert.Equal(t, "http://example.test/publications/2", first.FindElement("./guid").Text())
	assert.Equal(t, "oldest", items[1].FindElement("./description").Text())

	channel := doc.FindElement("//rss/channel")
	require.NotNil(t, channel)
	assert.Equal(t, "http://example.test", channel.FindElement("./link").Text())
}

func TestRenderEmptyFeed(t *testing.T) {
	body, err := NewRenderer("http://example.test").Render(nil)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))
	assert.Empty(t, doc.FindElements("//channel/item"))
}
