package feed

import (
	"encoding/xml"
	"time"

	"github.com/gin-gonic/gin"
)

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	DCNS    string     `xml:"xmlns:dc,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Self          rssSelf   `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type rssSelf struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Category    string  `xml:"category,omitempty"`
	Creator     string  `xml:"dc:creator,omitempty"`
	Description string  `xml:"description"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// GET /feed.xml
func (h *Handler) rss(c *gin.Context) {
	items, ok := h.load(c)
	if !ok {
		return
	}
	doc := rssDoc{
		Version: "2.0",
		AtomNS:  atomNS,
		DCNS:    dcNS,
		Channel: rssChannel{
			Title:         h.site.Name,
			Link:          h.site.URL + "/",
			Description:   h.site.Description,
			Language:      "en-us",
			LastBuildDate: h.lastUpdate(items).Format(time.RFC1123Z),
			Self:          rssSelf{Href: h.site.URL + "/feed.xml", Rel: "self", Type: "application/rss+xml"},
			Items:         make([]rssItem, len(items)),
		},
	}
	for i, it := range items {
		doc.Channel.Items[i] = rssItem{
			Title:       it.Title,
			Link:        it.Link,
			GUID:        rssGUID{IsPermaLink: true, Value: it.Link},
			PubDate:     it.Published.Format(time.RFC1123Z),
			Category:    it.Category,
			Creator:     it.Author,
			Description: it.Summary,
		}
	}
	h.write(c, "application/rss+xml; charset=utf-8", doc)
}
