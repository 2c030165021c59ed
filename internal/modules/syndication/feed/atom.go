package feed

import (
	"encoding/xml"
	"time"

	"github.com/gin-gonic/gin"
)

type atomDoc struct {
	XMLName  xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	ID       string      `xml:"id"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Entries  []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomEntry struct {
	Title     string      `xml:"title"`
	ID        string      `xml:"id"`
	Link      atomLink    `xml:"link"`
	Published string      `xml:"published"`
	Updated   string      `xml:"updated"`
	Author    *atomPerson `xml:"author,omitempty"`
	Category  *atomTerm   `xml:"category,omitempty"`
	Summary   string      `xml:"summary,omitempty"`
}

type atomPerson struct {
	Name string `xml:"name"`
}

type atomTerm struct {
	Term string `xml:"term,attr"`
}

// GET /atom.xml
func (h *Handler) atom(c *gin.Context) {
	items, ok := h.load(c)
	if !ok {
		return
	}
	doc := atomDoc{
		Title:    h.site.Name,
		Subtitle: h.site.Description,
		ID:       h.site.URL + "/",
		Updated:  h.lastUpdate(items).Format(time.RFC3339),
		Links: []atomLink{
			{Href: h.site.URL + "/"},
			{Href: h.site.URL + "/atom.xml", Rel: "self", Type: "application/atom+xml"},
		},
		Entries: make([]atomEntry, len(items)),
	}
	for i, it := range items {
		e := atomEntry{
			Title:     it.Title,
			ID:        it.Link,
			Link:      atomLink{Href: it.Link},
			Published: it.Published.Format(time.RFC3339),
			Updated:   it.Updated.Format(time.RFC3339),
			Summary:   it.Summary,
		}
		if it.Author != "" {
			e.Author = &atomPerson{Name: it.Author}
		}
		if it.Category != "" {
			e.Category = &atomTerm{Term: it.Category}
		}
		doc.Entries[i] = e
	}
	h.write(c, "application/atom+xml; charset=utf-8", doc)
}
