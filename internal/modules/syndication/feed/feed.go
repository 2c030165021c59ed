// Package feed serves RSS 2.0 and Atom feeds of the newest articles.
package feed

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/view"
	"github.com/rwtnews/site/internal/modules/processing/richtext"
	"github.com/rwtnews/site/internal/pkg/format"
	"go.uber.org/zap"
)

const (
	Limit = 20

	summaryRunes = 280
	atomNS       = "http://www.w3.org/2005/Atom"
	dcNS         = "http://purl.org/dc/elements/1.1/"
)

type Source interface {
	LatestArticles(ctx context.Context, limit int) ([]models.Article, error)
}

type Site struct {
	Name        string
	URL         string
	Description string
}

type Handler struct {
	src  Source
	site Site
	log  *zap.Logger
	now  func() time.Time
}

func NewHandler(src Source, site Site, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	site.URL = strings.TrimRight(site.URL, "/")
	return &Handler{src: src, site: site, log: log, now: time.Now}
}

// RegisterRoutes mounts RSS and Atom feed endpoints.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/feed.xml", h.rss)
	r.GET("/atom.xml", h.atom)
}

type item struct {
	Title     string
	Link      string
	Author    string
	Category  string
	Summary   string
	Published time.Time
	Updated   time.Time
}

func (h *Handler) items(ctx context.Context) ([]item, error) {
	articles, err := h.src.LatestArticles(ctx, Limit)
	if err != nil {
		return nil, err
	}
	out := make([]item, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		attrs := a.Attributes
		published, ok := format.ParseDate(attrs.Date)
		if !ok {
			published = attrs.CreatedAt
		}
		updated := attrs.UpdatedAt
		if updated.Before(published) {
			updated = published
		}
		it := item{
			Title:     attrs.Title,
			Link:      h.site.URL + view.ArticleURL(attrs.Slug),
			Author:    attrs.Author,
			Summary:   summary(attrs),
			Published: published.UTC(),
			Updated:   updated.UTC(),
		}
		if cat := attrs.Category.Get(); cat != nil {
			it.Category = cat.Attributes.Name
		}
		out = append(out, it)
	}
	return out, nil
}

// summary prefers the excerpt and falls back to the start of the body.
func summary(attrs models.ArticleAttributes) string {
	if s := view.PlainText(attrs.Excerpt); s != "" {
		return s
	}
	return format.Truncate(strings.Join(strings.Fields(richtext.BodyText(attrs.RichBody)), " "), summaryRunes)
}

// lastUpdate is the newest item time, or now for an empty feed.
func (h *Handler) lastUpdate(items []item) time.Time {
	var newest time.Time
	for _, it := range items {
		if it.Updated.After(newest) {
			newest = it.Updated
		}
	}
	if newest.IsZero() {
		return h.now().UTC()
	}
	return newest
}

func (h *Handler) load(c *gin.Context) ([]item, bool) {
	items, err := h.items(c.Request.Context())
	if err != nil {
		h.log.Error("build feed", zap.Error(err))
		c.String(http.StatusBadGateway, "feed temporarily unavailable")
		return nil, false
	}
	return items, true
}

func (h *Handler) write(c *gin.Context, contentType string, doc any) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		h.log.Error("encode feed", zap.Error(err))
		c.String(http.StatusInternalServerError, "error generating feed")
		return
	}
	c.Data(http.StatusOK, contentType, append([]byte(xml.Header), out...))
}
