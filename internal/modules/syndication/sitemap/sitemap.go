// Package sitemap serves /sitemap.xml.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/category"
	"github.com/rwtnews/site/internal/modules/content/view"
	"github.com/rwtnews/site/internal/pkg/format"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Limit caps the articles and the opinions listed, each.
const Limit = 100

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Source interface {
	LatestArticles(ctx context.Context, limit int) ([]models.Article, error)
	LatestOpinions(ctx context.Context, limit int, sort ...string) ([]models.Opinion, error)
}

type Handler struct {
	src  Source
	base string
	log  *zap.Logger
	now  func() time.Time
}

func NewHandler(src Source, siteURL string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{src: src, base: strings.TrimRight(siteURL, "/"), log: log, now: time.Now}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/sitemap.xml", h.render)
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

func (h *Handler) render(c *gin.Context) {
	urls, err := h.build(c.Request.Context())
	if err != nil {
		h.log.Error("build sitemap", zap.Error(err))
		c.String(http.StatusBadGateway, "error generating sitemap")
		return
	}
	out, err := xml.MarshalIndent(urlset{NS: sitemapNS, URLs: urls}, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, "error generating sitemap")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

func (h *Handler) build(ctx context.Context) ([]sitemapURL, error) {
	var (
		articles []models.Article
		opinions []models.Opinion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		articles, err = h.src.LatestArticles(gctx, Limit)
		return err
	})
	g.Go(func() error {
		var err error
		opinions, err = h.src.LatestOpinions(gctx, Limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	today := h.now().UTC().Format(time.DateOnly)
	urls := make([]sitemapURL, 0, 1+len(category.Slugs())+len(articles)+len(opinions))
	urls = append(urls, sitemapURL{Loc: h.base + "/", LastMod: today, ChangeFreq: "daily", Priority: 1.0})
	for _, slug := range category.Slugs() {
		urls = append(urls, sitemapURL{
			Loc:        h.base + view.CategoryURL(slug),
			LastMod:    today,
			ChangeFreq: "daily",
			Priority:   0.7,
		})
	}
	for _, a := range articles {
		urls = append(urls, h.entry(view.ArticleURL(a.Attributes.Slug), a.Attributes.Date, a.Attributes.UpdatedAt))
	}
	for _, o := range opinions {
		urls = append(urls, h.entry(view.OpinionURL(o.Attributes.Slug), o.Attributes.Date, o.Attributes.UpdatedAt))
	}
	return urls, nil
}

func (h *Handler) entry(path, date string, updatedAt time.Time) sitemapURL {
	mod := updatedAt
	if mod.IsZero() {
		mod, _ = format.ParseDate(date)
	}
	u := sitemapURL{Loc: h.base + path, ChangeFreq: "weekly", Priority: 0.8}
	if !mod.IsZero() {
		u.LastMod = mod.UTC().Format(time.DateOnly)
	}
	return u
}
