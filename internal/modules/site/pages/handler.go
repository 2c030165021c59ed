// Package pages serves the server-rendered HTML site.
package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/category"
	"github.com/rwtnews/site/internal/modules/content/repository"
	"github.com/rwtnews/site/internal/modules/content/view"
	"github.com/rwtnews/site/internal/modules/processing/richtext"
	"github.com/rwtnews/site/internal/pkg/format"
	"github.com/rwtnews/site/internal/pkg/pagination"
	"github.com/rwtnews/site/internal/pkg/response"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	homeFeaturedLimit = 1
	homeStandardLimit = 6
	homeExternalLimit = 6
)

type Options struct {
	Repo   *repository.Repository
	Images view.Resolver
	Body   richtext.Renderer
	Site   SiteInfo
	Logger *zap.Logger
	// Now is used for the footer year. Defaults to time.Now.
	Now func() time.Time
}

type Handler struct {
	repo   *repository.Repository
	images view.Resolver
	body   richtext.Renderer
	site   SiteInfo
	tpl    *templates
	assets fs.FS
	log    *zap.Logger
	now    func() time.Time
}

func NewHandler(opts Options) (*Handler, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := assets()
	if err != nil {
		return nil, fmt.Errorf("pages: assets: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	site := opts.Site
	site.URL = strings.TrimRight(site.URL, "/")
	if site.Description == "" {
		site.Description = defaultDescription
	}
	return &Handler{
		repo:   opts.Repo,
		images: opts.Images,
		body:   opts.Body,
		site:   site,
		tpl:    tpl,
		assets: static,
		log:    log,
		now:    now,
	}, nil
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/articles/:slug", h.article)
	r.GET("/opinions/:slug", h.opinion)
	r.GET("/categories/:category", h.category)
	r.StaticFS(AssetsPath, http.FS(h.assets))
	r.NoRoute(h.noRoute)
}

// GET /
func (h *Handler) home(c *gin.Context) {
	ctx := c.Request.Context()
	sidebar := h.prefetchSidebar(ctx)

	var (
		v homeView
		g errgroup.Group
	)
	g.Go(func() error {
		items, err := h.repo.FeaturedArticles(ctx, homeFeaturedLimit)
		v.Featured = loadSection(h.log, "featured", items, err, h.images.Articles)
		return nil
	})
	g.Go(func() error {
		items, err := h.repo.StandardArticles(ctx, homeStandardLimit, nil)
		v.Standard = loadSection(h.log, "standard", items, err, h.images.Articles)
		return nil
	})
	g.Go(func() error {
		items, err := h.repo.LatestExternalArticles(ctx, homeExternalLimit)
		v.External = loadSection(h.log, "external", items, err, h.images.Externals)
		return nil
	})
	_ = g.Wait()

	h.render(c, http.StatusOK, pageHome, page{
		Title:       "Home",
		Description: h.site.Description,
		Canonical:   h.absolute("/"),
		Sidebar:     sidebar(),
		Content:     v,
	})
}

// GET /articles/:slug
func (h *Handler) article(c *gin.Context) {
	ctx := c.Request.Context()
	sidebar := h.prefetchSidebar(ctx)
	slug := c.Param("slug")

	a, err := h.repo.ArticleBySlug(ctx, slug)
	if err != nil {
		h.log.Error("load article", zap.String("slug", slug), zap.Error(err))
		h.serverError(c, sidebar())
		return
	}
	if a == nil {
		h.notFound(c, sidebar(), "We couldn't find the article you were looking for.")
		return
	}

	attrs := a.Attributes
	card := h.images.Article(a)
	primary := view.TaxonomyLink(attrs.Category)
	v := h.detail(detailInput{
		kind:        models.KindArticle,
		id:          a.ID,
		title:       attrs.Title,
		quote:       attrs.Quote,
		author:      attrs.Author,
		authorImage: h.images.AuthorImage(attrs.AuthorImage, ""),
		image:       card.Image,
		imageAlt:    card.ImageAlt,
		date:        attrs.Date,
		updatedAt:   attrs.UpdatedAt,
		wordCount:   attrs.WordCount,
		readTime:    attrs.ReadTime,
		body:        attrs.RichBody,
		path:        card.URL,
	})
	v.Primary = primary
	v.Secondary = view.TaxonomyLink(attrs.SecondaryCategory)
	v.Breadcrumbs = view.Breadcrumbs(linkCrumb(primary), view.Crumb{Label: attrs.Title, Href: card.URL})
	v.RelatedTitle = "Related Articles"

	var categoryID int
	if cat := attrs.Category.Get(); cat != nil {
		categoryID = cat.ID
	}
	related, err := h.repo.RelatedArticles(ctx, a.ID, attrs.Tags.IDs(), categoryID, 0)
	if err != nil {
		h.log.Warn("related articles unavailable", zap.Int("id", a.ID), zap.Error(err))
	}
	for _, rc := range h.images.Articles(related) {
		v.Related = append(v.Related, rc)
	}

	h.render(c, http.StatusOK, pageDetail, page{
		Title:       attrs.Title,
		Description: metaDescription(attrs.Excerpt, attrs.Quote, "Read this article on "+h.site.Name+"."),
		Canonical:   h.absolute(card.URL),
		Image:       card.Image,
		Type:        "article",
		Sidebar:     sidebar(),
		Content:     v,
	})
}

// GET /opinions/:slug
func (h *Handler) opinion(c *gin.Context) {
	ctx := c.Request.Context()
	sidebar := h.prefetchSidebar(ctx)
	slug := c.Param("slug")

	o, err := h.repo.OpinionBySlug(ctx, slug)
	if err != nil {
		h.log.Error("load opinion", zap.String("slug", slug), zap.Error(err))
		h.serverError(c, sidebar())
		return
	}
	if o == nil {
		h.notFound(c, sidebar(), "We couldn't find the opinion piece you were looking for.")
		return
	}

	attrs := o.Attributes
	card := h.images.Opinion(o)
	v := h.detail(detailInput{
		kind:        models.KindOpinion,
		id:          o.ID,
		title:       attrs.Title,
		quote:       attrs.Quote,
		author:      attrs.Author,
		authorImage: h.images.AuthorImage(attrs.AuthorImage, ""),
		image:       card.Image,
		imageAlt:    card.ImageAlt,
		date:        attrs.Date,
		updatedAt:   attrs.UpdatedAt,
		wordCount:   attrs.WordCount,
		readTime:    attrs.ReadTime,
		body:        attrs.RichBody,
		path:        card.URL,
	})
	opinionLink := view.Link{Label: category.DisplayName(category.Opinion), Href: view.CategoryURL(category.Opinion)}
	v.Primary = &opinionLink
	v.Secondary = card.SecondaryCategory
	v.Breadcrumbs = view.Breadcrumbs(
		linkCrumb(&opinionLink),
		linkCrumb(card.SecondaryCategory),
		view.Crumb{Label: attrs.Title, Href: card.URL},
	)
	v.RelatedTitle = "Related Opinions"

	var secondaryID int
	if cat := attrs.SecondaryCategory.Get(); cat != nil {
		secondaryID = cat.ID
	}
	related, err := h.repo.RelatedOpinions(ctx, o.ID, attrs.Tags.IDs(), secondaryID, 0)
	if err != nil {
		h.log.Warn("related opinions unavailable", zap.Int("id", o.ID), zap.Error(err))
	}
	for _, rc := range h.images.Opinions(related) {
		v.Related = append(v.Related, rc)
	}

	h.render(c, http.StatusOK, pageDetail, page{
		Title:       attrs.Title,
		Description: metaDescription(attrs.Excerpt, attrs.Quote, "Read this opinion piece on "+h.site.Name+"."),
		Canonical:   h.absolute(card.URL),
		Image:       card.Image,
		Type:        "article",
		Sidebar:     sidebar(),
		Content:     v,
	})
}

// GET /categories/:category?page=n
func (h *Handler) category(c *gin.Context) {
	ctx := c.Request.Context()
	sidebar := h.prefetchSidebar(ctx)

	entry, ok := category.Lookup(c.Param("category"))
	if !ok {
		h.notFound(c, sidebar(), "That category doesn't exist.")
		return
	}

	listing, err := h.repo.ItemsForCategory(ctx, entry.Slug, pagination.PageFromQuery(c), repository.DefaultPageSize)
	if err != nil {
		h.log.Error("load category", zap.String("category", entry.Slug), zap.Error(err))
		h.serverError(c, sidebar())
		return
	}

	path := view.CategoryURL(entry.Slug)
	v := categoryView{
		Slug:        entry.Slug,
		Name:        entry.Name,
		Layout:      listingLayout(entry.Slug),
		Breadcrumbs: view.Breadcrumbs(view.Crumb{Label: entry.Name, Href: path}),
		Cards:       h.images.Items(listing.Items),
	}
	if p := listing.Pagination; p != nil && p.PageCount > 1 && entry.Slug != category.NewsFromWeb {
		v.Pagination = pagination.Controls(path, c.Request.URL.Query(), p.Page, p.PageCount)
	}

	h.render(c, http.StatusOK, pageCategory, page{
		Title:       entry.Name + " Archives",
		Description: "Browse " + entry.Name + " on " + h.site.Name + ".",
		Canonical:   h.absolute(path),
		Sidebar:     sidebar(),
		Content:     v,
	})
}

// noRoute answers JSON under /api and the HTML 404 page elsewhere.
func (h *Handler) noRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		response.NotFound(c)
		return
	}
	h.notFound(c, h.prefetchSidebar(c.Request.Context())(), "")
}

func (h *Handler) notFound(c *gin.Context, sidebar sidebarView, msg string) {
	h.render(c, http.StatusNotFound, pageNotFound, page{
		Title:       "Page Not Found",
		Description: h.site.Description,
		Sidebar:     sidebar,
		Content:     msg,
	})
}

func (h *Handler) serverError(c *gin.Context, sidebar sidebarView) {
	h.render(c, http.StatusInternalServerError, pageError, page{
		Title:       "Error",
		Description: h.site.Description,
		Sidebar:     sidebar,
	})
}

func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	p.Site = h.site
	p.Nav = mainNav
	p.Categories = categoryLinks()
	p.Year = h.now().Year()

	body, err := h.tpl.render(name, p)
	if err != nil {
		h.log.Error("render page", zap.String("page", name), zap.Error(err))
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Internal Server Error"))
		return
	}
	// Partial pages must not outlive the upstream failure in caches.
	if p.degraded() {
		c.Header("Cache-Control", "no-store")
	}
	c.Data(status, "text/html; charset=utf-8", body)
}

// prefetchSidebar starts the sidebar fetch so it overlaps the page's own
// queries. The returned func blocks until it is done.
func (h *Handler) prefetchSidebar(ctx context.Context) func() sidebarView {
	ch := make(chan repository.SidebarData, 1)
	go func() { ch <- h.repo.Sidebar(ctx) }()
	return func() sidebarView {
		sb := <-ch
		return sidebarView{
			Featured: sectionFrom(sb.Featured, h.images.Articles),
			Opinions: sectionFrom(sb.Opinions, h.images.Opinions),
			Memes:    sectionFrom(sb.Memes, h.images.Memes),
			External: sectionFrom(sb.External, h.images.Externals),
		}
	}
}

// loadSection logs a failed home section and marks it unavailable.
func loadSection[E, C any](log *zap.Logger, name string, items []E, err error, mapFn func([]E) []C) section[C] {
	if err != nil {
		log.Warn("home section unavailable", zap.String("section", name), zap.Error(err))
		return section[C]{Unavailable: true}
	}
	return section[C]{Items: mapFn(items)}
}

func (h *Handler) absolute(path string) string {
	if h.site.URL == "" {
		return ""
	}
	return h.site.URL + path
}

type detailInput struct {
	kind        models.Kind
	id          int
	title       string
	quote       string
	author      string
	authorImage string
	image       string
	imageAlt    string
	date        string
	updatedAt   time.Time
	wordCount   int
	readTime    int
	body        json.RawMessage
	path        string
}

func (h *Handler) detail(in detailInput) detailView {
	body, err := h.body.Body(in.body)
	if err != nil {
		h.log.Warn("render body", zap.String("kind", string(in.kind)), zap.Int("id", in.id), zap.Error(err))
	}
	return detailView{
		Kind:         in.kind,
		ID:           in.id,
		Title:        in.title,
		Quote:        in.quote,
		Author:       in.author,
		AuthorImage:  in.authorImage,
		Image:        in.image,
		ImageAlt:     in.imageAlt,
		Published:    format.Long(in.date),
		PublishedISO: in.date,
		Updated:      updatedLabel(in.date, in.updatedAt),
		WordCount:    in.wordCount,
		ReadTime:     format.Minutes(in.readTime, richtext.BodyText(in.body)),
		Body:         body,
		Share:        view.ShareLinks(h.absolute(in.path), in.title),
	}
}

func linkCrumb(l *view.Link) view.Crumb {
	if l == nil {
		return view.Crumb{}
	}
	return view.Crumb{Label: l.Label, Href: l.Href}
}
