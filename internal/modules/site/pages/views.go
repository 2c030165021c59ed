package pages

import (
	"html/template"
	"time"

	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/category"
	"github.com/rwtnews/site/internal/modules/content/repository"
	"github.com/rwtnews/site/internal/modules/content/view"
	"github.com/rwtnews/site/internal/pkg/format"
	"github.com/rwtnews/site/internal/pkg/pagination"
)

const defaultDescription = "Red, White and True News - Your source for patriotic news and opinion."

// updatedAfter is how long after publication an edit must land before the
// page shows an "Updated" line.
const updatedAfter = time.Minute

type SiteInfo struct {
	Name        string
	URL         string
	Description string
}

// page is the data every layout render receives.
type page struct {
	Site        SiteInfo
	Title       string
	Description string
	Canonical   string
	Image       string
	Type        string
	Nav         []view.Link
	Categories  []view.Link
	Sidebar     sidebarView
	Year        int
	Content     any
}

// section is one independently loaded block of cards.
type section[T any] struct {
	Items       []T
	Unavailable bool
}

func sectionFrom[E, C any](s repository.Section[E], mapFn func([]E) []C) section[C] {
	if !s.OK() {
		return section[C]{Unavailable: true}
	}
	return section[C]{Items: mapFn(s.Items)}
}

type sidebarView struct {
	Featured section[view.ArticleCard]
	Opinions section[view.OpinionCard]
	Memes    section[view.MemeCard]
	External section[view.ExternalCard]
}

func (s sidebarView) degraded() bool {
	return s.Featured.Unavailable || s.Opinions.Unavailable || s.Memes.Unavailable || s.External.Unavailable
}

type homeView struct {
	Featured section[view.ArticleCard]
	Standard section[view.ArticleCard]
	External section[view.ExternalCard]
}

func (v homeView) degraded() bool {
	return v.Featured.Unavailable || v.Standard.Unavailable || v.External.Unavailable
}

// degraded reports whether any section of the page failed to load.
func (p page) degraded() bool {
	if p.Sidebar.degraded() {
		return true
	}
	if d, ok := p.Content.(interface{ degraded() bool }); ok {
		return d.degraded()
	}
	return false
}

type detailView struct {
	Kind         models.Kind
	ID           int
	Title        string
	Quote        string
	Author       string
	AuthorImage  string
	Image        string
	ImageAlt     string
	Primary      *view.Link
	Secondary    *view.Link
	Published    string
	PublishedISO string
	Updated      string
	WordCount    int
	ReadTime     string
	Body         template.HTML
	Breadcrumbs  []view.Crumb
	Share        []view.ShareLink
	RelatedTitle string
	Related      []view.Card
}

type categoryView struct {
	Slug        string
	Name        string
	Layout      string
	Breadcrumbs []view.Crumb
	Cards       []view.Card
	Pagination  []pagination.Item
}

var mainNav = []view.Link{
	{Label: "Home", Href: "/"},
	{Label: "News", Href: view.CategoryURL(category.News)},
	{Label: "Opinion", Href: view.CategoryURL(category.Opinion)},
	{Label: "Memes/Cartoons", Href: view.CategoryURL(category.MemesCartoons)},
	{Label: "From the Web", Href: view.CategoryURL(category.NewsFromWeb)},
}

func categoryLinks() []view.Link {
	entries := category.All()
	out := make([]view.Link, len(entries))
	for i, e := range entries {
		out[i] = view.Link{Label: e.Name, Href: view.CategoryURL(e.Slug)}
	}
	return out
}

// metaDescription falls back from excerpt to quote to a generic line.
func metaDescription(excerpt, quote, fallback string) string {
	switch {
	case excerpt != "":
		return view.PlainText(excerpt)
	case quote != "":
		return quote
	}
	return fallback
}

// updatedLabel is empty unless updatedAt is more than a minute after the
// publication date. An unparseable date never shows an update.
func updatedLabel(date string, updatedAt time.Time) string {
	published, ok := format.ParseDate(date)
	if !ok || updatedAt.IsZero() {
		return ""
	}
	if !updatedAt.After(published.Add(updatedAfter)) {
		return ""
	}
	return updatedAt.Format(format.LongDate)
}

// listingLayout picks the grid used by a category page.
func listingLayout(slug string) string {
	switch slug {
	case category.NewsFromWeb:
		return "grid-2"
	case category.MemesCartoons:
		return "grid-3"
	}
	return "grid-1"
}
