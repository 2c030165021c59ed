package view

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/category"
	"github.com/rwtnews/site/internal/modules/content/repository"
	"github.com/rwtnews/site/internal/pkg/format"
)

// Card is the closed set of listing cards. Template names the partial
// that renders the card.
type Card interface {
	Kind() models.Kind
	Template() string
	card()
}

type Link struct {
	Label string
	Href  string
}

type ArticleCard struct {
	ID       int
	Title    string
	URL      string
	Excerpt  string
	Image    string
	ImageAlt string
	Category Link
	Author   string
	Date     string
	DateISO  string
	Featured bool
}

type OpinionCard struct {
	ID                int
	Title             string
	URL               string
	Excerpt           string
	Image             string
	ImageAlt          string
	Author            string
	Date              string
	DateISO           string
	SecondaryCategory *Link
}

type MemeCard struct {
	ID       int
	Title    string
	Href     string
	Image    string
	ImageAlt string
}

type ExternalCard struct {
	ID      int
	Title   string
	URL     string
	Source  string
	Excerpt string
	Image   string
	Date    string
}

func (ArticleCard) Kind() models.Kind  { return models.KindArticle }
func (OpinionCard) Kind() models.Kind  { return models.KindOpinion }
func (MemeCard) Kind() models.Kind     { return models.KindMeme }
func (ExternalCard) Kind() models.Kind { return models.KindExternalArticle }

func (ArticleCard) Template() string  { return "card-article" }
func (OpinionCard) Template() string  { return "card-opinion" }
func (MemeCard) Template() string     { return "card-meme" }
func (ExternalCard) Template() string { return "card-external" }

func (ArticleCard) card()  {}
func (OpinionCard) card()  {}
func (MemeCard) card()     {}
func (ExternalCard) card() {}

var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from s.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func ArticleURL(slug string) string  { return "/articles/" + slug }
func OpinionURL(slug string) string  { return "/opinions/" + slug }
func CategoryURL(slug string) string { return "/categories/" + slug }

// TaxonomyLink prefers the related record's slug and derives one from the
// name otherwise.
func TaxonomyLink(rel *models.CategoryRelation) *Link {
	c := rel.Get()
	if c == nil || c.Attributes.Name == "" {
		return nil
	}
	slug := c.Attributes.Slug
	if slug == "" {
		slug = format.Slugify(c.Attributes.Name)
	}
	return &Link{Label: c.Attributes.Name, Href: CategoryURL(slug)}
}

func (r Resolver) Article(a *models.Article) ArticleCard {
	attrs := a.Attributes
	cat := Link{Label: "Uncategorized"}
	if l := TaxonomyLink(attrs.Category); l != nil {
		cat = *l
	}
	return ArticleCard{
		ID:       a.ID,
		Title:    attrs.Title,
		URL:      ArticleURL(attrs.Slug),
		Excerpt:  attrs.Excerpt,
		Image:    r.Image(attrs.Image, attrs.ImagePath),
		ImageAlt: Alt(attrs.Image, attrs.Title),
		Category: cat,
		Author:   attrs.Author,
		Date:     format.Short(attrs.Date),
		DateISO:  attrs.Date,
		Featured: attrs.IsFeatured,
	}
}

func (r Resolver) Opinion(o *models.Opinion) OpinionCard {
	attrs := o.Attributes
	return OpinionCard{
		ID:                o.ID,
		Title:             attrs.Title,
		URL:               OpinionURL(attrs.Slug),
		Excerpt:           attrs.Excerpt,
		Image:             r.Image(attrs.FeaturedImage, attrs.ImagePath),
		ImageAlt:          Alt(attrs.FeaturedImage, nonEmpty(attrs.Title, "Opinion piece image")),
		Author:            attrs.Author,
		Date:              format.Long(attrs.Date),
		DateISO:           attrs.Date,
		SecondaryCategory: TaxonomyLink(attrs.SecondaryCategory),
	}
}

func (r Resolver) Meme(m *models.Meme) MemeCard {
	attrs := m.Attributes
	return MemeCard{
		ID:       m.ID,
		Title:    attrs.Title,
		Href:     CategoryURL(category.MemesCartoons),
		Image:    r.Image(attrs.Image, attrs.ImagePath),
		ImageAlt: Alt(attrs.Image, nonEmpty(attrs.Title, "Meme")),
	}
}

// External uses image_url as-is; it is a remote URL, not CMS media.
func (r Resolver) External(e *models.ExternalArticle) ExternalCard {
	attrs := e.Attributes
	return ExternalCard{
		ID:      e.ID,
		Title:   attrs.Title,
		URL:     attrs.URL,
		Source:  attrs.Source,
		Excerpt: PlainText(attrs.Excerpt),
		Image:   nonEmpty(strings.TrimSpace(attrs.ImageURL), PlaceholderImage),
		Date:    format.Short(attrs.Date),
	}
}

// Item maps a listing item to its card. It returns nil for an item whose
// entity is missing.
func (r Resolver) Item(item repository.Item) Card {
	switch item.Kind {
	case models.KindArticle:
		if item.Article != nil {
			return r.Article(item.Article)
		}
	case models.KindOpinion:
		if item.Opinion != nil {
			return r.Opinion(item.Opinion)
		}
	case models.KindMeme:
		if item.Meme != nil {
			return r.Meme(item.Meme)
		}
	case models.KindExternalArticle:
		if item.External != nil {
			return r.External(item.External)
		}
	}
	return nil
}

func (r Resolver) Items(items []repository.Item) []Card {
	out := make([]Card, 0, len(items))
	for _, item := range items {
		if c := r.Item(item); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (r Resolver) Articles(in []models.Article) []ArticleCard {
	return mapAll(in, r.Article)
}

func (r Resolver) Opinions(in []models.Opinion) []OpinionCard {
	return mapAll(in, r.Opinion)
}

func (r Resolver) Memes(in []models.Meme) []MemeCard {
	return mapAll(in, r.Meme)
}

func (r Resolver) Externals(in []models.ExternalArticle) []ExternalCard {
	return mapAll(in, r.External)
}

func mapAll[T, C any](in []T, fn func(*T) C) []C {
	out := make([]C, len(in))
	for i := range in {
		out[i] = fn(&in[i])
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
