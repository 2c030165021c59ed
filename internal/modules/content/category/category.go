// Package category holds the fixed taxonomy behind /categories/{slug}.
// Some entries are synthetic groupings over a content kind rather than
// CMS category records.
package category

import (
	"slices"
	"strings"

	"github.com/rwtnews/site/internal/models"
)

const (
	News          = "news"
	Opinion       = "opinion"
	MemesCartoons = "meme-cartoons"
	NewsFromWeb   = "news-from-web"
	Featured      = "featured"
)

// FallbackName is what DisplayName returns for unknown slugs.
const FallbackName = "Category"

// Entry describes one category page.
type Entry struct {
	Slug  string
	Name  string
	Kinds []models.Kind
}

// PrimaryKind is the kind a listing page fetches. Mixed-kind entries are
// not merged; only the first kind is listed.
func (e Entry) PrimaryKind() models.Kind {
	if len(e.Kinds) == 0 {
		return ""
	}
	return e.Kinds[0]
}

var table = map[string]Entry{
	News:          {Slug: News, Name: "News", Kinds: []models.Kind{models.KindArticle}},
	Opinion:       {Slug: Opinion, Name: "Opinion", Kinds: []models.Kind{models.KindOpinion}},
	MemesCartoons: {Slug: MemesCartoons, Name: "Memes & Cartoons", Kinds: []models.Kind{models.KindMeme}},
	NewsFromWeb:   {Slug: NewsFromWeb, Name: "News From The Web", Kinds: []models.Kind{models.KindExternalArticle}},
	Featured:      {Slug: Featured, Name: "Featured", Kinds: []models.Kind{models.KindArticle}},
}

// order is the navigation order.
var order = []string{News, Opinion, MemesCartoons, NewsFromWeb, Featured}

func normalize(slug string) string {
	return strings.ToLower(slug)
}

// IsValid reports whether slug names a category, ignoring case.
func IsValid(slug string) bool {
	_, ok := table[normalize(slug)]
	return ok
}

// DisplayName returns the category name or FallbackName. Callers check
// IsValid first; the fallback is not a validity signal.
func DisplayName(slug string) string {
	if e, ok := table[normalize(slug)]; ok {
		return e.Name
	}
	return FallbackName
}

// Lookup returns a copy of the entry for slug.
func Lookup(slug string) (Entry, bool) {
	e, ok := table[normalize(slug)]
	if !ok {
		return Entry{}, false
	}
	e.Kinds = slices.Clone(e.Kinds)
	return e, true
}

// Slugs lists every category in navigation order.
func Slugs() []string {
	return slices.Clone(order)
}

// All returns every entry in navigation order.
func All() []Entry {
	out := make([]Entry, 0, len(order))
	for _, slug := range order {
		e, _ := Lookup(slug)
		out = append(out, e)
	}
	return out
}
