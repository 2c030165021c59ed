// Package view turns CMS entities into the flat view-models templates use.
package view

import (
	"strings"

	"github.com/rwtnews/site/internal/models"
)

const (
	PlaceholderImage  = "/images/core/placeholder.jpg"
	PlaceholderAuthor = "/images/staff/authors/placeholder-author.jpg"
)

// Resolver picks image URLs in a fixed order: media relation, legacy
// image_path, placeholder. It never returns "".
type Resolver struct {
	CMSBaseURL string
}

func (r Resolver) Image(media *models.MediaRelation, legacy string) string {
	return r.resolve(media, legacy, PlaceholderImage)
}

func (r Resolver) AuthorImage(media *models.MediaRelation, legacy string) string {
	return r.resolve(media, legacy, PlaceholderAuthor)
}

// Alt returns the media alternative text, or fallback.
func Alt(media *models.MediaRelation, fallback string) string {
	if m := media.Get(); m != nil && m.Attributes.AlternativeText != "" {
		return m.Attributes.AlternativeText
	}
	return fallback
}

func (r Resolver) resolve(media *models.MediaRelation, legacy, placeholder string) string {
	if u := strings.TrimSpace(models.MediaURL(media)); u != "" {
		return r.Absolute(u)
	}
	if legacy = strings.TrimSpace(legacy); legacy != "" {
		return r.Absolute(legacy)
	}
	return placeholder
}

// Absolute prefixes p with the CMS base URL unless it already is absolute.
func (r Resolver) Absolute(p string) string {
	if strings.HasPrefix(p, "http") || strings.HasPrefix(p, "//") {
		return p
	}
	base := strings.TrimRight(r.CMSBaseURL, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}
