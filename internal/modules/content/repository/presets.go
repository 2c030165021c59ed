package repository

import "github.com/rwtnews/site/internal/pkg/qs"

const (
	DefaultFeaturedLimit = 3
	DefaultStandardLimit = 6
	DefaultRelatedLimit  = 3
	DefaultOpinionsLimit = 5
	DefaultMemesLimit    = 6
	DefaultExternalLimit = 6
	DefaultPageSize      = 10

	SidebarFeaturedLimit = 3
	SidebarOpinionsLimit = 4
	SidebarMemesLimit    = 2
	SidebarExternalLimit = 4
)

var (
	mediaFull = qs.Fields("url", "alternativeText", "width", "height")
	mediaThin = qs.Fields("url", "alternativeText")
	taxonomy  = qs.Fields("name", "slug")
)

// Full presets are used by listings and detail pages.
var (
	ArticlePopulate = qs.Populate{
		"image":              mediaFull,
		"category":           taxonomy,
		"secondary_category": taxonomy,
		"tags":               taxonomy,
		"author_image":       mediaThin,
	}

	OpinionPopulate = qs.Populate{
		"featured_image":     mediaFull,
		"secondary_category": taxonomy,
		"tags":               taxonomy,
		"author_image":       mediaThin,
	}

	MemePopulate = qs.Populate{
		"image": mediaFull,
	}

	// External articles carry a plain image_url and no relations.
	ExternalArticlePopulate = qs.Populate{}
)

// Sidebar presets request fewer fields.
var (
	sidebarArticlePopulate = qs.Populate{
		"image":    mediaThin,
		"category": taxonomy,
	}
	sidebarOpinionPopulate = qs.Populate{
		"secondary_category": taxonomy,
	}
	sidebarMemePopulate = qs.Populate{
		"image": mediaThin,
	}
)
