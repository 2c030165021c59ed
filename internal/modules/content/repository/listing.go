package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/category"
	"github.com/rwtnews/site/internal/pkg/qs"
	"go.uber.org/zap"
)

// Item is one entry of a category listing. Exactly one of the entity
// pointers is set, matching Kind.
type Item struct {
	Kind     models.Kind
	Article  *models.Article
	Opinion  *models.Opinion
	Meme     *models.Meme
	External *models.ExternalArticle
}

// ID returns the CMS id of whichever entity is set.
func (i Item) ID() int {
	switch i.Kind {
	case models.KindArticle:
		return i.Article.ID
	case models.KindOpinion:
		return i.Opinion.ID
	case models.KindMeme:
		return i.Meme.ID
	case models.KindExternalArticle:
		return i.External.ID
	}
	return 0
}

// Listing is a category page. Pagination is nil when the CMS reported none.
type Listing struct {
	Items      []Item
	Pagination *models.Pagination
}

// ItemsForCategory lists the first content kind of the category and tags
// every item with its content type. Unknown slugs give an empty listing.
func (r *Repository) ItemsForCategory(ctx context.Context, slug string, page, pageSize int) (Listing, error) {
	entry, ok := category.Lookup(slug)
	if !ok {
		r.log.Warn("invalid category slug", zap.String("slug", slug))
		return Listing{}, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	q := Query{
		Sort:       []string{sortNewest},
		Pagination: qs.Page(page, pageSize),
	}

	switch entry.PrimaryKind() {
	case models.KindArticle:
		if entry.Slug == category.Featured {
			q.Filters = qs.Filter{"is_featured": qs.Eq(true)}
		} else {
			q.Filters = qs.Rel("category", qs.Filter{"slug": qs.Eq(entry.Slug)})
		}
		res, err := r.Articles(ctx, q)
		if err != nil {
			return Listing{}, err
		}
		return tagged(res, func(e *models.Article) Item {
			e.Attributes.ContentType = models.KindArticle
			return Item{Kind: models.KindArticle, Article: e}
		}), nil

	case models.KindOpinion:
		if entry.Slug != category.Opinion {
			q.Filters = qs.Rel("secondary_category", qs.Filter{"slug": qs.Eq(entry.Slug)})
		}
		res, err := r.Opinions(ctx, q)
		if err != nil {
			return Listing{}, err
		}
		return tagged(res, func(e *models.Opinion) Item {
			e.Attributes.ContentType = models.KindOpinion
			return Item{Kind: models.KindOpinion, Opinion: e}
		}), nil

	case models.KindMeme:
		res, err := r.Memes(ctx, q)
		if err != nil {
			return Listing{}, err
		}
		return tagged(res, func(e *models.Meme) Item {
			e.Attributes.ContentType = models.KindMeme
			return Item{Kind: models.KindMeme, Meme: e}
		}), nil

	case models.KindExternalArticle:
		res, err := r.ExternalArticles(ctx, q)
		if err != nil {
			return Listing{}, err
		}
		return tagged(res, func(e *models.ExternalArticle) Item {
			e.Attributes.ContentType = models.KindExternalArticle
			return Item{Kind: models.KindExternalArticle, External: e}
		}), nil
	}
	return Listing{}, nil
}

func tagged[T any](res Result[T], wrap func(*T) Item) Listing {
	items := make([]Item, len(res.Items))
	for i := range res.Items {
		items[i] = wrap(&res.Items[i])
	}
	return Listing{Items: items, Pagination: res.Pagination}
}
