// Package repository fetches content from the CMS, one function family per
// content kind. Not-found is a nil entity with a nil error; upstream
// failures are returned unchanged.
package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/pkg/qs"
	"go.uber.org/zap"
)

const (
	pathArticles         = "/articles"
	pathOpinions         = "/opinions"
	pathMemes            = "/memes"
	pathExternalArticles = "/external-articles"

	sortNewest = "date:desc"
)

// CMS is the subset of the strapi client the repository needs.
type CMS interface {
	Get(ctx context.Context, path string, params qs.Params, out any) error
}

// Query narrows a list call. A nil Populate uses the kind's full preset.
type Query struct {
	Filters    qs.Filter
	Sort       []string
	Pagination *qs.Pagination
	Populate   qs.Populate
}

// Result is one page of entities plus the CMS page meta, if any.
type Result[T any] struct {
	Items      []T
	Pagination *models.Pagination
}

type Repository struct {
	cms CMS
	log *zap.Logger
}

func New(cms CMS, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{cms: cms, log: log}
}

func (q Query) params(preset qs.Populate) qs.Params {
	populate := q.Populate
	if populate == nil {
		populate = preset
	}
	return qs.Params{
		Filters:    q.Filters,
		Sort:       q.Sort,
		Pagination: q.Pagination,
		Populate:   populate,
	}
}

func list[A any](ctx context.Context, cms CMS, path string, q Query, preset qs.Populate) (Result[models.Entity[A]], error) {
	var env models.Envelope[[]models.Entity[A]]
	if err := cms.Get(ctx, path, q.params(preset), &env); err != nil {
		return Result[models.Entity[A]]{}, err
	}
	return Result[models.Entity[A]]{Items: env.Data, Pagination: env.PaginationOf()}, nil
}

func bySlug[A any](ctx context.Context, cms CMS, path, slug string, preset qs.Populate) (*models.Entity[A], error) {
	res, err := list[A](ctx, cms, path, Query{
		Filters:    qs.Filter{"slug": qs.Eq(slug)},
		Pagination: qs.Limit(1),
	}, preset)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, nil
	}
	return &res.Items[0], nil
}

func latest[A any](ctx context.Context, cms CMS, path string, sort []string, limit, def int, filters qs.Filter, populate qs.Populate) ([]models.Entity[A], error) {
	if limit <= 0 {
		limit = def
	}
	if len(sort) == 0 {
		sort = []string{sortNewest}
	}
	res, err := list[A](ctx, cms, path, Query{
		Filters:    filters,
		Sort:       sort,
		Pagination: qs.Limit(limit),
	}, populate)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// related builds {id: {$ne: id}, $or: [...]} and returns nil without a
// request when there is nothing to relate on. Results never include id.
func related[A any](ctx context.Context, cms CMS, path string, id int, tagIDs []int, categoryField string, categoryID, limit int, preset qs.Populate) ([]models.Entity[A], error) {
	var or []qs.Filter
	if categoryID > 0 {
		or = append(or, qs.Rel(categoryField, qs.Filter{"id": qs.Eq(categoryID)}))
	}
	if len(tagIDs) > 0 {
		or = append(or, qs.Rel("tags", qs.Filter{"id": qs.In(tagIDs...)}))
	}
	if len(or) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	filters := qs.Filter{"id": qs.Ne(id)}.Merge(qs.Or(or...))
	res, err := list[A](ctx, cms, path, Query{
		Filters:    filters,
		Sort:       []string{sortNewest},
		Pagination: qs.Limit(limit),
	}, preset)
	if err != nil {
		return nil, err
	}

	out := res.Items[:0]
	for _, item := range res.Items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out, nil
}
