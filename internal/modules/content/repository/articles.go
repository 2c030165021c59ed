package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/pkg/qs"
)

func (r *Repository) Articles(ctx context.Context, q Query) (Result[models.Article], error) {
	return list[models.ArticleAttributes](ctx, r.cms, pathArticles, q, ArticlePopulate)
}

// ArticleBySlug returns nil, nil when no article has slug.
func (r *Repository) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return bySlug[models.ArticleAttributes](ctx, r.cms, pathArticles, slug, ArticlePopulate)
}

// LatestArticles returns the newest articles of any kind, featured or not.
func (r *Repository) LatestArticles(ctx context.Context, limit int) ([]models.Article, error) {
	return latest[models.ArticleAttributes](ctx, r.cms, pathArticles, nil, limit, DefaultStandardLimit, nil, ArticlePopulate)
}

// FeaturedArticles returns the newest is_featured articles.
func (r *Repository) FeaturedArticles(ctx context.Context, limit int, sort ...string) ([]models.Article, error) {
	return latest[models.ArticleAttributes](ctx, r.cms, pathArticles, sort, limit, DefaultFeaturedLimit,
		qs.Filter{"is_featured": qs.Eq(true)}, ArticlePopulate)
}

// StandardArticles returns non-featured articles. extra is merged over
// the is_featured filter, so a caller can override it.
func (r *Repository) StandardArticles(ctx context.Context, limit int, extra qs.Filter, sort ...string) ([]models.Article, error) {
	filters := qs.Filter{"is_featured": qs.Ne(true)}.Merge(extra)
	return latest[models.ArticleAttributes](ctx, r.cms, pathArticles, sort, limit, DefaultStandardLimit,
		filters, ArticlePopulate)
}

// RelatedArticles shares the primary category or a tag with article id.
func (r *Repository) RelatedArticles(ctx context.Context, id int, tagIDs []int, categoryID, limit int) ([]models.Article, error) {
	return related[models.ArticleAttributes](ctx, r.cms, pathArticles, id, tagIDs, "category", categoryID, limit, ArticlePopulate)
}

func (r *Repository) FeaturedArticlesForSidebar(ctx context.Context, limit int) ([]models.Article, error) {
	return latest[models.ArticleAttributes](ctx, r.cms, pathArticles, nil, limit, SidebarFeaturedLimit,
		qs.Filter{"is_featured": qs.Eq(true)}, sidebarArticlePopulate)
}
