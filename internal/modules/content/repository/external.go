package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
)

func (r *Repository) ExternalArticles(ctx context.Context, q Query) (Result[models.ExternalArticle], error) {
	return list[models.ExternalArticleAttributes](ctx, r.cms, pathExternalArticles, q, ExternalArticlePopulate)
}

func (r *Repository) LatestExternalArticles(ctx context.Context, limit int) ([]models.ExternalArticle, error) {
	return latest[models.ExternalArticleAttributes](ctx, r.cms, pathExternalArticles, nil, limit, DefaultExternalLimit, nil, ExternalArticlePopulate)
}

func (r *Repository) LatestExternalArticlesForSidebar(ctx context.Context, limit int) ([]models.ExternalArticle, error) {
	return latest[models.ExternalArticleAttributes](ctx, r.cms, pathExternalArticles, nil, limit, SidebarExternalLimit, nil, ExternalArticlePopulate)
}
