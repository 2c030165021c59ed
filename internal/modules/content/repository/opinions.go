package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
)

func (r *Repository) Opinions(ctx context.Context, q Query) (Result[models.Opinion], error) {
	return list[models.OpinionAttributes](ctx, r.cms, pathOpinions, q, OpinionPopulate)
}

func (r *Repository) OpinionBySlug(ctx context.Context, slug string) (*models.Opinion, error) {
	return bySlug[models.OpinionAttributes](ctx, r.cms, pathOpinions, slug, OpinionPopulate)
}

func (r *Repository) LatestOpinions(ctx context.Context, limit int, sort ...string) ([]models.Opinion, error) {
	return latest[models.OpinionAttributes](ctx, r.cms, pathOpinions, sort, limit, DefaultOpinionsLimit, nil, OpinionPopulate)
}

// RelatedOpinions relates on the secondary category, opinions have no primary one.
func (r *Repository) RelatedOpinions(ctx context.Context, id int, tagIDs []int, secondaryCategoryID, limit int) ([]models.Opinion, error) {
	return related[models.OpinionAttributes](ctx, r.cms, pathOpinions, id, tagIDs, "secondary_category", secondaryCategoryID, limit, OpinionPopulate)
}

func (r *Repository) LatestOpinionsForSidebar(ctx context.Context, limit int) ([]models.Opinion, error) {
	return latest[models.OpinionAttributes](ctx, r.cms, pathOpinions, nil, limit, SidebarOpinionsLimit, nil, sidebarOpinionPopulate)
}
