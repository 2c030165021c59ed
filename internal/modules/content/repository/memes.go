package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
)

func (r *Repository) Memes(ctx context.Context, q Query) (Result[models.Meme], error) {
	return list[models.MemeAttributes](ctx, r.cms, pathMemes, q, MemePopulate)
}

func (r *Repository) LatestMemes(ctx context.Context, limit int, sort ...string) ([]models.Meme, error) {
	return latest[models.MemeAttributes](ctx, r.cms, pathMemes, sort, limit, DefaultMemesLimit, nil, MemePopulate)
}

func (r *Repository) LatestMemesForSidebar(ctx context.Context, limit int) ([]models.Meme, error) {
	return latest[models.MemeAttributes](ctx, r.cms, pathMemes, nil, limit, SidebarMemesLimit, nil, sidebarMemePopulate)
}
