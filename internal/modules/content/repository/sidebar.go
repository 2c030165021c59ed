package repository

import (
	"context"

	"github.com/rwtnews/site/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Section is one independently fetched block. Err is set when its fetch
// failed; the other sections are unaffected.
type Section[T any] struct {
	Items []T
	Err   error
}

// OK reports whether the section loaded.
func (s Section[T]) OK() bool { return s.Err == nil }

type SidebarData struct {
	Featured Section[models.Article]
	Opinions Section[models.Opinion]
	Memes    Section[models.Meme]
	External Section[models.ExternalArticle]
}

// Sidebar fetches the four sidebar sections concurrently. It never fails
// as a whole.
func (r *Repository) Sidebar(ctx context.Context) SidebarData {
	var (
		out SidebarData
		g   errgroup.Group
	)
	g.Go(func() error {
		out.Featured = sectionOf(r, "featured", func() ([]models.Article, error) {
			return r.FeaturedArticlesForSidebar(ctx, 0)
		})
		return nil
	})
	g.Go(func() error {
		out.Opinions = sectionOf(r, "opinions", func() ([]models.Opinion, error) {
			return r.LatestOpinionsForSidebar(ctx, 0)
		})
		return nil
	})
	g.Go(func() error {
		out.Memes = sectionOf(r, "memes", func() ([]models.Meme, error) {
			return r.LatestMemesForSidebar(ctx, 0)
		})
		return nil
	})
	g.Go(func() error {
		out.External = sectionOf(r, "external", func() ([]models.ExternalArticle, error) {
			return r.LatestExternalArticlesForSidebar(ctx, 0)
		})
		return nil
	})
	_ = g.Wait()
	return out
}

func sectionOf[T any](r *Repository, name string, fetch func() ([]T, error)) Section[T] {
	items, err := fetch()
	if err != nil {
		r.log.Warn("sidebar section unavailable", zap.String("section", name), zap.Error(err))
		return Section[T]{Err: err}
	}
	return Section[T]{Items: items}
}
