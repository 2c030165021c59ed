package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/pkg/qs"
	"github.com/rwtnews/site/internal/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	path  string
	query map[string]any
}

type fakeCMS struct {
	mu     sync.Mutex
	calls  []call
	bodies map[string]string
	errs   map[string]error
}

func newFakeCMS() *fakeCMS {
	return &fakeCMS{bodies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeCMS) Get(_ context.Context, path string, params qs.Params, out any) error {
	tree, err := qs.Decode(qs.Encode(params))
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, call{path: path, query: tree})
	body, ok := f.bodies[path]
	failure := f.errs[path]
	f.mu.Unlock()

	if failure != nil {
		return failure
	}
	if !ok {
		body = `{"data":[]}`
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeCMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCMS) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func TestArticleBySlug(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("pagination[limit]"))
		if r.URL.Query().Get("filters[slug][$eq]") != "example-slug" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":11,"attributes":{"title":"Example","slug":"example-slug",
			"category":{"data":{"id":2,"attributes":{"name":"News","slug":"news"}}}}}]}`))
	}))
	defer srv.Close()

	repo := New(strapi.New(strapi.Options{BaseURL: srv.URL}), nil)

	t.Run("found", func(t *testing.T) {
		a, err := repo.ArticleBySlug(context.Background(), "example-slug")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.Equal(t, 11, a.ID)
		assert.Equal(t, "Example", a.Attributes.Title)
		assert.Equal(t, "news", a.Attributes.Category.Get().Attributes.Slug)
		assert.Empty(t, a.Attributes.ContentType)
	})

	t.Run("missing is nil without error", func(t *testing.T) {
		a, err := repo.ArticleBySlug(context.Background(), "no-such-slug")
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	assert.Equal(t, int32(2), hits.Load())
}

func TestRelated(t *testing.T) {
	t.Run("no criteria issues no request", func(t *testing.T) {
		cms := newFakeCMS()
		repo := New(cms, nil)

		arts, err := repo.RelatedArticles(context.Background(), 4, nil, 0, 3)
		require.NoError(t, err)
		assert.Empty(t, arts)

		ops, err := repo.RelatedOpinions(context.Background(), 4, []int{}, 0, 3)
		require.NoError(t, err)
		assert.Empty(t, ops)

		assert.Zero(t, cms.count())
	})

	t.Run("filter shape", func(t *testing.T) {
		cms := newFakeCMS()
		repo := New(cms, nil)

		_, err := repo.RelatedArticles(context.Background(), 4, []int{8, 9}, 2, 0)
		require.NoError(t, err)
		require.Equal(t, 1, cms.count())

		got := cms.last()
		assert.Equal(t, "/articles", got.path)
		filters := got.query["filters"].(map[string]any)
		assert.Equal(t, map[string]any{"$ne": "4"}, filters["id"])
		assert.Equal(t, []any{
			map[string]any{"category": map[string]any{"id": map[string]any{"$eq": "2"}}},
			map[string]any{"tags": map[string]any{"id": map[string]any{"$in": []any{"8", "9"}}}},
		}, filters["$or"])
		assert.Equal(t, []any{"date:desc"}, got.query["sort"])
		assert.Equal(t, map[string]any{"limit": "3"}, got.query["pagination"])
	})

	t.Run("opinions relate on secondary category", func(t *testing.T) {
		cms := newFakeCMS()
		repo := New(cms, nil)

		_, err := repo.RelatedOpinions(context.Background(), 1, nil, 6, 2)
		require.NoError(t, err)
		filters := cms.last().query["filters"].(map[string]any)
		assert.Equal(t, []any{
			map[string]any{"secondary_category": map[string]any{"id": map[string]any{"$eq": "6"}}},
		}, filters["$or"])
	})

	t.Run("source id is dropped from results", func(t *testing.T) {
		cms := newFakeCMS()
		cms.bodies["/articles"] = `{"data":[{"id":3},{"id":4},{"id":5},{"id":4}]}`
		repo := New(cms, nil)

		arts, err := repo.RelatedArticles(context.Background(), 4, []int{1}, 0, 3)
		require.NoError(t, err)
		require.Len(t, arts, 2)
		for _, a := range arts {
			assert.NotEqual(t, 4, a.ID)
		}
	})
}

func TestDefaults(t *testing.T) {
	cms := newFakeCMS()
	repo := New(cms, nil)
	ctx := context.Background()

	_, err := repo.FeaturedArticles(ctx, 0)
	require.NoError(t, err)
	q := cms.last().query
	assert.Equal(t, map[string]any{"limit": "3"}, q["pagination"])
	assert.Equal(t, map[string]any{"is_featured": map[string]any{"$eq": "true"}}, q["filters"])
	populate := q["populate"].(map[string]any)
	assert.Contains(t, populate, "author_image")
	assert.Contains(t, populate, "secondary_category")

	_, err = repo.StandardArticles(ctx, 0, qs.Filter{"author": qs.Eq("Jo")})
	require.NoError(t, err)
	q = cms.last().query
	assert.Equal(t, map[string]any{"limit": "6"}, q["pagination"])
	assert.Equal(t, map[string]any{
		"is_featured": map[string]any{"$ne": "true"},
		"author":      map[string]any{"$eq": "Jo"},
	}, q["filters"])

	_, err = repo.LatestOpinions(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"limit": "5"}, cms.last().query["pagination"])
	assert.Contains(t, cms.last().query["populate"], "featured_image")

	_, err = repo.LatestMemes(ctx, 0, "createdAt:desc")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"limit": "6"}, cms.last().query["pagination"])
	assert.Equal(t, []any{"createdAt:desc"}, cms.last().query["sort"])

	_, err = repo.LatestExternalArticles(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, "/external-articles", cms.last().path)
	assert.NotContains(t, cms.last().query, "populate")
}

func TestItemsForCategory(t *testing.T) {
	t.Run("news-from-web lists external articles only", func(t *testing.T) {
		cms := newFakeCMS()
		cms.bodies["/external-articles"] = `{"data":[
			{"id":1,"attributes":{"title":"A","url":"https://a.example"}},
			{"id":2,"attributes":{"title":"B","url":"https://b.example"}}],
			"meta":{"pagination":{"page":1,"pageSize":10,"pageCount":1,"total":2}}}`
		repo := New(cms, nil)

		listing, err := repo.ItemsForCategory(context.Background(), "news-from-web", 1, 0)
		require.NoError(t, err)

		require.Equal(t, 1, cms.count())
		got := cms.last()
		assert.Equal(t, "/external-articles", got.path)
		assert.NotContains(t, got.query, "filters")
		assert.Equal(t, map[string]any{"page": "1", "pageSize": "10"}, got.query["pagination"])

		require.Len(t, listing.Items, 2)
		for _, item := range listing.Items {
			assert.Equal(t, models.KindExternalArticle, item.Kind)
			require.NotNil(t, item.External)
			assert.Equal(t, models.KindExternalArticle, item.External.Attributes.ContentType)
		}
		assert.Equal(t, 2, listing.Items[1].ID())
		require.NotNil(t, listing.Pagination)
		assert.Equal(t, 2, listing.Pagination.Total)
	})

	t.Run("filters per category", func(t *testing.T) {
		cases := []struct {
			slug    string
			path    string
			filters any
		}{
			{"news", "/articles", map[string]any{"category": map[string]any{"slug": map[string]any{"$eq": "news"}}}},
			{"Featured", "/articles", map[string]any{"is_featured": map[string]any{"$eq": "true"}}},
			{"opinion", "/opinions", nil},
			{"meme-cartoons", "/memes", nil},
		}
		for _, tc := range cases {
			t.Run(tc.slug, func(t *testing.T) {
				cms := newFakeCMS()
				_, err := New(cms, nil).ItemsForCategory(context.Background(), tc.slug, 3, 5)
				require.NoError(t, err)
				got := cms.last()
				assert.Equal(t, tc.path, got.path)
				if tc.filters == nil {
					assert.NotContains(t, got.query, "filters")
				} else {
					assert.Equal(t, tc.filters, got.query["filters"])
				}
				assert.Equal(t, map[string]any{"page": "3", "pageSize": "5"}, got.query["pagination"])
			})
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		cms := newFakeCMS()
		listing, err := New(cms, nil).ItemsForCategory(context.Background(), "sports", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, listing.Items)
		assert.Nil(t, listing.Pagination)
		assert.Zero(t, cms.count())
	})

	t.Run("upstream error propagates", func(t *testing.T) {
		cms := newFakeCMS()
		boom := &strapi.FetchError{Status: 502}
		cms.errs["/memes"] = boom
		_, err := New(cms, nil).ItemsForCategory(context.Background(), "meme-cartoons", 1, 10)
		assert.ErrorIs(t, err, boom)
	})
}

func TestSidebar(t *testing.T) {
	cms := newFakeCMS()
	cms.bodies["/articles"] = `{"data":[{"id":1},{"id":2}]}`
	cms.bodies["/memes"] = `{"data":[{"id":9}]}`
	cms.errs["/opinions"] = errors.New("down")
	repo := New(cms, nil)

	side := repo.Sidebar(context.Background())

	assert.Equal(t, 4, cms.count())
	assert.True(t, side.Featured.OK())
	assert.Len(t, side.Featured.Items, 2)
	assert.False(t, side.Opinions.OK())
	assert.Len(t, side.Memes.Items, 1)
	assert.True(t, side.External.OK())
	assert.Empty(t, side.External.Items)
}
