package sitemap

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/modules/content/category"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	articles []models.Article
	opinions []models.Opinion
	err      error
	limits   []int
}

func (f *fakeSource) LatestArticles(_ context.Context, limit int) ([]models.Article, error) {
	f.limits = append(f.limits, limit)
	return f.articles, nil
}

func (f *fakeSource) LatestOpinions(_ context.Context, limit int, _ ...string) ([]models.Opinion, error) {
	return f.opinions, f.err
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func fetch(h *Handler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	return w
}

func TestSitemap(t *testing.T) {
	src := &fakeSource{
		articles: []models.Article{
			decode[models.Article](t, `{"id":1,"attributes":{"slug":"a-one","date":"2024-05-01","updatedAt":"2024-06-01T10:00:00Z"}}`),
		},
		opinions: []models.Opinion{
			decode[models.Opinion](t, `{"id":2,"attributes":{"slug":"o-one","date":"2024-04-01"}}`),
		},
	}
	h := NewHandler(src, "https://rwtnews.com/", nil)
	h.now = func() time.Time { return time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC) }

	w := fetch(h)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, []int{Limit}, src.limits)

	var doc struct {
		URLs []sitemapURL `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.URLs, 1+len(category.Slugs())+2)

	assert.Equal(t, sitemapURL{Loc: "https://rwtnews.com/", LastMod: "2025-02-03", ChangeFreq: "daily", Priority: 1}, doc.URLs[0])
	assert.Equal(t, "https://rwtnews.com/categories/news", doc.URLs[1].Loc)

	n := len(doc.URLs)
	assert.Equal(t, sitemapURL{Loc: "https://rwtnews.com/articles/a-one", LastMod: "2024-06-01", ChangeFreq: "weekly", Priority: 0.8}, doc.URLs[n-2])
	assert.Equal(t, "https://rwtnews.com/opinions/o-one", doc.URLs[n-1].Loc)
	assert.Equal(t, "2024-04-01", doc.URLs[n-1].LastMod, "falls back to the publication date")
}

func TestSitemapUpstreamFailure(t *testing.T) {
	h := NewHandler(&fakeSource{err: errors.New("down")}, "https://rwtnews.com", nil)
	assert.Equal(t, http.StatusBadGateway, fetch(h).Code)
}
