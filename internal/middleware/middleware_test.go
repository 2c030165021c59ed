package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	pkgredis "github.com/rwtnews/site/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *pkgredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := pkgredis.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func do(r http.Handler, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	rc := newRedis(t)
	r := newEngine()
	r.POST("/x", RateLimit(rc, RateLimitOptions{Name: "test", Max: 2, Window: time.Minute}, nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/x", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/x", "").Code)

	w := do(r, http.MethodPost, "/x", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimitWithoutRedis(t *testing.T) {
	r := newEngine()
	r.GET("/x", RateLimit(nil, RateLimitOptions{Max: 1}, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", "").Code)
	}
}

func TestVisitor(t *testing.T) {
	r := newEngine()
	r.Use(Visitor(false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, VisitorID(c)) })

	t.Run("issues a cookie", func(t *testing.T) {
		w := do(r, http.MethodGet, "/", "")
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, VisitorCookie, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, cookies[0].Value, w.Body.String())
	})

	t.Run("keeps a valid cookie", func(t *testing.T) {
		id := "0b6a3c4e-8f0e-4df1-9a55-1f1f1f1f1f1f"
		w := do(r, http.MethodGet, "/", "", &http.Cookie{Name: VisitorCookie, Value: id})
		assert.Empty(t, w.Result().Cookies())
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("replaces a forged cookie", func(t *testing.T) {
		w := do(r, http.MethodGet, "/", "", &http.Cookie{Name: VisitorCookie, Value: "admin"})
		require.Len(t, w.Result().Cookies(), 1)
		assert.NotEqual(t, "admin", w.Body.String())
	})
}

func TestHTTPCache(t *testing.T) {
	rc := newRedis(t)
	var renders atomic.Int32

	r := newEngine()
	r.Use(HTTPCache(rc.Raw(), HTTPCacheOptions{TTL: time.Minute, SkipPaths: []string{"/api/*"}}))
	r.GET("/page", func(c *gin.Context) {
		renders.Add(1)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<h1>hi</h1>"))
	})
	r.GET("/api/live", func(c *gin.Context) {
		renders.Add(1)
		c.String(http.StatusOK, "live")
	})
	r.GET("/missing", func(c *gin.Context) {
		renders.Add(1)
		c.String(http.StatusNotFound, "nope")
	})

	first := do(r, http.MethodGet, "/page", "")
	assert.Equal(t, "miss", first.Header().Get(CacheStatusHeader))

	second := do(r, http.MethodGet, "/page", "")
	assert.Equal(t, "hit", second.Header().Get(CacheStatusHeader))
	assert.Equal(t, "<h1>hi</h1>", second.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Contains(t, second.Header().Get("Cache-Control"), "s-maxage=60")
	assert.Equal(t, int32(1), renders.Load())

	do(r, http.MethodGet, "/page?t=1", "")
	assert.Equal(t, int32(2), renders.Load())

	do(r, http.MethodGet, "/api/live", "")
	do(r, http.MethodGet, "/api/live", "")
	assert.Equal(t, int32(4), renders.Load())

	do(r, http.MethodGet, "/missing", "")
	do(r, http.MethodGet, "/missing", "")
	assert.Equal(t, int32(6), renders.Load())

	n, err := PurgeHTTPCache(context.Background(), rc.Raw())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	do(r, http.MethodGet, "/page", "")
	assert.Equal(t, int32(7), renders.Load())
}

func TestIdempotence(t *testing.T) {
	rc := newRedis(t)
	status := http.StatusOK

	r := newEngine()
	r.POST("/submit", Idempotence(rc.Raw()), func(c *gin.Context) { c.Status(status) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/submit", `{"email":"a@b.co"}`).Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/submit", `{"email":"a@b.co"}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/submit", `{"email":"c@d.co"}`).Code)

	status = http.StatusInternalServerError
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodPost, "/submit", `{"email":"e@f.co"}`).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodPost, "/submit", `{"email":"e@f.co"}`).Code)
}

func TestHTTPCacheSkipsNoStore(t *testing.T) {
	rc := newRedis(t)
	var renders atomic.Int32

	r := newEngine()
	r.Use(HTTPCache(rc.Raw(), HTTPCacheOptions{TTL: time.Minute}))
	r.GET("/partial", func(c *gin.Context) {
		renders.Add(1)
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<p>section unavailable</p>"))
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/partial", "").Code)
	w := do(r, http.MethodGet, "/partial", "")
	assert.NotEqual(t, "hit", w.Header().Get(CacheStatusHeader))
	assert.Equal(t, int32(2), renders.Load())
}
