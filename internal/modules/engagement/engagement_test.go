package engagement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/middleware"
	"github.com/rwtnews/site/internal/models"
	pkgredis "github.com/rwtnews/site/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	mr := miniredis.RunT(t)
	rc, err := pkgredis.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "likes.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.LikeModel{}))

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(rc),
		"sql":    NewSQLStore(db),
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	article := Key{Kind: models.KindArticle, ID: 7}
	opinion := Key{Kind: models.KindOpinion, ID: 7}

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			counts, err := store.Get(ctx, article, "alice")
			require.NoError(t, err)
			assert.Equal(t, Counts{}, counts)

			counts, err = store.Toggle(ctx, article, "alice")
			require.NoError(t, err)
			assert.Equal(t, Counts{Likes: 1, UserHasLiked: true}, counts)

			counts, err = store.Toggle(ctx, article, "bob")
			require.NoError(t, err)
			assert.Equal(t, Counts{Likes: 2, UserHasLiked: true}, counts)

			counts, err = store.Get(ctx, article, "carol")
			require.NoError(t, err)
			assert.Equal(t, Counts{Likes: 2}, counts)

			counts, err = store.Toggle(ctx, article, "alice")
			require.NoError(t, err)
			assert.Equal(t, Counts{Likes: 1}, counts)

			counts, err = store.Get(ctx, opinion, "bob")
			require.NoError(t, err)
			assert.Equal(t, Counts{}, counts, "kinds are counted separately")

			counts, err = store.Toggle(ctx, article, "")
			require.NoError(t, err)
			assert.Equal(t, Counts{Likes: 1}, counts, "anonymous toggle is a read")
		})
	}
}

func TestParseKey(t *testing.T) {
	key, err := ParseKey("Article", "12")
	require.NoError(t, err)
	assert.Equal(t, Key{Kind: models.KindArticle, ID: 12}, key)
	assert.Equal(t, "article:12", key.String())

	_, err = ParseKey("meme", "1")
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	for _, id := range []string{"", "0", "-3", "abc"} {
		_, err = ParseKey("opinion", id)
		assert.Error(t, err, id)
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Visitor(false))
	NewHandler(NewMemoryStore(), nil).RegisterRoutes(r.Group("/api"))

	var cookie *http.Cookie
	call := func(method, target string) (int, Counts) {
		req := httptest.NewRequest(method, target, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		for _, ck := range w.Result().Cookies() {
			if ck.Name == middleware.VisitorCookie {
				cookie = ck
			}
		}
		var out Counts
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return w.Code, out
	}

	code, counts := call(http.MethodGet, "/api/engagement/article/3")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, Counts{}, counts)
	require.NotNil(t, cookie)

	code, counts = call(http.MethodPost, "/api/engagement/article/3/like")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, Counts{Likes: 1, UserHasLiked: true}, counts)

	code, counts = call(http.MethodGet, "/api/engagement/article/3")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, Counts{Likes: 1, UserHasLiked: true}, counts)

	code, _ = call(http.MethodGet, "/api/engagement/meme/3")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(http.MethodPost, "/api/engagement/opinion/zero/like")
	assert.Equal(t, http.StatusBadRequest, code)
}
