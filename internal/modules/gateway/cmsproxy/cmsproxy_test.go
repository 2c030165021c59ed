package cmsproxy

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/pkg/strapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForward(t *testing.T) {
	var (
		hits     atomic.Int32
		auth     atomic.Value
		rawQuery atomic.Value
	)
	cms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auth.Store(r.Header.Get("Authorization"))
		rawQuery.Store(r.URL.RawQuery)
		switch r.URL.Path {
		case "/api/articles":
			_, _ = w.Write([]byte(`{"data":[{"id":1}]}`))
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"status":403,"name":"ForbiddenError"}}`))
		}
	}))
	defer cms.Close()

	client := strapi.New(strapi.Options{BaseURL: cms.URL, Token: "secret"})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(client, nil).RegisterRoutes(r)

	call := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	w := call("/cms/api/articles?filters[slug][$eq]=x&populate=*")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":1}]}`, w.Body.String())
	assert.Equal(t, "", auth.Load(), "browser requests never carry the token")
	assert.Equal(t, "filters[slug][$eq]=x&populate=*", rawQuery.Load())

	w = call("/cms/api/memes")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":{"status":403,"name":"ForbiddenError"}}`, w.Body.String())

	before := hits.Load()
	w = call("/cms/api/users")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, before, hits.Load())
}

func TestForwardUnreachable(t *testing.T) {
	cms := httptest.NewServer(http.NotFoundHandler())
	url := cms.URL
	cms.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(strapi.New(strapi.Options{BaseURL: url}), nil).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cms/api/opinions", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
