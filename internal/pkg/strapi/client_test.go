package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rwtnews/site/internal/models"
	"github.com/rwtnews/site/internal/pkg/qs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu  sync.Mutex
	req *http.Request
}

func (r *recorder) set(req *http.Request) {
	r.mu.Lock()
	r.req = req.Clone(req.Context())
	r.mu.Unlock()
}

func (r *recorder) get() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.req
}

func TestClientGet(t *testing.T) {
	var rec recorder
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.set(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":7,"attributes":{"title":"Hello","slug":"hello"}}],
			"meta":{"pagination":{"page":1,"pageSize":10,"pageCount":3,"total":21}}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL + "/", Token: "secret"})

	t.Run("server execution sends token", func(t *testing.T) {
		var env models.Envelope[[]models.Article]
		err := c.Get(context.Background(), "/articles", qs.Params{
			Filters:    qs.Filter{"slug": qs.Eq("hello")},
			Pagination: qs.Limit(1),
		}, &env)
		require.NoError(t, err)

		got := rec.get()
		assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
		assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		assert.Equal(t, "/api/articles", got.URL.Path)
		assert.Equal(t, "filters[slug][$eq]=hello&pagination[limit]=1", got.URL.RawQuery)
		require.Len(t, env.Data, 1)
		assert.Equal(t, 7, env.Data[0].ID)
		assert.Equal(t, "Hello", env.Data[0].Attributes.Title)
		require.NotNil(t, env.PaginationOf())
		assert.Equal(t, 3, env.PaginationOf().PageCount)
	})

	t.Run("browser execution never sends token", func(t *testing.T) {
		ctx := WithExecution(context.Background(), ExecutionBrowser)
		var env models.Envelope[[]models.Article]
		require.NoError(t, c.Get(ctx, "/articles", qs.Params{}, &env))
		assert.Empty(t, rec.get().Header.Get("Authorization"))
		assert.Empty(t, rec.get().URL.RawQuery)
	})

	t.Run("no token configured", func(t *testing.T) {
		anon := New(Options{BaseURL: srv.URL})
		require.NoError(t, anon.Get(context.Background(), "/memes", qs.Params{}, nil))
		assert.Empty(t, rec.get().Header.Get("Authorization"))
	})
}

func TestClientErrors(t *testing.T) {
	t.Run("non-2xx becomes FetchError with body text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("forbidden resource"))
		}))
		defer srv.Close()

		err := New(Options{BaseURL: srv.URL}).Get(context.Background(), "/opinions", qs.Params{}, nil)
		require.Error(t, err)

		var fe *FetchError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, http.StatusForbidden, fe.Status)
		assert.Equal(t, "Forbidden", fe.StatusText)
		assert.Equal(t, "forbidden resource", fe.Body)
		assert.Equal(t, srv.URL+"/api/opinions", fe.URL)
		assert.Equal(t, http.StatusForbidden, StatusOf(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("invalid json is a decode error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		var env models.Envelope[[]models.Meme]
		err := New(Options{BaseURL: srv.URL}).Get(context.Background(), "/memes", qs.Params{}, &env)
		require.Error(t, err)
		assert.Zero(t, StatusOf(err))
	})

	t.Run("client timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		err := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}).
			Get(context.Background(), "/memes", qs.Params{}, nil)
		assert.Error(t, err)
	})
}

func TestClientPost(t *testing.T) {
	emails := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/subscriptions", r.URL.Path)
		var got map[string]map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		emails <- got["data"]["email"]
		_, _ = w.Write([]byte(`{"data":{"id":1,"attributes":{"email":"a@b.co"}}}`))
	}))
	defer srv.Close()

	var env models.Envelope[models.Entity[models.SubscriptionAttributes]]
	err := New(Options{BaseURL: srv.URL}).Post(context.Background(), "/subscriptions",
		map[string]any{"data": models.SubscriptionAttributes{Email: "a@b.co"}}, &env)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", <-emails)
	assert.Equal(t, "a@b.co", env.Data.Attributes.Email)
}

func TestObserver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var resource string
	var status int
	c := New(Options{BaseURL: srv.URL, Observer: func(r string, s int, _ time.Duration) {
		resource, status = r, s
	}})
	err := c.Get(context.Background(), "/external-articles/3", qs.Params{}, nil)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "external-articles", resource)
	assert.Equal(t, http.StatusNotFound, status)
}
