package app

import (
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rwtnews/site/internal/middleware"
	"github.com/rwtnews/site/internal/modules/content/view"
	"github.com/rwtnews/site/internal/modules/engagement"
	"github.com/rwtnews/site/internal/modules/gateway/cmsproxy"
	"github.com/rwtnews/site/internal/modules/newsletter"
	"github.com/rwtnews/site/internal/modules/processing/richtext"
	"github.com/rwtnews/site/internal/modules/site/pages"
	"github.com/rwtnews/site/internal/modules/syndication/feed"
	"github.com/rwtnews/site/internal/modules/syndication/sitemap"
	"github.com/rwtnews/site/internal/modules/system/core/cache"
	"github.com/rwtnews/site/internal/modules/system/core/health"
	"github.com/rwtnews/site/internal/pkg/mail"
	"github.com/rwtnews/site/internal/pkg/response"
)

func (a *App) registerRoutes() error {
	r := a.router
	cfg := a.cfg
	rdb := a.rc.Raw()

	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.Use(middleware.HTTPCache(rdb, middleware.HTTPCacheOptions{
		TTL:       cfg.HTTPCache.TTL,
		Disable:   !cfg.HTTPCache.Enable,
		SkipPaths: httpCacheSkipPaths(),
	}))

	// Infrastructure
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	health.RegisterRoutes(r, a.rc)

	// JSON API
	api := r.Group("/api")
	engagement.NewHandler(a.store, a.logger.Named("engagement")).RegisterRoutes(api)

	site := mail.WelcomeData{SiteName: cfg.SiteName(), SiteURL: cfg.Site.URL}
	signups := newsletter.NewService(a.cms, a.mailer, site, a.logger.Named("newsletter"))
	newsletter.NewHandler(signups, a.logger.Named("newsletter")).RegisterRoutes(api,
		middleware.RateLimit(a.rc, middleware.RateLimitOptions{
			Name:   "newsletter",
			Max:    cfg.RateLimit.Newsletter,
			Window: cfg.RateLimit.NewsletterWindow,
		}, a.logger),
		middleware.Idempotence(rdb),
	)
	cache.RegisterRoutes(api, rdb, cfg.HTTPCache.PurgeToken, a.logger.Named("cache"))

	// Browser-facing CMS reads
	cmsproxy.NewHandler(a.cms, a.logger.Named("cmsproxy")).RegisterRoutes(r)

	// Syndication
	feed.NewHandler(a.repo, feed.Site{
		Name:        cfg.SiteName(),
		URL:         cfg.Site.URL,
		Description: cfg.Site.Description,
	}, a.logger.Named("feed")).RegisterRoutes(r)
	sitemap.NewHandler(a.repo, cfg.Site.URL, a.logger.Named("sitemap")).RegisterRoutes(r)

	// Pages
	ph, err := pages.NewHandler(pages.Options{
		Repo:   a.repo,
		Images: view.Resolver{CMSBaseURL: cfg.CMS.URL},
		Body:   richtext.Renderer{SiteURL: cfg.Site.URL, CMSBaseURL: cfg.CMS.URL, Class: "prose"},
		Site: pages.SiteInfo{
			Name:        cfg.SiteName(),
			URL:         cfg.Site.URL,
			Description: cfg.Site.Description,
		},
		Logger: a.logger.Named("pages"),
	})
	if err != nil {
		return fmt.Errorf("pages: %w", err)
	}
	ph.RegisterRoutes(r)

	r.Static("/static", cfg.StaticDir())
	r.Static("/images", filepath.Join(cfg.StaticDir(), "images"))
	return nil
}

func httpCacheSkipPaths() []string {
	return []string{
		"/api/*",
		"/cms/*",
		"/metrics",
		"/healthz",
		"/static/*",
		"/images/*",
		pages.AssetsPath + "/*",
	}
}
