// Package metrics holds the Prometheus collectors for the site server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CMSRequestsTotal counts CMS calls by resource and upstream status.
	// Transport failures are recorded with status "error".
	CMSRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwt",
			Name:      "cms_requests_total",
			Help:      "Total number of CMS API requests",
		},
		[]string{"resource", "status"},
	)

	// CMSRequestDuration measures CMS call latency.
	CMSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwt",
			Name:      "cms_request_duration_seconds",
			Help:      "Duration of CMS API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	// HTTPRequestsTotal counts served requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwt",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration measures handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwt",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// NewsletterSignupsTotal counts newsletter outcomes (ok, invalid, failed).
	NewsletterSignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwt",
			Name:      "newsletter_signups_total",
			Help:      "Newsletter signup attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveCMS records one CMS call. status 0 means the request never got a response.
func ObserveCMS(resource string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	CMSRequestsTotal.WithLabelValues(resource, label).Inc()
	CMSRequestDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordSignup records a newsletter signup outcome.
func RecordSignup(outcome string) {
	NewsletterSignupsTotal.WithLabelValues(outcome).Inc()
}
