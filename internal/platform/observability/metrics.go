// Package observability exposes Prometheus collectors for the bot.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabot_downloads_total",
		Help: "The total number of handled download requests by provider and outcome",
	}, []string{"provider", "outcome"})

	ResolverAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabot_resolver_attempts_total",
		Help: "The total number of resolution attempts against providers",
	}, []string{"provider"})

	QuotaBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mediabot_quota_blocked_total",
		Help: "The total number of requests blocked by the per-chat quota",
	})

	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mediabot_webhook_requests_total",
		Help: "The total number of webhook requests by response code",
	}, []string{"code"})
)
