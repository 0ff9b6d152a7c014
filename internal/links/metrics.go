package links

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	linksGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securelinks_generated_total",
		Help: "Total number of download links generated.",
	})
	linksExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securelinks_expired_total",
		Help: "Total number of download links that reached the end of their lifetime.",
	})
	linksRevokedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securelinks_revoked_total",
		Help: "Total number of download links revoked before expiry.",
	})
	authRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securelinks_auth_rejections_total",
		Help: "Total number of requests refused for lack of an authenticated session.",
	})
	linksActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "securelinks_active",
		Help: "Number of links currently active.",
	})
)
