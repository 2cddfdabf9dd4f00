package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	tierHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Cache hits by tier",
		},
		[]string{"tier"},
	)

	tierMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Cache misses by tier",
		},
		[]string{"tier"},
	)

	remoteErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_remote_errors_total",
			Help: "Remote cache operation failures by operation",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(tierHits, tierMisses, remoteErrors)
}
