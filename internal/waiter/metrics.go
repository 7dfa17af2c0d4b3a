package waiter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики waiter'а. Экспортируются на /metrics
// бинарём drydock-waiter.
var (
	pollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drydock_waiter_polls_total",
		Help: "Total status polls, by observed result",
	}, []string{"result"})

	waitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drydock_waiter_waits_total",
		Help: "Total completed waits, by outcome",
	}, []string{"outcome"})

	waitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "drydock_waiter_wait_duration_seconds",
		Help:    "Wall time spent waiting for the external task",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s .. ~1h
	})
)
