package tasks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var searchesDispatched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "setlist_searches_dispatched_total",
	Help: "Number of track searches dispatched",
})

var searchesMatched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "setlist_searches_matched_total",
	Help: "Number of track searches that returned a match",
})

var searchesUnmatched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "setlist_searches_unmatched_total",
	Help: "Number of track searches that returned no result",
})

var searchesFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "setlist_searches_failed_total",
	Help: "Number of track searches that failed and were counted as no match",
})

var batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "setlist_batch_resolve_duration_seconds",
	Help:    "Time to resolve a full batch of song queries",
	Buckets: prometheus.DefBuckets,
})

var playlistsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "setlist_playlists_created_total",
	Help: "Number of playlists created",
})
