// Package metrics counts what a catalog build did. Counters live on a private registry
// and are exported to a text file, there is no listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all findex collectors.
var Registry = prometheus.NewRegistry()

var (
	filesWalked = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "findex_files_walked_total",
			Help: "Total number of catalog entries produced by tree walks",
		},
		[]string{"kind"},
	)

	bytesHashed = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "findex_bytes_hashed_total",
			Help: "Total number of file bytes fed into the content hasher",
		},
	)

	rowsCommitted = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "findex_rows_committed_total",
			Help: "Total number of rows committed to catalog and comparison stores",
		},
	)

	commits = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "findex_commits_total",
			Help: "Total number of store transactions committed",
		},
	)
)

// Entry kinds.
const (
	KindHashed       = "hashed"
	KindEmpty        = "empty"
	KindInaccessible = "inaccessible"
	KindWalkError    = "walk_error"
)

// FileWalked records one walked entry of the given kind.
func FileWalked(kind string) {
	filesWalked.WithLabelValues(kind).Inc()
}

// BytesHashed records hashed content size.
func BytesHashed(n int64) {
	if n > 0 {
		bytesHashed.Add(float64(n))
	}
}

// Committed records a committed transaction holding n rows.
func Committed(n int) {
	commits.Inc()
	if n > 0 {
		rowsCommitted.Add(float64(n))
	}
}

// WriteFile writes all counters in the text exposition format.
func WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
