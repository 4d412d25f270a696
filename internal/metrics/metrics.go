// Package metrics exposes Prometheus counters for deletion activity.
//
// forceops is a one-shot command, so there is no scrape endpoint;
// counters are flushed to a textfile on exit for the node_exporter
// textfile collector to pick up.
package metrics

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	DeletionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forceops_deletions_total",
		Help: "Number of paths successfully deleted.",
	})
	RetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forceops_retries_total",
		Help: "Number of deletion attempts retried after a lock-class failure.",
	})
	ProcessKillsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forceops_process_kills_total",
		Help: "Number of lock-holding processes terminated.",
	})
	ElevationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forceops_elevations_total",
		Help: "Number of elevated relaunches triggered by permission failures.",
	})
	ErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forceops_errors_total",
		Help: "Number of deletions that failed after exhausting retries.",
	})
)

var (
	registry     = prometheus.NewRegistry()
	registerOnce sync.Once
)

func register() {
	registry.MustRegister(
		DeletionsTotal,
		RetriesTotal,
		ProcessKillsTotal,
		ElevationsTotal,
		ErrorsTotal,
	)
}

// WriteTextfile writes the current counter values to path in the
// Prometheus text exposition format, creating parent directories as
// needed.
func WriteTextfile(path string) error {
	registerOnce.Do(register)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return prometheus.WriteToTextfile(path, registry)
}
