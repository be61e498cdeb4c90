// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "secret_post"

// Pairing run results
const (
	RunStored     = "stored"
	RunUnbalanced = "unbalanced"
	RunFailed     = "failed"
)

var (
	pairingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairing_runs_total",
			Help:      "Count of pairing runs by result.",
		},
		[]string{"result"},
	)
	pairingAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pairing_attempts",
			Help:      "Permutations tried per pairing run.",
			Buckets:   []float64{1, 2, 3, 5, 10},
		},
	)
	messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Count of chat messages by kind and result.",
		},
		[]string{"kind", "result"},
	)
	letters = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "letters_total",
			Help:      "Count of letter status transitions.",
		},
		[]string{"status"},
	)
)

var registerMetrics sync.Once

// Register adds all collectors to reg. Later calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(pairingRuns, pairingAttempts, messages, letters)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPairingRun records the outcome of one run and how many permutations it took
func RecordPairingRun(result string, attempts int) {
	pairingRuns.WithLabelValues(result).Inc()
	if attempts > 0 {
		pairingAttempts.Observe(float64(attempts))
	}
}

// RecordMessages adds sent and failed counts for a kind of message
func RecordMessages(kind string, sent, failed int) {
	messages.WithLabelValues(kind, "sent").Add(float64(sent))
	messages.WithLabelValues(kind, "failed").Add(float64(failed))
}

// RecordLetter records a letter reaching status
func RecordLetter(status string) {
	letters.WithLabelValues(status).Inc()
}
