// Package telemetry exposes Prometheus metrics for the node: instruction
// throughput by opcode and outcome, execution latency and store commits.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	instructionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courier",
		Name:      "instructions_total",
		Help:      "Instructions processed, by opcode and outcome.",
	}, []string{"op", "result"})

	executeSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "courier",
		Name:      "execute_seconds",
		Help:      "Wall time of one call execution, load to commit.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"op"})

	commitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "courier",
		Name:      "store_commits_total",
		Help:      "Atomic account batches committed to the store.",
	})

	accountsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "courier",
		Name:      "store_accounts_written_total",
		Help:      "Accounts written across all commits.",
	})

	checkpointsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courier",
		Name:      "checkpoints_total",
		Help:      "Store checkpoints taken, by outcome.",
	}, []string{"result"})
)

// InstructionProcessed records one processed call.
func InstructionProcessed(op, result string, d time.Duration) {
	instructionsTotal.WithLabelValues(op, result).Inc()
	executeSeconds.WithLabelValues(op).Observe(d.Seconds())
}

// CommitObserved records a committed account batch.
func CommitObserved(accounts int) {
	commitsTotal.Inc()
	accountsWritten.Add(float64(accounts))
}

// CheckpointObserved records a checkpoint attempt.
func CheckpointObserved(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	checkpointsTotal.WithLabelValues(result).Inc()
}
