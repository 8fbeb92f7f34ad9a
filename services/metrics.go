package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	memoryLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ai_service",
		Subsystem: "memory",
		Name:      "lookups_total",
		Help:      "Pattern memory lookups by result (hit, miss, unusable)",
	}, []string{"result"})

	modelRepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ai_service",
		Subsystem: "model",
		Name:      "replies_total",
		Help:      "Answer model calls by reply status",
	}, []string{"status"})

	modelLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ai_service",
		Subsystem: "model",
		Name:      "latency_seconds",
		Help:      "Latency of one answer model call",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
	})

	repairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ai_service",
		Subsystem: "predict",
		Name:      "repairs_total",
		Help:      "Answers replaced by deterministic repair text, by reason",
	}, []string{"reason"})

	patternSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ai_service",
		Subsystem: "memory",
		Name:      "saves_total",
		Help:      "Pattern save attempts after a model answer (saved, skipped, rejected, error)",
	}, []string{"result"})
)
