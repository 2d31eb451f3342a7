package qfis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qfis_pipeline_runs_total",
		Help: "Inference runs by outcome",
	}, []string{"outcome"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qfis_pipeline_duration_seconds",
		Help:    "Wall time of a full encode, sample and decode run",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	goodShotRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qfis_good_shot_ratio",
		Help:    "Share of shots that landed on a known output tag",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	defuzzifiedValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "qfis_defuzzified_value",
		Help:    "Crisp output values produced by the decoder",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})
)

const (
	outcomeOK        = "ok"
	outcomeArity     = "arity_mismatch"
	outcomeEncode    = "encode_error"
	outcomeSample    = "sample_error"
	outcomeDecode    = "decode_error"
	outcomeNoOutcome = "no_good_shots"
)

// recordRun updates the pipeline collectors once a run finishes.
func recordRun(startTime time.Time, outcome string, decoded *Decoded) {
	pipelineRuns.WithLabelValues(outcome).Inc()
	pipelineDuration.Observe(time.Since(startTime).Seconds())

	if decoded == nil || decoded.TotalShots == 0 {
		return
	}

	goodShotRatio.Observe(float64(decoded.GoodShots) / float64(decoded.TotalShots))
	if decoded.GoodShots > 0 {
		defuzzifiedValue.Observe(decoded.Value)
	}
}
