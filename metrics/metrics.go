package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoagent_frames_processed_total",
		Help: "Camera frames run through the detection adapter.",
	})

	PeopleDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoagent_people_detected_total",
		Help: "Person detections surviving the confidence filter.",
	})

	DetectionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoagent_detection_failures_total",
		Help: "Detection calls that failed, by reason.",
	}, []string{"reason"})

	RecommenderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoagent_recommender_calls_total",
		Help: "External recommendation calls, by outcome.",
	}, []string{"outcome"})

	BudgetExhaustedRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoagent_budget_exhausted_runs_total",
		Help: "Analysis runs that ran out of recommendation budget.",
	})

	AnalysisRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecoagent_analysis_runs_total",
		Help: "Completed campus analysis runs.",
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecoagent_analysis_duration_seconds",
		Help:    "Wall time of one campus analysis run.",
		Buckets: prometheus.DefBuckets,
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
