package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scoring exposes the counters the dashboard's operational charts are built
// from. One instance per process, registered on the default registry the
// metric server serves.
type Scoring struct {
	rowsScored    *prometheus.CounterVec
	categoryTotal *prometheus.CounterVec
	pdObserved    prometheus.Histogram
	scoreObserved prometheus.Histogram
}

func NewScoring() *Scoring {
	return &Scoring{
		rowsScored: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scorecard_rows_scored_total",
			Help: "Rows passed through the scoring pipeline.",
		}, []string{"source"}),
		categoryTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "scorecard_risk_category_total",
			Help: "Scored rows by assigned risk category.",
		}, []string{"category"}),
		pdObserved: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scorecard_pd",
			Help:    "Distribution of predicted default probabilities.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		scoreObserved: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "scorecard_behavior_score",
			Help:    "Distribution of behavior scores.",
			Buckets: prometheus.LinearBuckets(360, 60, 9),
		}),
	}
}

func (s *Scoring) ObserveRow(source, category string, pd, score float64) {
	s.rowsScored.WithLabelValues(source).Inc()
	s.categoryTotal.WithLabelValues(category).Inc()
	s.pdObserved.Observe(pd)
	s.scoreObserved.Observe(score)
}
