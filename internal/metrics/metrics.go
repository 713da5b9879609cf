package metrics

import (
	"context"
	"net/http"
	"time"

	"exam-portal/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder exposes grading and leaderboard metrics. It is an app.ResultListener.
type Recorder struct {
	gatherer    prometheus.Gatherer
	submissions prometheus.Counter
	scoreRatio  prometheus.Histogram
	leaderboard prometheus.Histogram
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		gatherer: reg,
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exam",
			Name:      "submissions_graded_total",
			Help:      "Number of graded submissions.",
		}),
		scoreRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exam",
			Name:      "submission_score_ratio",
			Help:      "Score divided by total marks for graded submissions.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		leaderboard: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exam",
			Name:      "leaderboard_compute_seconds",
			Help:      "Time spent computing the leaderboard.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(r.submissions, r.scoreRatio, r.leaderboard)
	return r
}

func (r *Recorder) ResultGraded(_ context.Context, result domain.Result) error {
	r.submissions.Inc()
	if result.TotalMarks > 0 {
		r.scoreRatio.Observe(float64(result.Score) / float64(result.TotalMarks))
	}
	return nil
}

// ObserveLeaderboard records how long one leaderboard computation took.
func (r *Recorder) ObserveLeaderboard(d time.Duration) {
	r.leaderboard.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
