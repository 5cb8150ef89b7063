package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(tryonJobsTotal, tryonJobDurationSec, generationPollRounds) }

var tryonJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tryon_jobs_total",
		Help: "Try-on jobs by terminal status.",
	},
	[]string{"status"}, // 'success', 'error'
)

var tryonJobDurationSec = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "tryon_job_duration_seconds",
		Help:    "End-to-end try-on pipeline duration distribution.",
		Buckets: []float64{1, 3, 5, 10, 20, 40, 60, 120, 300},
	},
)

var generationPollRounds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "generation_poll_rounds",
		Help:    "Number of status polls per generation task.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
	},
)

func IncTryOnJob(status string) {
	tryonJobsTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveJobDuration(seconds float64) {
	tryonJobDurationSec.Observe(seconds)
}

func ObservePollRounds(rounds int) {
	generationPollRounds.Observe(float64(rounds))
}
