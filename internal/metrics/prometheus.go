package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus is a Recorder backed by a Prometheus registry.
type Prometheus struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	stageOutcomes *prometheus.CounterVec
	filesWritten  prometheus.Counter
	providerCalls *prometheus.CounterVec
}

// NewPrometheus registers the pipeline metrics on reg and returns the
// recorder. Passing prometheus.DefaultRegisterer wires the process-wide
// registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		runsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pkgfoundry_runs_started_total",
			Help: "Generation runs started.",
		}),
		runsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgfoundry_runs_completed_total",
			Help: "Generation runs completed by terminal status.",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pkgfoundry_run_duration_seconds",
			Help:    "Total duration of generation runs.",
			Buckets: prometheus.DefBuckets,
		}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pkgfoundry_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		stageOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgfoundry_stage_outcomes_total",
			Help: "Stage completions by stage and status.",
		}, []string{"stage", "status"}),
		filesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "pkgfoundry_files_written_total",
			Help: "Files materialized to disk.",
		}),
		providerCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pkgfoundry_provider_calls_total",
			Help: "Provider invocations by capability and outcome.",
		}, []string{"capability", "outcome"}),
	}
}

func (p *Prometheus) RunStarted() {
	p.runsStarted.Inc()
}

func (p *Prometheus) RunCompleted(status string, d time.Duration) {
	p.runsCompleted.WithLabelValues(status).Inc()
	p.runDuration.Observe(d.Seconds())
}

func (p *Prometheus) StageCompleted(stage, status string, d time.Duration) {
	p.stageOutcomes.WithLabelValues(stage, status).Inc()
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *Prometheus) FilesWritten(n int) {
	p.filesWritten.Add(float64(n))
}

func (p *Prometheus) ProviderCall(capability string, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	p.providerCalls.WithLabelValues(capability, outcome).Inc()
}

var _ Recorder = (*Prometheus)(nil)
