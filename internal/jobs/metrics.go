// Package jobmetrics instruments the asynq tasks: runs, failures, latency,
// the time of the last good run and the outcome of scheduling.
package jobmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics may be nil, in which case nothing is recorded.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	scheduled   *prometheus.CounterVec
}

// NewMetrics registers the job collectors with reg. A nil reg keeps them
// unregistered, which tests use to read values without a registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockdesk",
			Name:      "jobs_total",
			Help:      "Job runs by job name and status.",
		}, []string{"job", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockdesk",
			Name:      "jobs_failures_total",
			Help:      "Failed job runs by job name.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stockdesk",
			Name:      "job_duration_seconds",
			Help:      "Job run duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stockdesk",
			Name:      "job_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"job"}),
		scheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockdesk",
			Name:      "jobs_scheduled_total",
			Help:      "Tasks queued for later processing by job and outcome.",
		}, []string{"job", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.runs, m.failures, m.duration, m.lastSuccess, m.scheduled)
	}
	return m
}

// Tracker times one run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts timing a run of job.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End records the run outcome and returns err unchanged, so it can close a
// deferred assignment.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil {
		return err
	}
	m := t.metrics
	m.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	if err != nil {
		m.failures.WithLabelValues(t.job).Inc()
		m.runs.WithLabelValues(t.job, "failure").Inc()
		return err
	}
	m.runs.WithLabelValues(t.job, "success").Inc()
	m.lastSuccess.WithLabelValues(t.job).SetToCurrentTime()
	return nil
}

// Scheduled counts an enqueue attempt. outcome is "queued", "duplicate" or
// "error".
func (m *Metrics) Scheduled(job, outcome string) {
	if m != nil {
		m.scheduled.WithLabelValues(job, outcome).Inc()
	}
}
