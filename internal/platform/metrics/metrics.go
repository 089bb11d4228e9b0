package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests and servers never share state.
type Collector struct {
	registry            *prometheus.Registry
	requests            *prometheus.CounterVec
	duration            *prometheus.HistogramVec
	rateLimited         prometheus.Counter
	employeesRegistered prometheus.Counter
	jobRuns             *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paydesk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "action", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "paydesk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "action"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paydesk",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		employeesRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paydesk",
			Name:      "employees_registered_total",
			Help:      "Employees registered through the dispatcher",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paydesk",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job runs by type and outcome",
		}, []string{"job_type", "status"}),
	}
	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.rateLimited,
		c.employeesRegistered,
		c.jobRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Record(method, action string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, action, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, action).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.rateLimited.Inc()
	}
}

func (c *Collector) EmployeeRegistered() {
	c.employeesRegistered.Inc()
}

func (c *Collector) JobRun(jobType, status string) {
	c.jobRuns.WithLabelValues(jobType, status).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
