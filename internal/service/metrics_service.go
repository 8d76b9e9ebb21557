package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/assignment-organizer/pkg/jobs"
)

// MetricsService encapsulates Prometheus instrumentation. All methods are
// safe on a nil receiver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	enqueued        prometheus.Counter
	delivered       *prometheus.CounterVec
	digestRuns      prometheus.Counter
	digestMessages  prometheus.Counter
	restarts        *prometheus.CounterVec
	calendarCalls   *prometheus.CounterVec
	jobAttempts     *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	enqueued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_enqueued_total",
		Help: "Notifications persisted to the queue",
	})

	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Notification delivery attempts by result",
	}, []string{"result"})

	digestRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digest_runs_total",
		Help: "Daily digest compilations",
	})

	digestMessages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "digest_messages_total",
		Help: "Digest notifications enqueued",
	})

	restarts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_restarts_total",
		Help: "Scheduler recoveries by reason",
	}, []string{"reason"})

	calendarCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_requests_total",
		Help: "Calendar provider calls by operation and result",
	}, []string{"operation", "result"})

	jobAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_attempts_total",
		Help: "Background job attempts by queue, type and result",
	}, []string{"queue", "type", "result"})

	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of background job attempts in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"queue", "type"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enqueued, delivered, digestRuns, digestMessages, restarts, calendarCalls, jobAttempts, jobDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		enqueued:        enqueued,
		delivered:       delivered,
		digestRuns:      digestRuns,
		digestMessages:  digestMessages,
		restarts:        restarts,
		calendarCalls:   calendarCalls,
		jobAttempts:     jobAttempts,
		jobDuration:     jobDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveCalendarRequest counts a calendar provider call.
func (m *MetricsService) ObserveCalendarRequest(operation string, err error) {
	if m == nil {
		return
	}
	m.calendarCalls.WithLabelValues(operation, resultLabel(err)).Inc()
}

func (m *MetricsService) NotificationEnqueued() {
	if m == nil {
		return
	}
	m.enqueued.Inc()
}

func (m *MetricsService) NotificationDelivered(err error) {
	if m == nil {
		return
	}
	m.delivered.WithLabelValues(resultLabel(err)).Inc()
}

// DigestCompleted records one digest run and the messages it queued.
func (m *MetricsService) DigestCompleted(messages int) {
	if m == nil {
		return
	}
	m.digestRuns.Inc()
	m.digestMessages.Add(float64(messages))
}

func (m *MetricsService) SchedulerRestarted(reason string) {
	if m == nil {
		return
	}
	m.restarts.WithLabelValues(reason).Inc()
}

// ObserveJob records one attempt of a background job. Its signature matches
// jobs.ObserveFunc.
func (m *MetricsService) ObserveJob(queue string, job jobs.Job, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobAttempts.WithLabelValues(queue, job.Type, resultLabel(err)).Inc()
	m.jobDuration.WithLabelValues(queue, job.Type).Observe(elapsed.Seconds())
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
