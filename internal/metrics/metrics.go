package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ReportJobsRunning is the number of report jobs this worker is generating.
	ReportJobsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "report_jobs_running",
			Help: "Number of report jobs currently running",
		},
	)

	// ReportJobsTotal counts report job completions by status (success, failed).
	ReportJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_jobs_total",
			Help: "Total number of report jobs finished by status",
		},
		[]string{"status"},
	)

	// ReportArtifactsSwept counts report files removed by the retention sweep.
	ReportArtifactsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "report_artifacts_swept_total",
			Help: "Total number of expired report artifacts removed",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	uuidPathSegment    = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ReportJobsRunning, ReportJobsTotal, ReportArtifactsSwept)
	})
}

// NormalizePath reduces cardinality by replacing numeric and UUID path segments with {id}.
// E.g. /candidates/123 -> /candidates/{id}, /reports/<uuid>/download -> /reports/{id}/download.
func NormalizePath(path string) string {
	path = uuidPathSegment.ReplaceAllString(path, "/{id}$1")
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncReportJobsRunning increments the running report jobs gauge (call when a job starts).
func IncReportJobsRunning() {
	ReportJobsRunning.Inc()
}

// DecReportJobsRunning decrements the running report jobs gauge (call when a job finishes).
func DecReportJobsRunning() {
	ReportJobsRunning.Dec()
}

// IncReportJobsTotal increments the report jobs counter for the given status.
func IncReportJobsTotal(status string) {
	ReportJobsTotal.WithLabelValues(status).Inc()
}

// AddReportArtifactsSwept adds n to the swept artifacts counter.
func AddReportArtifactsSwept(n int) {
	ReportArtifactsSwept.Add(float64(n))
}
