// Package metrics provides Prometheus metrics for the sitefn handlers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the handlers.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Handler outcomes
	contactRelays     *prometheus.CounterVec
	counterIncrements *prometheus.CounterVec
	counterLastValue  prometheus.Gauge

	// Dependencies
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	mailLatency  *prometheus.HistogramVec
	mailErrors   *prometheus.CounterVec

	// HTTP (dev server)
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByKind *prometheus.CounterVec

	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager with one built from opts on a fresh
// custom registry. Call it once at startup, before any metric is recorded.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// NewManager creates a metrics manager. Collectors are registered on the
// configured registry (prometheus.DefaultRegisterer unless overridden).
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sitefn",
		subsystem:        "handlers",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.contactRelays = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "contact_relays_total",
		Help:        "Contact submissions handled, by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.counterIncrements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counter_increments_total",
		Help:        "Visitor counter increments, by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.counterLastValue = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counter_last_value",
		Help:        "Last visitor count returned by the store",
		ConstLabels: m.constLabels,
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_operation_duration_milliseconds",
		Help:        "Counter store atomic add latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"backend"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_errors_total",
		Help:        "Counter store failures",
		ConstLabels: m.constLabels,
	}, []string{"backend"})

	m.mailLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mail_send_duration_milliseconds",
		Help:        "Email send latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"backend"})

	m.mailErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "mail_errors_total",
		Help:        "Email send failures",
		ConstLabels: m.constLabels,
	}, []string{"backend"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByKind = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Handler errors by component and kind",
		ConstLabels: m.constLabels,
	}, []string{"component", "kind"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordContactRelay counts one contact submission with its outcome.
func (m *Manager) RecordContactRelay(outcome string) {
	if m.enabled {
		m.contactRelays.WithLabelValues(outcome).Inc()
	}
}

// RecordCounterIncrement counts one increment attempt with its outcome.
func (m *Manager) RecordCounterIncrement(outcome string) {
	if m.enabled {
		m.counterIncrements.WithLabelValues(outcome).Inc()
	}
}

// UpdateCounterValue stores the last value returned by the store.
func (m *Manager) UpdateCounterValue(v int64) {
	if m.enabled {
		m.counterLastValue.Set(float64(v))
	}
}

// RecordStoreLatency observes the latency of one atomic add.
func (m *Manager) RecordStoreLatency(backend string, latencyMs float64) {
	if m.enabled {
		m.storeLatency.WithLabelValues(backend).Observe(latencyMs)
	}
}

// RecordStoreError counts one store failure.
func (m *Manager) RecordStoreError(backend string) {
	if m.enabled {
		m.storeErrors.WithLabelValues(backend).Inc()
	}
}

// RecordMailLatency observes the latency of one send.
func (m *Manager) RecordMailLatency(backend string, latencyMs float64) {
	if m.enabled {
		m.mailLatency.WithLabelValues(backend).Observe(latencyMs)
	}
}

// RecordMailError counts one send failure.
func (m *Manager) RecordMailError(backend string) {
	if m.enabled {
		m.mailErrors.WithLabelValues(backend).Inc()
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordError counts one error by component and failure kind.
func (m *Manager) RecordError(component, kind string) {
	if m.enabled {
		m.errorsByKind.WithLabelValues(component, kind).Inc()
	}
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// Package-level helpers forward to the global manager.

// RecordContactRelay counts one contact submission with its outcome.
func RecordContactRelay(outcome string) { globalManager.RecordContactRelay(outcome) }

// RecordCounterIncrement counts one increment attempt with its outcome.
func RecordCounterIncrement(outcome string) { globalManager.RecordCounterIncrement(outcome) }

// UpdateCounterValue stores the last value returned by the store.
func UpdateCounterValue(v int64) { globalManager.UpdateCounterValue(v) }

// RecordStoreLatency observes the latency of one atomic add.
func RecordStoreLatency(backend string, latencyMs float64) {
	globalManager.RecordStoreLatency(backend, latencyMs)
}

// RecordStoreError counts one store failure.
func RecordStoreError(backend string) { globalManager.RecordStoreError(backend) }

// RecordMailLatency observes the latency of one send.
func RecordMailLatency(backend string, latencyMs float64) {
	globalManager.RecordMailLatency(backend, latencyMs)
}

// RecordMailError counts one send failure.
func RecordMailError(backend string) { globalManager.RecordMailError(backend) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError counts one error by component and failure kind.
func RecordError(component, kind string) { globalManager.RecordError(component, kind) }

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Outcome labels shared by the handlers.
const (
	OutcomeOK              = "ok"
	OutcomeInputError      = "input_error"
	OutcomeDependencyError = "dependency_error"
)
