package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hut_services"

// Metrics - метрики сервиса. Все методы безопасны для nil.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec   // labels: route, method, status
	HTTPLatency      *prometheus.HistogramVec // labels: route, method
	ExternalRequests *prometheus.CounterVec   // labels: upstream, status
	ExternalLatency  *prometheus.HistogramVec // labels: upstream
	CacheEvents      *prometheus.CounterVec   // labels: cache, event={hit,miss,set,del}
	Conversions      *prometheus.CounterVec   // labels: source, outcome={success,error}
	WorkerMessages   *prometheus.CounterVec   // labels: worker, outcome={done,failed,invalid}
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests.",
		}, []string{"route", "method", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ExternalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_requests_total",
			Help:      "Outbound requests to hut sources.",
		}, []string{"upstream", "status"}),
		ExternalLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_request_duration_seconds",
			Help:      "Outbound request duration seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}, []string{"upstream"}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits/misses/sets/dels.",
		}, []string{"cache", "event"}),
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Source record to hut conversions.",
		}, []string{"source", "outcome"}),
		WorkerMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_messages_total",
			Help:      "Stream messages processed by workers.",
		}, []string{"worker", "outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.HTTPRequests, m.HTTPLatency, m.ExternalRequests, m.ExternalLatency,
		m.CacheEvents, m.Conversions, m.WorkerMessages,
	}
}

// NewMetrics создает метрики и регистрирует их в registry по умолчанию
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting - метрики без регистрации, чтобы тесты не паниковали
// с "already registered".
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Handler - http.Handler для /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP учитывает входящий HTTP запрос
func (m *Metrics) ObserveHTTP(route, method string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal учитывает запрос к внешнему источнику. status 0 - сетевая ошибка.
func (m *Metrics) ObserveExternal(upstream string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	m.ExternalRequests.WithLabelValues(upstream, strconv.Itoa(status)).Inc()
	m.ExternalLatency.WithLabelValues(upstream).Observe(dur.Seconds())
}

// ObserveCache - event: hit|miss|set|del
func (m *Metrics) ObserveCache(cache, event string) {
	if m == nil {
		return
	}
	m.CacheEvents.WithLabelValues(cache, event).Inc()
}

// ObserveConversion учитывает результат конвертации
func (m *Metrics) ObserveConversion(source string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.Conversions.WithLabelValues(source, outcome).Inc()
}

// ObserveWorker учитывает обработанное сообщение
func (m *Metrics) ObserveWorker(worker, outcome string) {
	if m == nil {
		return
	}
	m.WorkerMessages.WithLabelValues(worker, outcome).Inc()
}
