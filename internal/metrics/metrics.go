// Package metrics содержит коллекторы Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор коллекторов, зарегистрированных в одном реестре.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	likes           *prometheus.CounterVec
}

// New создаёт реестр со стандартными коллекторами процесса и Go-рантайма.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skyline_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skyline_vacation_likes_total",
			Help: "Number of successful like and unlike operations.",
		}, []string{"action"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.likes,
	)
	return m
}

// ObserveRequest записывает длительность обработанного запроса.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncLike учитывает лайк.
func (m *Metrics) IncLike() {
	m.likes.WithLabelValues("like").Inc()
}

// IncUnlike учитывает снятие лайка.
func (m *Metrics) IncUnlike() {
	m.likes.WithLabelValues("unlike").Inc()
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
