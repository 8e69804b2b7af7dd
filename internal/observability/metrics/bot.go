package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BotMetrics struct {
	registry *prometheus.Registry

	commandsTotal          *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	thumbnailFetchTotal    *prometheus.CounterVec
}

func NewBotMetrics(service string) *BotMetrics {
	registry := prometheus.NewRegistry()

	commandsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cmbridge",
			Subsystem: "bot",
			Name:      "commands_total",
			Help:      "Total handled commands by kind and status.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"command", "status"},
	)
	backendRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cmbridge",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds by operation and status.",
			Buckets:   prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"operation", "status"},
	)
	thumbnailFetchTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cmbridge",
			Subsystem: "bot",
			Name:      "thumbnail_fetch_total",
			Help:      "Total thumbnail fetch attempts by status.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		[]string{"status"},
	)

	registry.MustRegister(commandsTotal, backendRequestDuration, thumbnailFetchTotal)

	return &BotMetrics{
		registry:               registry,
		commandsTotal:          commandsTotal,
		backendRequestDuration: backendRequestDuration,
		thumbnailFetchTotal:    thumbnailFetchTotal,
	}
}

func (m *BotMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *BotMetrics) ObserveCommand(command string, err error) {
	m.commandsTotal.WithLabelValues(command, statusLabel(err)).Inc()
}

func (m *BotMetrics) ObserveBackendRequest(operation, status string, duration time.Duration) {
	m.backendRequestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

func (m *BotMetrics) ObserveThumbnail(err error) {
	m.thumbnailFetchTotal.WithLabelValues(statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
