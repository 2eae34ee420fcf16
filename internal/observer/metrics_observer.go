package observer

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsObserver turns events into Prometheus metrics on a private registry
type MetricsObserver struct {
	registry      *prometheus.Registry
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	mediaActions  *prometheus.CounterVec
}

// NewMetricsObserver creates and registers the metrics under namespace
func NewMetricsObserver(namespace string) *MetricsObserver {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Photo page fetches by mode and result.",
	}, []string{"mode", "result"})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Latency of completed photo page fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	mediaActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_actions_total",
		Help:      "Download and share actions by result.",
	}, []string{"action", "result"})

	registry.MustRegister(
		fetches,
		fetchDuration,
		mediaActions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsObserver{
		registry:      registry,
		fetches:       fetches,
		fetchDuration: fetchDuration,
		mediaActions:  mediaActions,
	}
}

// OnEvent handles events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event Event) {
	switch event.EventType {
	case FetchCompleted:
		o.fetches.WithLabelValues(event.Mode, "success").Inc()
		o.fetchDuration.WithLabelValues(event.Mode).Observe(event.Duration.Seconds())
	case FetchFailed:
		o.fetches.WithLabelValues(event.Mode, "failure").Inc()
		o.fetchDuration.WithLabelValues(event.Mode).Observe(event.Duration.Seconds())
	case FetchDropped:
		o.fetches.WithLabelValues(event.Mode, "dropped").Inc()
	case DownloadCompleted:
		o.mediaActions.WithLabelValues("download", "success").Inc()
	case DownloadFailed:
		o.mediaActions.WithLabelValues("download", resultLabel(event)).Inc()
	case ShareCompleted:
		o.mediaActions.WithLabelValues("share", "success").Inc()
	case ShareFailed:
		o.mediaActions.WithLabelValues("share", resultLabel(event)).Inc()
	}
}

func resultLabel(event Event) string {
	if event.ErrorType != "" {
		return event.ErrorType
	}
	return "failure"
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Handler serves the registry in the Prometheus exposition format
func (o *MetricsObserver) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
