package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements metrics collection for remote storage operations.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	flushCounter      *prometheus.CounterVec
	flushedEntries    *prometheus.CounterVec
	pendingGauge      *prometheus.GaugeVec

	server *http.Server
}

// Config represents metrics configuration.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Port      int    `yaml:"port"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// NewDefaultConfig returns the default metrics configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Port:      9180,
		Path:      "/metrics",
		Namespace: "attachstore",
	}
}

// NewCollector creates a collector with its own Prometheus registry.
func NewCollector(config *Config) (*Collector, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if !config.Enabled {
		return nil, nil
	}

	c := &Collector{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	c.operationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "remote_operations_total",
		Help:      "Total remote storage operations by operation and result.",
	}, []string{"operation", "result"})

	c.operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      "remote_operation_duration_seconds",
		Help:      "Latency of remote storage operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	c.flushCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "flushes_total",
		Help:      "Total flush invocations by kind and result.",
	}, []string{"kind", "result"})

	c.flushedEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "flushed_entries_total",
		Help:      "Total queue entries committed to the remote store.",
	}, []string{"kind"})

	c.pendingGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: config.Namespace,
		Name:      "pending_entries",
		Help:      "Queue entries awaiting flush across live attachment instances.",
	}, []string{"kind"})

	for _, collector := range []prometheus.Collector{
		c.operationCounter,
		c.operationDuration,
		c.flushCounter,
		c.flushedEntries,
		c.pendingGauge,
	} {
		if err := c.registry.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	return c, nil
}

// RecordRemoteOperation records one remote call with its outcome.
func (c *Collector) RecordRemoteOperation(operation string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.operationCounter.WithLabelValues(operation, result).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFlush records a flush invocation of the given kind ("writes" or
// "deletes") with the number of entries committed.
func (c *Collector) RecordFlush(kind string, committed int, err error) {
	if c == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.flushCounter.WithLabelValues(kind, result).Inc()
	if committed > 0 {
		c.flushedEntries.WithLabelValues(kind).Add(float64(committed))
	}
}

// AddPending adjusts the pending-entry gauge for a queue kind.
func (c *Collector) AddPending(kind string, delta int) {
	if c == nil {
		return
	}
	c.pendingGauge.WithLabelValues(kind).Add(float64(delta))
}

// Registry exposes the underlying Prometheus registry for tests and
// embedding into an existing exposition endpoint.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Start serves the metrics endpoint until Stop is called.
func (c *Collector) Start(ctx context.Context) error {
	if c == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(c.config.Path, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Exposition failure must not take the backend down.
		_ = c.server.ListenAndServe()
	}()

	return nil
}

// Stop shuts down the metrics endpoint.
func (c *Collector) Stop(ctx context.Context) error {
	if c == nil || c.server == nil {
		return nil
	}
	return c.server.Shutdown(ctx)
}
