// Package metrics holds the Prometheus collectors for provisioning.
//
// A nil *Metrics is valid and records nothing, so use cases can run without
// a registry in tests and library use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "replops"

// Metrics groups provisioning collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	workspacesCreated *prometheus.CounterVec
	advisories        *prometheus.CounterVec
	remoteAttempts    *prometheus.CounterVec
	remoteDuration    prometheus.Histogram
	bulkItems         *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		workspacesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "workspaces_created_total",
				Help:      "Workspaces provisioned, by mode (local or remote)",
			},
			[]string{"mode"},
		),
		advisories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "advisories_total",
				Help:      "Non-fatal conditions reported during provisioning",
			},
			[]string{"code"},
		),
		remoteAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_attempts_total",
				Help:      "Remote creation attempts, by result",
			},
			[]string{"result"},
		),
		remoteDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_attempt_duration_seconds",
				Help:      "Duration of remote creation attempts",
				Buckets:   prometheus.DefBuckets,
			},
		),
		bulkItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_items_total",
				Help:      "Bulk job items processed, by status",
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(m.workspacesCreated, m.advisories, m.remoteAttempts, m.remoteDuration, m.bulkItems)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) WorkspaceCreated(remote bool) {
	if m == nil {
		return
	}
	mode := "local"
	if remote {
		mode = "remote"
	}
	m.workspacesCreated.WithLabelValues(mode).Inc()
}

func (m *Metrics) Advisory(code string) {
	if m == nil {
		return
	}
	m.advisories.WithLabelValues(code).Inc()
}

// RemoteAttempt records one remote call. result is "success" or an error kind.
func (m *Metrics) RemoteAttempt(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.remoteAttempts.WithLabelValues(result).Inc()
	m.remoteDuration.Observe(d.Seconds())
}

func (m *Metrics) BulkItem(status string) {
	if m == nil {
		return
	}
	m.bulkItems.WithLabelValues(status).Inc()
}

// WriteTextfile writes the current values in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
