// Package metrics exports poll outcomes to Prometheus.
package metrics
