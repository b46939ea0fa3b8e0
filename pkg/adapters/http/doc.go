// Package http serves the harness's operational surface: /healthz, /metrics and /probe/{host}.
package http
