// Package server exposes experiment-execution metrics over HTTP in Prometheus
// exposition format. The server is optional and only runs when a metrics
// listen address is configured.
package server
