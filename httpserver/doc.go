// Package httpserver runs porter's API server: routing, request
// logging, readiness and drain endpoints, optional pprof, the metrics
// listener and graceful shutdown.
package httpserver
