// Package httpserver wraps net/http with environment-driven configuration,
// graceful shutdown on context cancellation or SIGINT/SIGTERM, start/stop
// hooks for logging, and a health check handler for orchestration probes.
package httpserver
