// Package metric exposes pagekeep metrics in Prometheus format.
//
// A Registry owns its own prometheus.Registry so tests and multiple
// commands in one process never collide on the global default. It
// implements snapshot.Observer for load and save outcomes, counts gauge
// parse fallbacks and autosave results, and serves everything through
// Handler.
package metric
