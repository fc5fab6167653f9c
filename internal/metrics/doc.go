// Package metrics exports the Prometheus collectors for the page timing
// pipeline.
//
// # Recorder
//
// Every instrumented component talks to the Recorder interface rather than
// to Prometheus directly. Two implementations exist:
//
//   - NoopRecorder, the zero value used by tests and one-shot CLI commands
//   - PrometheusRecorder, which registers collectors on a prometheus.Registry
//
// NoopRecorder methods have empty bodies, so a component constructed without
// a recorder pays nothing for its instrumentation calls.
//
// # Wiring
//
// The daemon builds one PrometheusRecorder at startup and injects it into the
// annotator, the page handler, the publisher, and the resource prober:
//
//	registry := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(registry)
//
// The matching scrape endpoint comes from HTTPHandler(registry) and is
// mounted on /metrics by the server.
package metrics
