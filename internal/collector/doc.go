// Package collector instruments the lifecycle of inbound HTTP requests and
// exposes the aggregate state in Prometheus text exposition format.
//
// A [Collector] owns a private registry, so tests and embedders can run fully
// isolated instances:
//
//	col := collector.New(collector.Options{})
//	mux.Handle("/metrics", col.Handler())
//	handler = col.Middleware(handler)
//
// Three metrics are maintained: an active-connection gauge, a request
// duration histogram labeled by method, route, and status code, and a heap
// usage ratio gauge recomputed from runtime memory stats at scrape time.
//
// A request has two possible terminal signals: the handler returning and the
// client connection going away. Whichever fires first performs the single
// decrement and histogram observation; a per-request atomic flag makes the
// transition fire exactly once, so the gauge can never underflow.
package collector
