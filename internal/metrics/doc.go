// Package metrics records build metrics for pagesmith.
//
// Components receive a Recorder and never check whether metrics are enabled:
// NoopRecorder is the default and PrometheusRecorder is swapped in when a
// textfile path is configured. After each build the Prometheus registry is
// written in the node_exporter textfile format, so a cron-driven static site
// build can still be scraped.
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... build ...
//	err := metrics.WriteTextfile(reg, "/var/lib/node_exporter/pagesmith.prom")
package metrics
