// Package metrics records how checkpoint concludes requests and checks
// as Prometheus metrics.
package metrics
