// SPDX-License-Identifier: AGPL-3.0-or-later
package metrics

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readTimeout = 3 * time.Second

// CreateMetricsServer starts the Prometheus /metrics endpoint in the
// background and returns as soon as it is listening, or with an error if
// the configured address could not be bound. It is a no-op returning nil
// when metrics are disabled.
func CreateMetricsServer(cfg *config.Config) error {
	if !cfg.Metrics.Enabled {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", cfg.Metrics.Bind, cfg.Metrics.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics: listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readTimeout,
	}
	go func() {
		_ = server.Serve(listener)
	}()
	return nil
}
