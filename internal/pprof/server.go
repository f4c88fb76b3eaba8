// SPDX-License-Identifier: AGPL-3.0-or-later
package pprof

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	pprofgin "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

const readTimeout = 3 * time.Second

// CreatePProfServer starts the diagnostic pprof server and blocks until it
// fails. It is a no-op, returning immediately, when PProf is disabled.
func CreatePProfServer(cfg *config.Config) {
	if !cfg.PProf.Enabled {
		return
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	pprofgin.Register(r)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.PProf.Bind, cfg.PProf.Port),
		Handler:           r,
		ReadHeaderTimeout: readTimeout,
	}
	slog.Info("pprof server listening", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("pprof server failed", "error", err)
	}
}
