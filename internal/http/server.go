// Package http serves a small, unauthenticated, read-only status surface:
// a health check and the current device list. It is explicitly not the
// upstream dS API (out of scope per spec.md §1) - just enough for an
// operator or a monitoring check to see what this core has learned.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	readTimeout       = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the read-only status HTTP server.
type Server struct {
	*http.Server
	log             *slog.Logger
	shutdownChannel chan bool
}

// deviceView is the JSON shape returned by GET /devices - just enough to
// see what is learned and whether it is reporting in, not a full property
// dump.
type deviceView struct {
	Address      string `json:"address"`
	SubDevice    uint8  `json:"subDevice"`
	DSUID        string `json:"dSUID"`
	Profile      string `json:"eep"`
	LastSeen     string `json:"lastSeen,omitempty"`
	LastRSSIdBm  int    `json:"lastRssiDbm"`
}

// NewServer builds the status HTTP server, reading the device list live
// from reg on every request.
func NewServer(cfg *config.Config, log *slog.Logger, reg *devices.Registry) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "devices": reg.Len()})
	})

	r.GET("/devices", func(c *gin.Context) {
		all := reg.All()
		views := make([]deviceView, 0, len(all))
		for _, d := range all {
			v := deviceView{
				Address:     fmt.Sprintf("%08X", uint32(d.Address)),
				SubDevice:   d.SubDevice,
				DSUID:       d.DSUID.String(),
				Profile:     d.Profile.String(),
				LastRSSIdBm: d.LastDBm,
			}
			if !d.LastSeen.IsZero() {
				v.LastSeen = d.LastSeen.Format(time.RFC3339)
			}
			views = append(views, v)
		}
		c.JSON(http.StatusOK, views)
	})

	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Advertise.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: readTimeout,
	}
	s.SetKeepAlivesEnabled(false)

	return &Server{Server: s, log: log, shutdownChannel: make(chan bool)}
}

var ErrServerFailed = errors.New("http server failed to start")

// Start runs the server until Stop is called or it fails to bind.
func (s *Server) Start() error {
	g := new(errgroup.Group)
	g.Go(func() error {
		err := s.ListenAndServe()
		switch {
		case errors.Is(err, http.ErrServerClosed):
			s.shutdownChannel <- true
			return nil
		case err != nil:
			s.log.Error("status HTTP server failed", slog.Any("error", err))
			return ErrServerFailed
		default:
			return nil
		}
	})
	return g.Wait() //nolint:wrapcheck
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.log.Error("failed to shut down status HTTP server", slog.Any("error", err))
		return
	}
	<-s.shutdownChannel
}
