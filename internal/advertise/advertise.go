// Package advertise announces this core on the LAN over mDNS/DNS-SD so a
// dS upstream controller (vdSM) can discover it, and optionally browses
// for a co-hosted vdSM so a bundled auxiliary controller knows whether a
// network master is already present.
package advertise

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/dsuid"
	"github.com/grandcat/zeroconf"
)

// Service types registered/browsed, matching the original's avahi service
// type strings.
const (
	VdcServiceType  = "_ds-vdc._tcp"
	VdsmServiceType = "_ds-vdsm._tcp"
	SSHServiceType  = "_ssh._tcp"
)

// Advertiser owns the mDNS registrations for this core's vDC API, optional
// SSH access, and the browser watching for a co-hosted vdSM.
type Advertiser struct {
	log *slog.Logger

	vdcServer *zeroconf.Server
	sshServer *zeroconf.Server
}

// New creates an Advertiser; call Start to begin announcing.
func New(log *slog.Logger) *Advertiser {
	return &Advertiser{log: log}
}

// Start registers the vDC service (and, if configured, an SSH service) on
// the LAN. descriptiveName is the human-readable instance name shown in
// mDNS browsers (matching the original's descriptiveName/publishedName).
func (a *Advertiser) Start(cfg config.Advertise, id dsuid.DSUID, descriptiveName string) error {
	if !cfg.Enabled {
		return nil
	}
	txt := []string{fmt.Sprintf("dSUID=%s", id.String())}
	if cfg.NoAuto {
		txt = append(txt, "noauto=1")
	}
	server, err := zeroconf.Register(descriptiveName, VdcServiceType, "local.", cfg.VdcPort, txt, nil)
	if err != nil {
		return fmt.Errorf("advertise: register %s: %w", VdcServiceType, err)
	}
	a.vdcServer = server
	a.log.Info("advertising vdc service", slog.String("name", descriptiveName), slog.Int("port", cfg.VdcPort))

	if cfg.SSHPort > 0 {
		sshServer, err := zeroconf.Register(descriptiveName, SSHServiceType, "local.", cfg.SSHPort, nil, nil)
		if err != nil {
			a.vdcServer.Shutdown()
			return fmt.Errorf("advertise: register %s: %w", SSHServiceType, err)
		}
		a.sshServer = sshServer
	}
	return nil
}

// Stop unregisters every service this Advertiser published.
func (a *Advertiser) Stop() {
	if a.sshServer != nil {
		a.sshServer.Shutdown()
		a.sshServer = nil
	}
	if a.vdcServer != nil {
		a.vdcServer.Shutdown()
		a.vdcServer = nil
	}
}

// PeerVdsm describes a vdSM discovered while browsing the LAN.
type PeerVdsm struct {
	Instance string
	HostName string
	Port     int
	DSUID    string
}

// BrowseVdsm browses for _ds-vdsm._tcp services for the lifetime of ctx,
// reporting each one found on the returned channel. Used by an auxiliary
// controller deployment to detect whether a network master vdSM is already
// present before deciding to run its own.
func BrowseVdsm(ctx context.Context) (<-chan PeerVdsm, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("advertise: new resolver: %w", err)
	}
	entries := make(chan *zeroconf.ServiceEntry)
	out := make(chan PeerVdsm)
	go func() {
		defer close(out)
		for entry := range entries {
			peer := PeerVdsm{Instance: entry.Instance, HostName: entry.HostName, Port: entry.Port}
			for _, t := range entry.Text {
				if len(t) > 6 && t[:6] == "dSUID=" {
					peer.DSUID = t[6:]
				}
			}
			out <- peer
		}
	}()
	if err := resolver.Browse(ctx, VdsmServiceType, "local.", entries); err != nil {
		return nil, fmt.Errorf("advertise: browse %s: %w", VdsmServiceType, err)
	}
	return out, nil
}
