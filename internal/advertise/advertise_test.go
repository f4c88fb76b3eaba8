package advertise_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/advertise"
	"github.com/evdc-project/enocean-vdc/internal/config"
	"github.com/evdc-project/enocean-vdc/internal/dsuid"
)

func TestStartNoopWhenDisabled(t *testing.T) {
	t.Parallel()
	a := advertise.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := config.Advertise{Enabled: false}
	id := dsuid.ForEnoceanDevice(0x01020304, 0)

	if err := a.Start(cfg, id, "test-vdc"); err != nil {
		t.Fatalf("Start() error = %v, want nil for disabled advertise", err)
	}
	// Stop must be safe to call even though nothing was registered.
	a.Stop()
}

func TestServiceTypeConstantsMatchConvention(t *testing.T) {
	t.Parallel()
	if advertise.VdcServiceType != "_ds-vdc._tcp" {
		t.Errorf("VdcServiceType = %q", advertise.VdcServiceType)
	}
	if advertise.VdsmServiceType != "_ds-vdsm._tcp" {
		t.Errorf("VdsmServiceType = %q", advertise.VdsmServiceType)
	}
	if advertise.SSHServiceType != "_ssh._tcp" {
		t.Errorf("SSHServiceType = %q", advertise.SSHServiceType)
	}
}
