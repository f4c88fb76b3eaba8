package onebs_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/eep/onebs"
)

func TestSingleContactHandlerStraight(t *testing.T) {
	t.Parallel()
	h := onebs.SingleContactHandler{ActiveState: true}
	if !h.Decode(0x01) {
		t.Errorf("expected active for bit set, straight variant")
	}
	if h.Decode(0x00) {
		t.Errorf("expected inactive for bit clear, straight variant")
	}
}

func TestSingleContactHandlerInverted(t *testing.T) {
	t.Parallel()
	h := onebs.SingleContactHandler{ActiveState: false}
	if !h.Decode(0x00) {
		t.Errorf("expected active for bit clear, inverted variant")
	}
	if h.Decode(0x01) {
		t.Errorf("expected inactive for bit set, inverted variant")
	}
}

func TestDeviceVariantsTable(t *testing.T) {
	t.Parallel()
	if len(onebs.DeviceVariants) != 2 {
		t.Fatalf("expected 2 device variants, got %d", len(onebs.DeviceVariants))
	}
}
