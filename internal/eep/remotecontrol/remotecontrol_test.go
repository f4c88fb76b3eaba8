package remotecontrol_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/eep/remotecontrol"
)

func TestTeachInVariantDecode(t *testing.T) {
	t.Parallel()
	cases := []struct {
		v         remotecontrol.TeachInVariant
		right, up bool
	}{
		{remotecontrol.TeachInLeftUp, false, true},
		{remotecontrol.TeachInLeftDown, false, false},
		{remotecontrol.TeachInRightUp, true, true},
		{remotecontrol.TeachInRightDown, true, false},
	}
	for _, c := range cases {
		right, up := c.v.Decode()
		if right != c.right || up != c.up {
			t.Errorf("variant %d: Decode() = (%v,%v), want (%v,%v)", c.v, right, up, c.right, c.up)
		}
	}
}

func TestBuildButtonActionPress(t *testing.T) {
	t.Parallel()
	tel := remotecontrol.BuildButtonAction(true, true, true)
	want := byte(0x10 | 0x20 | 0x40)
	if tel.Data != want {
		t.Errorf("Data = 0x%02X, want 0x%02X", tel.Data, want)
	}
	if tel.Status != remotecontrol.StatusNU|remotecontrol.StatusT21 {
		t.Errorf("Status = 0x%02X, want NU|T21", tel.Status)
	}
}

func TestBuildButtonActionRelease(t *testing.T) {
	t.Parallel()
	tel := remotecontrol.BuildButtonAction(true, true, false)
	if tel.Data != 0x00 {
		t.Errorf("Data = 0x%02X, want 0x00 on release", tel.Data)
	}
	if tel.Status != remotecontrol.StatusT21 {
		t.Errorf("Status = 0x%02X, want T21 only on release", tel.Status)
	}
}

func TestBuildRelayAction(t *testing.T) {
	t.Parallel()
	press, release := remotecontrol.BuildRelayAction(remotecontrol.RelayOn)
	if press.Data&0x20 == 0 {
		t.Errorf("expected up bit set for RelayOn press, got 0x%02X", press.Data)
	}
	if release.Data != 0x00 {
		t.Errorf("expected release data 0x00, got 0x%02X", release.Data)
	}
}

func TestBuildBlindMovement(t *testing.T) {
	t.Parallel()
	if _, ok := remotecontrol.BuildBlindMovement(remotecontrol.BlindStopped); ok {
		t.Errorf("expected no press telegram for BlindStopped")
	}
	press, ok := remotecontrol.BuildBlindMovement(remotecontrol.BlindMovingUp)
	if !ok || press.Data&0x20 == 0 {
		t.Errorf("expected up press telegram for BlindMovingUp, got %+v ok=%v", press, ok)
	}
}

func TestMarkUsedBaseOffset(t *testing.T) {
	t.Parallel()
	if got := remotecontrol.MarkUsedBaseOffset(0xFF00_0081); got != 0x01 {
		t.Errorf("MarkUsedBaseOffset() = %d, want 1", got)
	}
}
