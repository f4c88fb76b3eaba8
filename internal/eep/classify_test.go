package eep_test

import (
	"testing"

	"github.com/evdc-project/enocean-vdc/internal/eep"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

func rpsTelegram(dbm int) esp3.RadioTelegram {
	f := esp3.NewRadioFrame(esp3.RORGRPS, []byte{0x70}, esp3.Address(0x01234567), 0x30)
	rt, err := esp3.AsRadioTelegram(f)
	if err != nil {
		panic(err)
	}
	rt.OptData[5] = byte(-dbm)
	return rt
}

func oneBSTelegram(db0 byte) esp3.RadioTelegram {
	f := esp3.NewRadioFrame(esp3.RORG1BS, []byte{db0}, esp3.Address(0x01234567), 0x30)
	rt, err := esp3.AsRadioTelegram(f)
	if err != nil {
		panic(err)
	}
	return rt
}

func fourBSTelegram(d0, d1, d2, d3 byte) esp3.RadioTelegram {
	f := esp3.NewRadioFrame(esp3.RORG4BS, []byte{d3, d2, d1, d0}, esp3.Address(0x01234567), 0x30)
	rt, err := esp3.AsRadioTelegram(f)
	if err != nil {
		panic(err)
	}
	return rt
}

func TestClassifyRPSAlwaysTeachIn(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(rpsTelegram(-40), 0)
	if !ti.IsTeachIn {
		t.Fatal("expected RPS telegram to be classified as teach-in")
	}
	if ti.ProfileKnown {
		t.Error("RPS telegrams never carry their own profile")
	}
}

func TestClassifyRPSRejectsWeakSignal(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(rpsTelegram(-80), -60)
	if ti.IsTeachIn {
		t.Fatal("expected weak RPS telegram to be rejected given minLearnDBm")
	}
}

func TestClassifyRPSAcceptsStrongSignal(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(rpsTelegram(-40), -60)
	if !ti.IsTeachIn {
		t.Fatal("expected strong RPS telegram to pass minLearnDBm gate")
	}
}

func TestClassify1BSLrnBitCleared(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(oneBSTelegram(0x00), 0)
	if !ti.IsTeachIn {
		t.Fatal("expected LRN bit cleared to be a teach-in")
	}
	if ti.ProfileKnown {
		t.Error("1BS never carries its own EEP signature")
	}
}

func TestClassify1BSLrnBitSet(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(oneBSTelegram(esp3.LrnBitMask), 0)
	if ti.IsTeachIn {
		t.Fatal("expected LRN bit set to be a normal data telegram")
	}
}

func TestClassify4BSPlainTeachIn(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(fourBSTelegram(0x00, 0, 0, 0), 0)
	if !ti.IsTeachIn {
		t.Fatal("expected LRN bit cleared to be a teach-in")
	}
	if ti.ProfileKnown {
		t.Error("expected EEP-info-valid bit cleared to leave ProfileKnown false")
	}
}

func TestClassify4BSNotTeachIn(t *testing.T) {
	t.Parallel()
	ti := eep.Classify(fourBSTelegram(esp3.LrnBitMask, 0, 0, 0), 0)
	if ti.IsTeachIn {
		t.Fatal("expected LRN bit set to be a normal data telegram")
	}
}

func TestClassify4BSVariant2ExplicitEEP(t *testing.T) {
	t.Parallel()
	// FUNC and TYPE live in DB_3/DB_2, manufacturer ID spans DB_2/DB_1;
	// DB_0 carries the LRN bit (cleared) and EEP-info-valid bit (set).
	// Target: FUNC=0x20, TYPE=0x01, manufacturer=0x00D.
	db0 := byte(esp3.LrnEEPInfoValidMask) // LRN cleared, EEP-info-valid set
	db1 := byte(0x0D)                     // manufacturer low byte
	db2 := byte(0x08)                     // TYPE low bits + manufacturer high bits
	db3 := byte(0x80)                     // FUNC=0x20 in top 6 bits
	ti := eep.Classify(fourBSTelegram(db0, db1, db2, db3), 0)
	if !ti.IsTeachIn {
		t.Fatal("expected teach-in")
	}
	if !ti.ProfileKnown {
		t.Fatal("expected explicit EEP signature to be recognized")
	}
	if ti.Profile.Func() != 0x20 {
		t.Errorf("Func() = %#x, want 0x20", ti.Profile.Func())
	}
	if ti.Profile.Type() != 0x01 {
		t.Errorf("Type() = %#x, want 0x01", ti.Profile.Type())
	}
	if ti.Manufacturer != 0x00D {
		t.Errorf("Manufacturer = %#x, want 0x00D", ti.Manufacturer)
	}
}

func TestClassifyVLDReturnsZeroValue(t *testing.T) {
	t.Parallel()
	f := esp3.NewRadioFrame(esp3.RORGVLD, []byte{0x01, 0x02}, esp3.Address(1), 0x30)
	rt, err := esp3.AsRadioTelegram(f)
	if err != nil {
		t.Fatal(err)
	}
	ti := eep.Classify(rt, 0)
	if ti.IsTeachIn || ti.ProfileKnown {
		t.Error("VLD classification is not yet implemented, expected zero value")
	}
}
