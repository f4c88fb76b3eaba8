package devices_test

import (
	"testing"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/devices"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

type fakeHandler struct {
	desc    string
	changed bool
	calls   int
}

func (f *fakeHandler) HandleRadioTelegram(t esp3.RadioTelegram) bool {
	f.calls++
	return f.changed
}

func (f *fakeHandler) ShortDesc() string { return f.desc }

func oneBSTelegram(db0 byte) esp3.RadioTelegram {
	f := esp3.NewRadioFrame(esp3.RORG1BS, []byte{db0}, esp3.Address(0x01020304), 0x00)
	tel, err := esp3.AsRadioTelegram(f)
	if err != nil {
		panic(err)
	}
	return tel
}

// fourBSTeachInTelegram builds a 4BS "variant 2" explicit-EEP teach-in
// telegram (EEP-info-valid bit set, LRN bit clear) carrying FUNC=0x20,
// TYPE=0x01, Manufacturer=0x00D - the only RORG where Classify() reports
// ProfileKnown=true, which is what Dispatch() needs to learn a new device.
func fourBSTeachInTelegram() esp3.RadioTelegram {
	f := esp3.NewRadioFrame(esp3.RORG4BS, []byte{0x80, 0x08, 0x0D, 0x80}, esp3.Address(0x01020304), 0x00)
	tel, err := esp3.AsRadioTelegram(f)
	if err != nil {
		panic(err)
	}
	return tel
}

func TestRegistryPutGetRemove(t *testing.T) {
	t.Parallel()
	r := devices.NewRegistry()
	d := &devices.Device{Address: 0x01020304, SubDevice: 0}
	r.Put(d)
	got, ok := r.Get(d.KeyOf())
	if !ok || got != d {
		t.Fatalf("expected to get back the same device")
	}
	if len(r.ByAddress(0x01020304)) != 1 {
		t.Fatalf("expected 1 device at address")
	}
	r.Remove(d.KeyOf())
	if _, ok := r.Get(d.KeyOf()); ok {
		t.Fatalf("expected device removed")
	}
	if len(r.ByAddress(0x01020304)) != 0 {
		t.Fatalf("expected no devices left at address")
	}
}

func TestDeviceHandleRadioTelegramDispatchesToAllChannels(t *testing.T) {
	t.Parallel()
	h1 := &fakeHandler{desc: "a", changed: true}
	h2 := &fakeHandler{desc: "b", changed: false}
	d := &devices.Device{
		Channels: []devices.Channel{{Index: 0, Handler: h1}, {Index: 1, Handler: h2}},
	}
	changed := d.HandleRadioTelegram(oneBSTelegram(0x08))
	if !changed {
		t.Fatalf("expected changed=true since h1 reported a change")
	}
	if h1.calls != 1 || h2.calls != 1 {
		t.Fatalf("expected both handlers called once, got %d %d", h1.calls, h2.calls)
	}
}

func TestLearnControllerWindow(t *testing.T) {
	t.Parallel()
	var l devices.LearnController
	if l.Active() {
		t.Fatalf("expected inactive before Open")
	}
	l.Open(50 * time.Millisecond)
	if !l.Active() {
		t.Fatalf("expected active right after Open")
	}
	l.Close()
	if l.Active() {
		t.Fatalf("expected inactive after Close")
	}
}

func TestLearnControllerConsiderRejectsWhenClosed(t *testing.T) {
	t.Parallel()
	var l devices.LearnController
	if _, ok := l.Consider(oneBSTelegram(0x00)); ok {
		t.Fatalf("expected Consider to reject when learn mode closed")
	}
}

func TestLearnControllerConsiderAcceptsTeachIn(t *testing.T) {
	t.Parallel()
	var l devices.LearnController
	l.Open(time.Second)
	ti, ok := l.Consider(oneBSTelegram(0x00)) // LRN bit clear -> teach-in
	if !ok || !ti.IsTeachIn {
		t.Fatalf("expected teach-in accepted, got ti=%+v ok=%v", ti, ok)
	}
}

func TestDispatcherLearnsAndRoutes(t *testing.T) {
	t.Parallel()
	reg := devices.NewRegistry()
	learn := &devices.LearnController{}
	learn.Open(time.Second)

	h := &fakeHandler{desc: "contact"}
	factory := func(profile esp3.Profile, mfr esp3.Manufacturer, subDevice uint8) ([]devices.Channel, int) {
		if subDevice > 0 {
			return nil, 0
		}
		return []devices.Channel{{Index: 0, Handler: h}}, 1
	}
	disp := &devices.Dispatcher{Registry: reg, Learn: learn, Factory: factory}

	d := disp.Dispatch(fourBSTeachInTelegram())
	if d == nil {
		t.Fatalf("expected a device to be learned")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 registered device, got %d", reg.Len())
	}

	// Second telegram from the same address should route to the existing device.
	d2 := disp.Dispatch(fourBSTeachInTelegram())
	if d2 != d {
		t.Fatalf("expected same device returned on second dispatch")
	}
	if h.calls != 1 {
		t.Fatalf("expected handler called once (learn-in dispatch does not also call HandleRadioTelegram), got %d", h.calls)
	}
}

func TestDispatcherIgnoresWhenLearnModeClosed(t *testing.T) {
	t.Parallel()
	reg := devices.NewRegistry()
	learn := &devices.LearnController{}
	factory := func(profile esp3.Profile, mfr esp3.Manufacturer, subDevice uint8) ([]devices.Channel, int) {
		return []devices.Channel{{Index: 0, Handler: &fakeHandler{}}}, 1
	}
	disp := &devices.Dispatcher{Registry: reg, Learn: learn, Factory: factory}
	if d := disp.Dispatch(oneBSTelegram(0x00)); d != nil {
		t.Fatalf("expected nil, learn mode is closed")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected no devices registered")
	}
}
