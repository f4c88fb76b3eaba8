package devices

import (
	"time"

	"github.com/evdc-project/enocean-vdc/internal/eep"
	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// LearnEvent is reported on the learned-in/learned-out channel (fanned out
// further by internal/events) whenever the learn controller accepts or
// expires a device.
type LearnEvent struct {
	Device    *Device
	LearnedIn bool
	At        time.Time
}

// LearnController gates whether incoming teach-in telegrams are allowed to
// register new devices: learn mode is off by default and must be opened
// for a bounded window (spec.md's learn-mode timeout), mirroring a
// physical "pair" button rather than accepting teach-ins at any time.
type LearnController struct {
	MinLearnDBm int

	deadline time.Time
}

// Open starts (or extends) a learn-mode window of the given duration,
// starting now.
func (l *LearnController) Open(d time.Duration) {
	l.deadline = time.Now().Add(d)
}

// Close ends learn mode immediately.
func (l *LearnController) Close() {
	l.deadline = time.Time{}
}

// Active reports whether learn mode is currently open.
func (l *LearnController) Active() bool {
	return !l.deadline.IsZero() && time.Now().Before(l.deadline)
}

// Remaining returns how much of the learn-mode window is left, or zero if
// learn mode is not active.
func (l *LearnController) Remaining() time.Duration {
	if !l.Active() {
		return 0
	}
	return time.Until(l.deadline)
}

// Consider classifies an incoming telegram as a possible teach-in and, if
// learn mode is open and the telegram is a teach-in, returns the
// classification (which may carry no profile, see eep.TeachIn.ProfileKnown)
// so the caller can create or update a Device. It does not
// itself touch the registry - the dispatcher decides what profile/handler
// set to instantiate for RORGs (like RPS) that never state their own EEP.
func (l *LearnController) Consider(t esp3.RadioTelegram) (eep.TeachIn, bool) {
	if !l.Active() {
		return eep.TeachIn{}, false
	}
	ti := eep.Classify(t, l.MinLearnDBm)
	if !ti.IsTeachIn {
		return eep.TeachIn{}, false
	}
	return ti, true
}
