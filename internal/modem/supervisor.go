package modem

import (
	"errors"
	"time"

	"github.com/evdc-project/enocean-vdc/internal/esp3"
)

// LivenessInterval is how often the supervisor probes a ready modem with
// CO_RD_VERSION to detect a wedged or disconnected modem.
const LivenessInterval = 30 * time.Second

// HandshakeRetries is how many attempts the supervisor makes at the initial
// CO_RD_VERSION/CO_RD_IDBASE handshake (the first try plus retries) before
// asking for a hardware reset.
const HandshakeRetries = 3

// State is the supervisor's view of the modem link.
type State int

// Supervisor states.
const (
	StateIdle State = iota
	StateAwaitingVersion
	StateAwaitingIDBase
	StateReady
	StateAwaitingResetRecovery
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingVersion:
		return "awaiting_version"
	case StateAwaitingIDBase:
		return "awaiting_idbase"
	case StateReady:
		return "ready"
	case StateAwaitingResetRecovery:
		return "awaiting_reset_recovery"
	default:
		return "unknown"
	}
}

// ErrHandshakeFailed is returned by Supervisor when retries are exhausted
// and a hardware reset is required (or unavailable).
var ErrHandshakeFailed = errors.New("modem: handshake failed after retries")

// Identity is what the handshake learns about the attached modem.
type Identity struct {
	AppVersion uint32
	APIVersion uint32
	Address    esp3.Address
	IDBase     esp3.Address
}

// Supervisor runs the CO_RD_VERSION/CO_RD_IDBASE handshake, tracks a
// ready/not-ready state, and issues periodic liveness probes. It does not
// own a transport or a goroutine: the engine calls its methods and acts on
// the returned commands.
type Supervisor struct {
	state        State
	retriesLeft  int
	identity     Identity
	lastLiveness time.Time
	hasResetPin  bool
}

// NewSupervisor creates a Supervisor. hasResetPin indicates whether a GPIO
// reset line is configured; without one, handshake failure is terminal
// rather than recoverable.
func NewSupervisor(hasResetPin bool) *Supervisor {
	return &Supervisor{state: StateIdle, hasResetPin: hasResetPin}
}

// State returns the current supervisor state.
func (s *Supervisor) State() State { return s.state }

// Identity returns the modem identity learned during the handshake. It is
// only meaningful once State() == StateReady.
func (s *Supervisor) Identity() Identity { return s.identity }

// Start begins the handshake, returning the CO_RD_VERSION command frame to
// send.
func (s *Supervisor) Start() esp3.Frame {
	s.state = StateAwaitingVersion
	s.retriesLeft = HandshakeRetries
	return esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{byte(esp3.CoRdVersion)}}
}

// VersionResponse processes the CO_RD_VERSION response. On success it
// returns the CO_RD_IDBASE command frame to send next.
func (s *Supervisor) VersionResponse(resp esp3.Frame, err error) (next esp3.Frame, ok bool, retry bool) {
	if s.state != StateAwaitingVersion {
		return esp3.Frame{}, false, false
	}
	if err != nil || len(resp.Data) < 1 || esp3.ReturnCode(resp.Data[0]) != esp3.RetOK || len(resp.Data) < 9 {
		return s.handshakeFailure()
	}
	// CO_RD_VERSION response data: RET_OK, 4 bytes app version, 4 bytes API version, ... (chip ID/desc follow, ignored here)
	d := resp.Data
	s.identity.AppVersion = be32(d[1:5])
	s.identity.APIVersion = be32(d[5:9])
	s.state = StateAwaitingIDBase
	return esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{byte(esp3.CoRdIDBase)}}, true, false
}

// IDBaseResponse processes the CO_RD_IDBASE response. On success the
// supervisor transitions to StateReady. On a retryable failure, next is the
// CO_RD_VERSION frame to resend.
func (s *Supervisor) IDBaseResponse(resp esp3.Frame, err error) (next esp3.Frame, ok bool, retry bool) {
	if s.state != StateAwaitingIDBase {
		return esp3.Frame{}, false, false
	}
	if err != nil || len(resp.Data) < 5 || esp3.ReturnCode(resp.Data[0]) != esp3.RetOK {
		f, _, r := s.handshakeFailure()
		return f, false, r
	}
	d := resp.Data
	s.identity.IDBase = esp3.Address(be32(d[1:5]))
	s.identity.Address = s.identity.IDBase
	s.state = StateReady
	s.lastLiveness = time.Time{}
	return esp3.Frame{}, true, false
}

// handshakeFailure consumes a retry attempt and reports whether the
// caller should retry (resend CO_RD_VERSION) or escalate to reset recovery.
func (s *Supervisor) handshakeFailure() (esp3.Frame, bool, bool) {
	s.retriesLeft--
	if s.retriesLeft <= 0 {
		s.state = StateAwaitingResetRecovery
		return esp3.Frame{}, false, false
	}
	s.state = StateAwaitingVersion
	return esp3.Frame{Type: esp3.PacketTypeCommonCommand, Data: []byte{byte(esp3.CoRdVersion)}}, false, true
}

// NeedsReset reports whether the supervisor has given up on the handshake
// and needs a hardware reset (or, absent a reset pin, a full reconnect).
func (s *Supervisor) NeedsReset() bool {
	return s.state == StateAwaitingResetRecovery
}

// HasResetPin reports whether a hardware reset line is available.
func (s *Supervisor) HasResetPin() bool { return s.hasResetPin }

// DueForLivenessProbe reports whether, given now, a CO_RD_VERSION liveness
// probe should be sent, and advances the internal timer if so. The first
// call after the handshake only starts the timer.
func (s *Supervisor) DueForLivenessProbe(now time.Time) bool {
	if s.state != StateReady {
		return false
	}
	if s.lastLiveness.IsZero() {
		s.lastLiveness = now
		return false
	}
	if now.Sub(s.lastLiveness) >= LivenessInterval {
		s.lastLiveness = now
		return true
	}
	return false
}

// LivenessProbeFailed transitions the supervisor out of StateReady when a
// liveness probe does not answer in time, so the engine can trigger
// reconnect/reset recovery.
func (s *Supervisor) LivenessProbeFailed() {
	if s.state == StateReady {
		s.retriesLeft = HandshakeRetries
		s.state = StateAwaitingResetRecovery
	}
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
