package fourbs

// ValveServiceState drives the A5-20-01 heating valve's periodic
// prophylaxis cycle: a full open-then-close sweep that exercises the valve
// mechanism to prevent it seizing up over a heating season.
type ValveServiceState int

const (
	ValveServiceIdle ValveServiceState = iota
	ValveServiceOpenValve
	ValveServiceCloseValve
)

// ValveStatus is the decoded status block of an incoming A5-20-01 telegram
// (DB_3 actual position, DB_2 status/error bits).
type ValveStatus struct {
	ActualPositionPercent int
	ServiceOn             bool
	EnergyInputEnabled    bool
	EnergyStorageCharged  bool
	BatteryOK             bool
	CoverOpen             bool
	SensorFailure         bool
	WindowOpenDetected    bool
	Obstructed            bool
}

// DecodeValveStatus reads an A5-20-01 telegram's status block. data is in
// Data4BS() order: data[0]=DB_3, data[1]=DB_2, data[2]=DB_1, data[3]=DB_0.
func DecodeValveStatus(data [4]byte) ValveStatus {
	db2 := data[1]
	return ValveStatus{
		ActualPositionPercent: int(data[0]),
		ServiceOn:             db2&(1<<7) != 0,
		EnergyInputEnabled:    db2&(1<<6) != 0,
		EnergyStorageCharged:  db2&(1<<5) != 0,
		BatteryOK:             db2&(1<<4) != 0,
		CoverOpen:             db2&(1<<3) != 0,
		SensorFailure:         db2&(1<<2) != 0,
		WindowOpenDetected:    db2&(1<<1) != 0,
		Obstructed:            db2&(1<<0) != 0,
	}
}

// ValveController tracks the state needed to build outgoing A5-20-01
// telegrams across calls: the prophylaxis service cycle, and (for the
// binary-only variant 2 profile) the last requested/applied valve position.
type ValveController struct {
	State                ValveServiceState
	LastRequestedPercent int8
	LastAppliedPercent   int8
}

// BuildOutgoing computes the DB_3..DB_0 data bytes (Data4BS() order) for the
// next outgoing telegram and advances the service-cycle state machine.
//
// requestedPercent is the desired valve opening (0..100); binaryVariant is
// true for EEP variant 2 (on/off actuators that can only be nudged around a
// mechanically preset point); idle indicates the climate control loop wants
// slow/idle updates; runProphylaxis requests a service cycle to start if one
// is not already running.
func (c *ValveController) BuildOutgoing(requestedPercent int, binaryVariant, idle, runProphylaxis bool) [4]byte {
	var data [4]byte // DB_3 DB_2 DB_1 DB_0

	if runProphylaxis && c.State == ValveServiceIdle {
		c.State = ValveServiceOpenValve
	}

	if c.State != ValveServiceIdle {
		data[2] |= 1 << 0 // DB_1 bit0: service on
		switch c.State {
		case ValveServiceOpenValve:
			data[2] |= 1 << 5 // DB_1 bit5: force fully open
			c.State = ValveServiceCloseValve
		case ValveServiceCloseValve:
			data[2] |= 1 << 4 // DB_1 bit4: force fully closed
			c.State = ValveServiceIdle
		}
		return data
	}

	newValue := requestedPercent
	if newValue < 0 {
		newValue = 0
	} else if newValue > 100 {
		newValue = 100
	}

	if binaryVariant {
		switch {
		case int8(newValue) > c.LastRequestedPercent:
			c.LastRequestedPercent = int8(newValue)
			if newValue <= 50 {
				newValue = 51
			}
		case int8(newValue) < c.LastRequestedPercent:
			c.LastRequestedPercent = int8(newValue)
			if newValue >= 50 {
				newValue = 49
			}
		default:
			newValue = int(c.LastAppliedPercent)
		}
	}
	c.LastAppliedPercent = int8(newValue)

	data[0] = byte(newValue) // DB_3: set point 0..100
	if idle {
		data[2] |= 1 << 3 // DB_1 bit3: summer/idle mode
	}
	return data
}
