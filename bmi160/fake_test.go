package bmi160

import (
	"errors"
	"time"
)

// fakeClock advances only when the code under test sleeps, so handshake
// delays and poll budgets run without real elapsed time.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

var errNoAck = errors.New("no ack from device")

// simBus emulates the shared I2C bus: an optional BMI160 core with its
// secondary-interface scratch registers, directly wired devices, and an
// optional magnetometer bridged behind the core.
type simBus struct {
	coreAddr       byte                   // 0 = no core device on the bus
	core           map[byte]byte          // core register file
	direct         map[byte]map[byte]byte // directly wired devices
	directMagFrame map[byte][8]byte       // 8-byte frames served at MagRegDataX

	bridged   map[byte]byte // bridged magnetometer register file, nil = absent
	coreFrame [20]byte      // block served at RegData0

	failWrites map[byte]map[byte]error // injected write failures, addr -> reg
	failReads  map[byte]map[byte]error // injected read failures, addr -> reg

	// bridgedIgnorePower makes the bridged magnetometer accept the bus
	// transaction but drop writes to its power register, so the relay
	// sequence succeeds while the power readback stays 0.
	bridgedIgnorePower bool
}

func newSimBus() *simBus {
	return &simBus{
		core:           map[byte]byte{},
		direct:         map[byte]map[byte]byte{},
		directMagFrame: map[byte][8]byte{},
		failWrites:     map[byte]map[byte]error{},
		failReads:      map[byte]map[byte]error{},
	}
}

func (b *simBus) failWrite(addr, reg byte) {
	if b.failWrites[addr] == nil {
		b.failWrites[addr] = map[byte]error{}
	}
	b.failWrites[addr][reg] = errNoAck
}

func (b *simBus) failRead(addr, reg byte) {
	if b.failReads[addr] == nil {
		b.failReads[addr] = map[byte]error{}
	}
	b.failReads[addr][reg] = errNoAck
}

func (b *simBus) addCore(addr byte) {
	b.coreAddr = addr
	b.core[RegChipID] = CoreChipID
}

func (b *simBus) addDirectDevice(addr, idReg, id byte) {
	b.direct[addr] = map[byte]byte{idReg: id}
}

func (b *simBus) addBridgedMag() {
	b.bridged = map[byte]byte{MagRegChipID: MagChipID}
}

// bridgedLive reports whether the bridged magnetometer is powered and in
// a measuring mode; that is when the core's drdy flag asserts.
func (b *simBus) bridgedLive() bool {
	if b.bridged == nil {
		return false
	}
	mode := b.bridged[MagRegOpMode]
	return b.bridged[MagRegPower] == MagPowerOn && (mode == MagModeNormal || mode == MagModeForced)
}

func (b *simBus) WriteByteToReg(addr, reg, value byte) error {
	if err, ok := b.failWrites[addr][reg]; ok {
		return err
	}
	if b.coreAddr != 0 && addr == b.coreAddr {
		b.core[reg] = value
		if reg == RegMagIF1 {
			switch value {
			case magIFManualWrite:
				// Relay the scratch slots to the bridged device. The arm
				// write commits whatever is latched, the trigger write
				// commits the freshly loaded pair, same end state.
				if b.bridged == nil {
					break
				}
				if b.core[RegMagIF3] == MagRegPower && b.bridgedIgnorePower {
					break
				}
				b.bridged[b.core[RegMagIF3]] = b.core[RegMagIF4]
			case magIFManualRead:
				// An absent device cannot ack the relayed read; the nil
				// map lookup leaves 0 in the data scratch slot rather
				// than the stale byte of the previous manual write.
				b.core[RegMagIF4] = b.bridged[b.core[RegMagIF3]]
			}
		}
		return nil
	}
	if regs, ok := b.direct[addr]; ok {
		regs[reg] = value
		return nil
	}
	return errNoAck
}

func (b *simBus) ReadByteFromReg(addr, reg byte) (byte, error) {
	if err, ok := b.failReads[addr][reg]; ok {
		return 0, err
	}
	if b.coreAddr != 0 && addr == b.coreAddr {
		if reg == RegStatus && b.bridgedLive() {
			return b.core[reg] | statusDrdyMag, nil
		}
		return b.core[reg], nil
	}
	if regs, ok := b.direct[addr]; ok {
		return regs[reg], nil
	}
	return 0, errNoAck
}

func (b *simBus) ReadFromReg(addr, reg byte, value []byte) error {
	if err, ok := b.failReads[addr][reg]; ok {
		return err
	}
	if b.coreAddr != 0 && addr == b.coreAddr && reg == RegData0 {
		copy(value, b.coreFrame[:])
		return nil
	}
	if _, ok := b.direct[addr]; ok {
		if reg == MagRegDataX {
			frame := b.directMagFrame[addr]
			copy(value, frame[:])
		}
		return nil
	}
	return errNoAck
}

// newTestIMU wires an IMU to the simulated bus with a fake clock.
func newTestIMU(bus *simBus) (*IMU, *fakeClock) {
	clock := newFakeClock()
	return New(bus, DefaultConfig(), WithClock(clock)), clock
}
