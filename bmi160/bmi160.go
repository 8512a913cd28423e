// Package bmi160 drives a 9-axis inertial unit built from a Bosch
// BMI160 accelerometer/gyroscope and a BMM150 magnetometer sharing one
// I2C bus. The magnetometer may be wired directly to the bus or sit
// behind the BMI160's secondary interface; Initialize discovers the
// wiring and brings both chips up without prior knowledge of it.
package bmi160

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// MagMode reports how the magnetometer is attached.
type MagMode int

const (
	MagNone    MagMode = iota // no magnetometer found
	MagDirect                 // wired to the shared bus
	MagBridged                // behind the BMI160 secondary interface
)

func (m MagMode) String() string {
	switch m {
	case MagDirect:
		return "direct"
	case MagBridged:
		return "bridged"
	default:
		return "none"
	}
}

// Sample is one raw acquisition. Values are sensor-native signed counts;
// an all-zero triplet means "no valid sample", never a true physical
// zero.
type Sample struct {
	Accel [3]int16 `json:"accel"`
	Gyro  [3]int16 `json:"gyro"`
	Mag   [3]int16 `json:"mag"`
	RHall int16    `json:"rhall"`
}

// PhysicalSample is a Sample converted through the live scale factors.
// Accel is in g, Gyro in °/s. Mag stays in raw counts (the BMM150's
// trim-based µT conversion is out of scope here).
type PhysicalSample struct {
	Accel [3]float64 `json:"accel_g"`
	Gyro  [3]float64 `json:"gyro_dps"`
	Mag   [3]int16   `json:"mag"`
	RHall int16      `json:"rhall"`
}

// IMU owns the resolved addresses, attachment mode, configuration and
// averaging state for one sensor pair. One IMU per bus; all methods are
// synchronous and must be called from a single goroutine.
type IMU struct {
	bus   Bus
	clock Clock

	coreAddr byte // 0 until a BMI160 was found
	magAddr  byte // 0 until a BMM150 was found
	magMode  MagMode

	cfg            Config
	accLSB, gyrLSB float64

	initialized bool

	avg averager
}

// Option adjusts an IMU before Initialize.
type Option func(*IMU)

// WithClock substitutes the time source. Tests use this to run the
// handshake delays without real elapsed time.
func WithClock(c Clock) Option {
	return func(d *IMU) { d.clock = c }
}

// New builds an IMU on the given bus. Nothing touches the hardware
// until Initialize is called.
func New(bus Bus, cfg Config, opts ...Option) *IMU {
	d := &IMU{
		bus:   bus,
		clock: realClock{},
		cfg:   cfg,
	}
	for _, o := range opts {
		o(d)
	}
	d.updateConversionFactors()
	return d
}

// Initialize runs discovery and bring-up: locate the BMI160, configure
// it, then resolve the magnetometer attachment (direct, bridged, full
// scan). Returns true only when a usable magnetometer attachment was
// established; a BMI160 found without a magnetometer is a supported
// reduced state that still serves accel/gyro data.
func (d *IMU) Initialize() bool {
	for _, addr := range []byte{CoreAddrLow, CoreAddrHigh} {
		exists, id := d.probe(addr, RegChipID)
		log.Debugf("bmi160: probe 0x%02X exists=%v id=0x%02X", addr, exists, id)
		if exists && id == CoreChipID {
			d.coreAddr = addr
			break
		}
	}
	if d.coreAddr == 0 {
		log.Warnln("bmi160: no core device on 0x68/0x69")
	} else {
		log.Infof("bmi160: core device at 0x%02X", d.coreAddr)
		report := d.bringUpCore()
		for _, step := range report.Steps {
			if !step.OK {
				log.Warnf("bmi160: bring-up step %q failed", step.Name)
			}
		}
	}

	d.magAddr, d.magMode = d.resolveMagnetometer()
	if d.magMode == MagNone {
		log.Warnln("bmi160: no magnetometer found on any interface")
		return false
	}
	log.Infof("bmi160: magnetometer at 0x%02X (%s)", d.magAddr, d.magMode)
	d.initialized = true
	return true
}

// IsInitialized reports whether Initialize completed with a
// magnetometer attachment.
func (d *IMU) IsInitialized() bool { return d.initialized }

// AttachmentMode reports how the magnetometer was attached. MagNone
// after a failed or skipped discovery.
func (d *IMU) AttachmentMode() MagMode { return d.magMode }

// AccelLSB returns the current accelerometer scale factor, LSB per g.
func (d *IMU) AccelLSB() float64 { return d.accLSB }

// GyroLSB returns the current gyroscope scale factor, LSB per °/s.
func (d *IMU) GyroLSB() float64 { return d.gyrLSB }

// SetAccelRange writes a new ACC_RANGE code and recomputes the accel
// scale factor. The factor tracks the requested code even if the bus
// write fails; there is no rollback.
func (d *IMU) SetAccelRange(code byte) {
	if d.coreAddr == 0 {
		return
	}
	if err := d.write(d.coreAddr, RegAccRange, code); err != nil {
		log.Warnf("bmi160: accel range write: %v", err)
	}
	d.cfg.AccRange = code
	d.updateConversionFactors()
}

// SetGyroRange writes a new GYR_RANGE code and recomputes the gyro
// scale factor. Same no-rollback policy as SetAccelRange.
func (d *IMU) SetGyroRange(code byte) {
	if d.coreAddr == 0 {
		return
	}
	if err := d.write(d.coreAddr, RegGyrRange, code); err != nil {
		log.Warnf("bmi160: gyro range write: %v", err)
	}
	d.cfg.GyrRange = code
	d.updateConversionFactors()
}

// ReadSample acquires one raw frame from every attached sub-sensor.
// Channels that could not be read come back all zero.
func (d *IMU) ReadSample() Sample {
	var s Sample

	if d.coreAddr != 0 {
		if d.magMode == MagBridged {
			if !d.triggerForcedBridged() {
				log.Debugln("bmi160: bridged forced measurement not ready, frame may be stale")
			}
			d.clock.Sleep(time.Millisecond)
		}
		buf := make([]byte, coreFrameLen)
		if err := d.bus.ReadFromReg(d.coreAddr, RegData0, buf); err == nil {
			s.Accel, s.Gyro = decodeCoreFrame(buf)
			if d.magMode == MagBridged {
				s.Mag, s.RHall = decodeBridgedMag(buf)
			}
		} else {
			log.Warnf("bmi160: data block read: %v", err)
		}
	}

	if d.magMode == MagDirect {
		s.Mag, s.RHall = d.readMagForced()
	}
	return s
}

// readMagForced triggers a single forced conversion on a directly wired
// BMM150 and reads its 8-byte frame. Any failure yields zeros.
func (d *IMU) readMagForced() (mag [3]int16, rhall int16) {
	if err := d.write(d.magAddr, MagRegOpMode, MagModeForced); err != nil {
		return mag, 0
	}
	d.clock.Sleep(time.Millisecond)

	buf := make([]byte, magFrameLen)
	if err := d.bus.ReadFromReg(d.magAddr, MagRegDataX, buf); err != nil {
		return mag, 0
	}
	return decodeMagFrame(buf)
}

// Convert maps a raw sample into physical units using the scale factors
// of the last applied ranges.
func (d *IMU) Convert(s Sample) PhysicalSample {
	var p PhysicalSample
	for i := 0; i < 3; i++ {
		p.Accel[i] = float64(s.Accel[i]) / d.accLSB
		p.Gyro[i] = float64(s.Gyro[i]) / d.gyrLSB
	}
	p.Mag = s.Mag
	p.RHall = s.RHall
	return p
}

// write wraps a register write, settling for one bus cycle on success
// the way the hardware expects between configuration writes.
func (d *IMU) write(addr, reg, value byte) error {
	if err := d.bus.WriteByteToReg(addr, reg, value); err != nil {
		return err
	}
	d.clock.Sleep(time.Millisecond)
	return nil
}

func (d *IMU) read(addr, reg byte) (byte, error) {
	return d.bus.ReadByteFromReg(addr, reg)
}
