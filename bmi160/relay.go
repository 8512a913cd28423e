package bmi160

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// The secondary interface has no ready/ack signal visible to the host:
// every scratch-register step is followed by a fixed settle delay and
// transfers are armed by rewriting the mode register. Delays and poll
// budgets below come straight from the BMM150 conversion timings.
const (
	relayCmdSettle    = 50 * time.Millisecond
	relayEnableSettle = 100 * time.Millisecond
	forcedConvTime    = 2 * time.Millisecond
	rePowerSettle     = 200 * time.Millisecond

	bringUpPollBudget = 200
	forcedPollBudget  = 50
	drdyPollSpacing   = time.Millisecond
)

// relayWrite performs one register write on the bridged magnetometer
// through the MAG_IF scratch slots: arm manual write mode, load the
// target register and data byte, then rewrite the mode register to
// trigger the transfer. The target sub-address must already be latched
// in MAG_IF_0.
func (d *IMU) relayWrite(reg, value byte) bool {
	return d.write(d.coreAddr, RegMagIF1, magIFManualWrite) == nil &&
		d.write(d.coreAddr, RegMagIF3, reg) == nil &&
		d.write(d.coreAddr, RegMagIF4, value) == nil &&
		d.write(d.coreAddr, RegMagIF1, magIFManualWrite) == nil
}

// relayRead performs one register read on the bridged magnetometer:
// load the target register, switch the interface to read direction,
// then collect the byte from the data scratch slot.
func (d *IMU) relayRead(reg byte) (byte, bool) {
	if d.write(d.coreAddr, RegMagIF3, reg) != nil {
		return 0, false
	}
	if d.write(d.coreAddr, RegMagIF1, magIFManualRead) != nil {
		return 0, false
	}
	v, err := d.read(d.coreAddr, RegMagIF4)
	if err != nil {
		return 0, false
	}
	return v, true
}

// attachBridged runs the full bridged bring-up for one candidate
// physical address. The candidate is accepted only when the power
// readback confirms the chip and the synced data block carries a
// non-zero frame; an all-zero frame means the wiring answers but no
// real signal flows, and the candidate is rejected.
func (d *IMU) attachBridged(physAddr byte) bool {
	if exists, id := d.probe(d.coreAddr, RegChipID); !exists || id != CoreChipID {
		return false
	}

	// The secondary interface takes the physical address shifted right
	// by one as its 7-bit sub-address.
	if d.write(d.coreAddr, RegMagIF0, physAddr>>1) != nil {
		return false
	}

	if !d.relayWrite(MagRegPower, MagPowerOn) {
		return false
	}
	d.clock.Sleep(relayCmdSettle)

	power, ok := d.relayRead(MagRegPower)
	if !ok || power != MagPowerOn {
		log.Debugf("bmi160: bridged 0x%02X power readback 0x%02X", physAddr, power)
		return false
	}

	if !d.relayWrite(MagRegOpMode, MagModeNormal) {
		return false
	}
	d.clock.Sleep(relayCmdSettle)

	// Polling rate, data pointer and burst length for the BMI160-driven
	// magnetometer channel, then enable it.
	if d.write(d.coreAddr, RegMagConf, magConfODR10Hz) != nil {
		return false
	}
	if d.write(d.coreAddr, RegMagIF2, MagRegDataX) != nil {
		return false
	}
	if d.write(d.coreAddr, RegMagIF1, magIFBurst8) != nil {
		return false
	}
	if d.write(d.coreAddr, RegCmd, CmdMagNormal) != nil {
		return false
	}
	d.clock.Sleep(relayEnableSettle)

	for i := 0; i < bringUpPollBudget; i++ {
		if status, err := d.read(d.coreAddr, RegStatus); err == nil && status&statusDrdyMag != 0 {
			if frame, ok := d.readMagBlock(); ok && !allZero(frame) {
				return true
			}
		}
		d.clock.Sleep(drdyPollSpacing)
	}

	// Timed out waiting for drdy; one last direct look at the block.
	if frame, ok := d.readMagBlock(); ok && !allZero(frame) {
		log.Debugf("bmi160: bridged 0x%02X accepted on fallback read", physAddr)
		return true
	}
	return false
}

// readMagBlock reads the magnetometer's 8-byte slice of the core data
// block.
func (d *IMU) readMagBlock() ([]byte, bool) {
	buf := make([]byte, magFrameLen)
	if err := d.bus.ReadFromReg(d.coreAddr, RegData0, buf); err != nil {
		return nil, false
	}
	return buf, true
}

// triggerForcedBridged requests one forced conversion through the relay
// and waits for the synced data to become ready. If the poll budget
// runs out it re-powers the magnetometer once with a longer settle and
// polls again; false means this cycle's data may be stale.
func (d *IMU) triggerForcedBridged() bool {
	if d.write(d.coreAddr, RegMagIFCtl, 0x01) != nil {
		return false
	}
	if d.write(d.coreAddr, RegMagIF0, d.magAddr) != nil {
		return false
	}
	if !d.relayWrite(MagRegOpMode, MagModeForced) {
		return false
	}
	d.clock.Sleep(forcedConvTime)

	if d.waitDrdy(forcedPollBudget) {
		return true
	}

	// Re-power once, then a final bounded poll.
	d.relayWrite(MagRegPower, MagPowerOn)
	d.clock.Sleep(rePowerSettle)
	return d.waitDrdy(forcedPollBudget)
}

func (d *IMU) waitDrdy(budget int) bool {
	for i := 0; i < budget; i++ {
		if status, err := d.read(d.coreAddr, RegStatus); err == nil && status&statusDrdyMag != 0 {
			return true
		}
		d.clock.Sleep(drdyPollSpacing)
	}
	return false
}

func allZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
