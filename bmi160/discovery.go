package bmi160

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// discoveryState is one step of the magnetometer attachment resolver.
// The machine only moves forward; once a terminal state is reached the
// attachment is fixed for the life of the process.
type discoveryState int

const (
	stateUnresolved discoveryState = iota
	stateTryDirect
	stateTryBridged
	stateFullScan
	stateAttachedDirect
	stateAttachedBridged
	stateNotFound
)

func (s discoveryState) terminal() bool {
	return s == stateAttachedDirect || s == stateAttachedBridged || s == stateNotFound
}

// stageResult is the outcome fed into the transition function after a
// discovery stage ran.
type stageResult struct {
	found       bool
	corePresent bool
}

// nextDiscoveryState is the pure transition function of the resolver.
// Bridged bring-up and the full scan both need a core device; without
// one the machine falls straight through to NotFound after the direct
// attempt.
func nextDiscoveryState(s discoveryState, r stageResult) discoveryState {
	switch s {
	case stateUnresolved:
		return stateTryDirect
	case stateTryDirect:
		if r.found {
			return stateAttachedDirect
		}
		if r.corePresent {
			return stateTryBridged
		}
		return stateNotFound
	case stateTryBridged:
		if r.found {
			return stateAttachedBridged
		}
		return stateFullScan
	case stateFullScan:
		if r.found {
			return stateAttachedDirect
		}
		return stateNotFound
	default:
		return s
	}
}

// magPowerSettle is the wait between powering a directly wired BMM150
// and reading its identity.
const magPowerSettle = 20 * time.Millisecond

// resolveMagnetometer walks the discovery machine: direct candidates
// first (cheapest to verify), then the secondary-interface relay, then
// an exhaustive address scan. First match wins at every stage.
func (d *IMU) resolveMagnetometer() (byte, MagMode) {
	state := stateUnresolved
	core := d.coreAddr != 0
	var addr byte

	for !state.terminal() {
		var res stageResult
		res.corePresent = core

		switch state {
		case stateTryDirect:
			for a := byte(MagAddrFirst); a <= MagAddrLast; a++ {
				if d.tryDirect(a) {
					addr, res.found = a, true
					break
				}
			}
		case stateTryBridged:
			for a := byte(MagAddrFirst); a <= MagAddrLast; a++ {
				if d.attachBridged(a) {
					addr, res.found = a, true
					break
				}
			}
		case stateFullScan:
			for a := byte(0x00); a <= 0x7F; a++ {
				if exists, id := d.probe(a, MagRegChipID); exists && id == MagChipID {
					log.Infof("bmi160: full scan hit at 0x%02X", a)
					addr, res.found = a, true
					break
				}
			}
		}

		state = nextDiscoveryState(state, res)
	}

	switch state {
	case stateAttachedDirect:
		return addr, MagDirect
	case stateAttachedBridged:
		return addr, MagBridged
	default:
		return 0, MagNone
	}
}

// tryDirect brings up a directly wired BMM150 candidate: power it on,
// settle, and accept the address only on a matching chip identity.
func (d *IMU) tryDirect(addr byte) bool {
	if err := d.write(addr, MagRegPower, MagPowerOn); err != nil {
		return false
	}
	d.clock.Sleep(magPowerSettle)

	id, err := d.read(addr, MagRegChipID)
	if err != nil {
		return false
	}
	if id != MagChipID {
		log.Debugf("bmi160: 0x%02X answered with id 0x%02X, not a magnetometer", addr, id)
		return false
	}
	return true
}
