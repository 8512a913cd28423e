package bmi160

import "time"

// probeTimeout bounds how long probe waits for a device to answer an
// identity read: a few bus-clock round-trips.
const probeTimeout = 5 * time.Millisecond

// probe checks whether anything answers at addr and, if so, reads the
// byte at reg (normally the chip identity register). It retries the
// read until probeTimeout elapses, returns exists=false on any
// transaction failure and has no side effects beyond the bus
// transactions themselves.
func (d *IMU) probe(addr, reg byte) (exists bool, identity byte) {
	deadline := d.clock.Now().Add(probeTimeout)
	for {
		id, err := d.read(addr, reg)
		if err == nil {
			return true, id
		}
		if !d.clock.Now().Before(deadline) {
			return false, 0
		}
		d.clock.Sleep(time.Millisecond)
	}
}
