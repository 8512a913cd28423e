package bmi160

import "time"

// Bus is the byte-addressed register transport the driver runs on. It is
// the subset of embd.I2CBus the driver needs, so an embd bus can be
// passed in directly; tests substitute a scripted implementation.
type Bus interface {
	WriteByteToReg(addr, reg, value byte) error
	ReadByteFromReg(addr, reg byte) (byte, error)
	ReadFromReg(addr, reg byte, value []byte) error
}

// Clock supplies time to the driver. The relay handshake is built out of
// fixed settle delays with no ready signal, so tests need to run it
// without real elapsed time.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
