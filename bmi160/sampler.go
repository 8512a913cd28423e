package bmi160

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// minAveragingHz is the floor a non-positive frequency request clamps to.
const minAveragingHz = 10.0

// averager accumulates raw channel sums between emission instants.
type averager struct {
	accSum, gyrSum, magSum [3]int32
	rhallSum               int32
	samples                uint32
	lastFlush              time.Time
	last                   Sample
	rateApplied            bool
}

func (a *averager) accumulate(s Sample) {
	for i := 0; i < 3; i++ {
		a.accSum[i] += int32(s.Accel[i])
		a.gyrSum[i] += int32(s.Gyro[i])
		a.magSum[i] += int32(s.Mag[i])
	}
	a.rhallSum += int32(s.RHall)
	a.samples++
}

func (a *averager) flush() Sample {
	var out Sample
	n := int32(a.samples)
	for i := 0; i < 3; i++ {
		out.Accel[i] = int16(a.accSum[i] / n)
		out.Gyro[i] = int16(a.gyrSum[i] / n)
		out.Mag[i] = int16(a.magSum[i] / n)
	}
	out.RHall = int16(a.rhallSum / n)

	*a = averager{lastFlush: a.lastFlush, last: out, rateApplied: a.rateApplied}
	return out
}

// EffectiveFrequency clamps a requested output frequency to what the
// hardware can sustain: the slowest of the accel, gyro and (when a
// magnetometer is attached) magnetometer ceilings.
func (d *IMU) EffectiveFrequency(requestedHz float64) float64 {
	if requestedHz <= 0 {
		requestedHz = minAveragingHz
	}
	max := float64(MaxAccFrequency)
	if float64(MaxGyrFrequency) < max {
		max = float64(MaxGyrFrequency)
	}
	if d.magMode != MagNone && float64(MaxMagFrequency) < max {
		max = float64(MaxMagFrequency)
	}
	if requestedHz > max {
		return max
	}
	return requestedHz
}

// ReadAveragedSample produces channel averages at the requested
// cadence, bounded by the hardware ceilings. Between emission instants
// every call acquires one raw frame into the running sums and returns
// the previous average with fresh=false; when the gate opens and at
// least one frame was accumulated, the integer-divided average is
// emitted with fresh=true and the accumulators reset. Callers must poll
// at least as fast as the effective frequency or the average starves.
func (d *IMU) ReadAveragedSample(requestedHz float64) (s Sample, fresh bool) {
	effective := d.EffectiveFrequency(requestedHz)
	// Computed in nanoseconds: whole-millisecond spacing would collapse
	// to zero above 1 kHz and the gate would never close.
	interval := time.Duration(float64(time.Second) / effective)

	// Run the core sensors at their maximum output rates so the window
	// collects as many raw frames as the bus allows.
	if d.coreAddr != 0 && !d.avg.rateApplied {
		if err := d.write(d.coreAddr, RegAccConf, ODRMax); err != nil {
			log.Warnf("bmi160: accel max rate write: %v", err)
		}
		if err := d.write(d.coreAddr, RegGyrConf, ODRMax); err != nil {
			log.Warnf("bmi160: gyro max rate write: %v", err)
		}
		d.avg.rateApplied = true
	}

	now := d.clock.Now()
	if d.avg.lastFlush.IsZero() {
		d.avg.lastFlush = now
	}

	if now.Sub(d.avg.lastFlush) >= interval {
		d.avg.lastFlush = now
		if d.avg.samples > 0 {
			return d.avg.flush(), true
		}
		return d.avg.last, false
	}

	d.avg.accumulate(d.ReadSample())
	return d.avg.last, false
}
