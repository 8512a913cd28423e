package bmi160

import "time"

// Settle intervals used during bring-up.
const (
	resetSettle = 100 * time.Millisecond
	powerSettle = 10 * time.Millisecond
)

// BringUpStep records one configuration write of the core bring-up
// sequence.
type BringUpStep struct {
	Name string
	OK   bool
}

// BringUpReport collects the outcome of every bring-up step. The
// sequence is best effort: a failed write is recorded and the sequence
// continues, because a partially configured chip still produces
// interpretable data.
type BringUpReport struct {
	Steps []BringUpStep
}

func (r *BringUpReport) add(name string, ok bool) {
	r.Steps = append(r.Steps, BringUpStep{Name: name, OK: ok})
}

// AllOK reports whether every step succeeded.
func (r *BringUpReport) AllOK() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// bringUpCore configures the BMI160: output rates and ranges, soft
// reset, then normal power mode for accel and gyro, each followed by
// its settle delay. Finishes by recomputing the conversion factors.
func (d *IMU) bringUpCore() BringUpReport {
	var report BringUpReport

	report.add("acc_conf", d.write(d.coreAddr, RegAccConf, d.cfg.AccODR) == nil)
	report.add("acc_range", d.write(d.coreAddr, RegAccRange, d.cfg.AccRange) == nil)
	report.add("gyr_conf", d.write(d.coreAddr, RegGyrConf, d.cfg.GyrODR) == nil)
	report.add("gyr_range", d.write(d.coreAddr, RegGyrRange, d.cfg.GyrRange) == nil)

	if ok := d.write(d.coreAddr, RegCmd, CmdSoftReset) == nil; ok {
		report.add("soft_reset", true)
		d.clock.Sleep(resetSettle)
	} else {
		report.add("soft_reset", false)
	}

	if ok := d.write(d.coreAddr, RegCmd, CmdAccNormal) == nil; ok {
		report.add("acc_normal", true)
		d.clock.Sleep(powerSettle)
	} else {
		report.add("acc_normal", false)
	}

	if ok := d.write(d.coreAddr, RegCmd, CmdGyrNormal) == nil; ok {
		report.add("gyr_normal", true)
		d.clock.Sleep(powerSettle)
	} else {
		report.add("gyr_normal", false)
	}

	d.updateConversionFactors()
	return report
}
