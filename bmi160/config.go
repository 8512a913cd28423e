package bmi160

// Config holds the output-rate and range codes written to the BMI160
// during bring-up. Range codes may be changed later through
// SetAccelRange / SetGyroRange.
type Config struct {
	AccODR   byte
	AccRange byte
	GyrODR   byte
	GyrRange byte
}

// DefaultConfig returns the power-on configuration: 25 Hz output for
// both sub-sensors, ±4g and ±2000°/s ranges.
func DefaultConfig() Config {
	return Config{
		AccODR:   ODR25Hz,
		AccRange: AccRange4G,
		GyrODR:   ODR25Hz,
		GyrRange: GyrRange2000DPS,
	}
}

// accelLSBPerG maps an ACC_RANGE code to the LSB-per-g scale factor.
var accelLSBPerG = map[byte]float64{
	AccRange2G:  16384.0,
	AccRange4G:  8192.0,
	AccRange8G:  4096.0,
	AccRange16G: 2048.0,
}

// gyroLSBPerDPS maps a GYR_RANGE code to the LSB-per-°/s scale factor.
var gyroLSBPerDPS = map[byte]float64{
	GyrRange2000DPS: 16.384,
	GyrRange1000DPS: 32.768,
	GyrRange500DPS:  65.536,
	GyrRange250DPS:  131.072,
	GyrRange125DPS:  262.144,
}

// updateConversionFactors derives the scale factors from the configured
// range codes. A code outside the table leaves the previous factor in
// place, same as the original firmware tables.
func (d *IMU) updateConversionFactors() {
	if lsb, ok := accelLSBPerG[d.cfg.AccRange]; ok {
		d.accLSB = lsb
	}
	if lsb, ok := gyroLSBPerDPS[d.cfg.GyrRange]; ok {
		d.gyrLSB = lsb
	}
}
