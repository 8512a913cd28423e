package bmi160

import "testing"

func initializedCoreIMU(t *testing.T) (*IMU, *simBus) {
	t.Helper()
	bus := newSimBus()
	bus.addCore(CoreAddrLow)
	d, _ := newTestIMU(bus)
	d.Initialize()
	return d, bus
}

func TestConversionFactorLookup(t *testing.T) {
	d, _ := initializedCoreIMU(t)

	accCases := map[byte]float64{
		AccRange2G:  16384.0,
		AccRange4G:  8192.0,
		AccRange8G:  4096.0,
		AccRange16G: 2048.0,
	}
	for code, want := range accCases {
		d.SetAccelRange(code)
		if got := d.AccelLSB(); got != want {
			t.Errorf("SetAccelRange(0x%02X): AccelLSB() = %v, want %v", code, got, want)
		}
	}

	gyrCases := map[byte]float64{
		GyrRange2000DPS: 16.384,
		GyrRange1000DPS: 32.768,
		GyrRange500DPS:  65.536,
		GyrRange250DPS:  131.072,
		GyrRange125DPS:  262.144,
	}
	for code, want := range gyrCases {
		d.SetGyroRange(code)
		if got := d.GyroLSB(); got != want {
			t.Errorf("SetGyroRange(0x%02X): GyroLSB() = %v, want %v", code, got, want)
		}
	}
}

func TestSetRangeIdempotent(t *testing.T) {
	d, _ := initializedCoreIMU(t)

	d.SetAccelRange(AccRange8G)
	first := d.AccelLSB()
	d.SetAccelRange(AccRange8G)
	if d.AccelLSB() != first {
		t.Errorf("second SetAccelRange changed the factor: %v -> %v", first, d.AccelLSB())
	}
}

func TestSetRangeWritesRegister(t *testing.T) {
	d, bus := initializedCoreIMU(t)

	d.SetAccelRange(AccRange16G)
	if bus.core[RegAccRange] != AccRange16G {
		t.Errorf("ACC_RANGE = 0x%02X, want 0x%02X", bus.core[RegAccRange], AccRange16G)
	}
	d.SetGyroRange(GyrRange500DPS)
	if bus.core[RegGyrRange] != GyrRange500DPS {
		t.Errorf("GYR_RANGE = 0x%02X, want 0x%02X", bus.core[RegGyrRange], GyrRange500DPS)
	}
}

func TestSetRangeNoRollbackOnWriteFailure(t *testing.T) {
	d, bus := initializedCoreIMU(t)

	// A failed range write must not roll back the factors: they track
	// the last requested code, not the register content.
	bus.failWrite(CoreAddrLow, RegAccRange)
	d.SetAccelRange(AccRange16G)
	if got := d.AccelLSB(); got != 2048.0 {
		t.Errorf("AccelLSB() = %v after failed write, want 2048", got)
	}

	bus.failWrite(CoreAddrLow, RegGyrRange)
	d.SetGyroRange(GyrRange125DPS)
	if got := d.GyroLSB(); got != 262.144 {
		t.Errorf("GyroLSB() = %v after failed write, want 262.144", got)
	}
}

func TestUnknownRangeCodeKeepsFactor(t *testing.T) {
	d, _ := initializedCoreIMU(t)

	before := d.AccelLSB()
	d.SetAccelRange(0x7E)
	if d.AccelLSB() != before {
		t.Errorf("unknown code changed the factor: %v -> %v", before, d.AccelLSB())
	}
}

func TestDefaultFactors(t *testing.T) {
	d := New(newSimBus(), DefaultConfig())
	if d.AccelLSB() != 8192.0 {
		t.Errorf("default AccelLSB = %v, want 8192 (±4g)", d.AccelLSB())
	}
	if d.GyroLSB() != 16.384 {
		t.Errorf("default GyroLSB = %v, want 16.384 (±2000°/s)", d.GyroLSB())
	}
}

func TestConvert(t *testing.T) {
	d := New(newSimBus(), DefaultConfig())
	p := d.Convert(Sample{Accel: [3]int16{8192, -8192, 0}, Gyro: [3]int16{16384, 0, 0}})
	if p.Accel[0] != 1.0 || p.Accel[1] != -1.0 {
		t.Errorf("accel conversion = %v", p.Accel)
	}
	if got := p.Gyro[0]; got != 16384/16.384 {
		t.Errorf("gyro conversion = %v", got)
	}
}
