package bmi160

// BMI160 I2C addresses. The chip strap pin selects one of the two.
const (
	CoreAddrLow  = 0x68
	CoreAddrHigh = 0x69
)

// BMI160 registers.
const (
	RegChipID    = 0x00
	RegPMUStatus = 0x03
	RegData0     = 0x04 // 20-byte data block: mag(8) gyro(6) accel(6)
	RegStatus    = 0x1B
	RegAccConf   = 0x40
	RegAccRange  = 0x41
	RegGyrConf   = 0x42
	RegGyrRange  = 0x43
	RegMagConf   = 0x44
	RegMagIF0    = 0x4B // secondary interface: device address select
	RegMagIF1    = 0x4C // secondary interface: mode / manual trigger / burst length
	RegMagIF2    = 0x4D // secondary interface: read data address
	RegMagIF3    = 0x4E // secondary interface: write register address
	RegMagIF4    = 0x4F // secondary interface: write data
	RegMagIFCtl  = 0x7D
	RegCmd       = 0x7E
)

// BMI160 command register values.
const (
	CmdSoftReset = 0xB6
	CmdAccNormal = 0x11
	CmdGyrNormal = 0x15
	CmdMagNormal = 0x19
)

// BMI160 chip identity.
const CoreChipID = 0xD1

// Status register bits.
const statusDrdyMag = 1 << 5

// Secondary-interface MAG_IF_1 codes.
const (
	magIFManualWrite = 0x80 // manual access, write direction; rewritten to trigger the transfer
	magIFManualRead  = 0x00 // manual access, read direction
	magIFBurst8      = 0x03 // data mode, 8-byte burst
)

// BMM150 I2C addresses. Four strap combinations.
const (
	MagAddrFirst = 0x10
	MagAddrLast  = 0x13
)

// BMM150 registers.
const (
	MagRegChipID = 0x40
	MagRegDataX  = 0x42 // 8-byte frame: X, Y, Z, RHALL (LSB first)
	MagRegPower  = 0x4B
	MagRegOpMode = 0x4C
)

// BMM150 register values.
const (
	MagChipID     = 0x32
	MagPowerOn    = 0x01
	MagModeNormal = 0x06
	MagModeForced = 0x02
)

// magConfODR10Hz is the BMI160-side polling rate for the bridged
// magnetometer channel.
const magConfODR10Hz = 0x0B

// Accelerometer range codes (BMI160 ACC_RANGE register).
const (
	AccRange2G  = 0x03
	AccRange4G  = 0x05
	AccRange8G  = 0x08
	AccRange16G = 0x0C
)

// Gyroscope range codes (BMI160 GYR_RANGE register).
const (
	GyrRange2000DPS = 0x00
	GyrRange1000DPS = 0x01
	GyrRange500DPS  = 0x02
	GyrRange250DPS  = 0x03
	GyrRange125DPS  = 0x04
)

// Output data rate codes (ACC_CONF / GYR_CONF).
const (
	ODR25Hz = 0x28
	ODRMax  = 0x0C // 1600 Hz accel / 3200 Hz gyro
)

// Hardware output-rate ceilings, Hz.
const (
	MaxAccFrequency = 1600
	MaxGyrFrequency = 3200
	MaxMagFrequency = 100
)
