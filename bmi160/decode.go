package bmi160

import "encoding/binary"

// Frame geometry. The BMI160 exposes one contiguous data block:
// bytes 0-7 are the synced magnetometer frame (bridged mode only),
// 8-13 the gyro, 14-19 the accel, all little-endian int16.
const (
	coreFrameLen = 20
	magFrameLen  = 8

	gyrOffset = 8
	accOffset = 14
)

func le16(buf []byte) int16 {
	return int16(binary.LittleEndian.Uint16(buf))
}

// decodeCoreFrame extracts the accel and gyro triplets from the 20-byte
// core data block. A short buffer decodes to zeros.
func decodeCoreFrame(buf []byte) (accel, gyro [3]int16) {
	if len(buf) < coreFrameLen {
		return
	}
	for i := 0; i < 3; i++ {
		accel[i] = le16(buf[accOffset+2*i:])
		gyro[i] = le16(buf[gyrOffset+2*i:])
	}
	return
}

// decodeBridgedMag extracts the magnetometer triplet and hall reference
// from the core data block. Values arrive already aligned by the
// BMI160's sync engine, so no resolution shifts apply.
func decodeBridgedMag(buf []byte) (mag [3]int16, rhall int16) {
	if len(buf) < magFrameLen {
		return
	}
	for i := 0; i < 3; i++ {
		mag[i] = le16(buf[2*i:])
	}
	rhall = le16(buf[6:])
	return
}

// decodeMagFrame decodes a raw 8-byte frame read directly from the
// BMM150: X and Y are 13-bit (arithmetic shift by 3 after sign
// interpretation), Z is 14-bit (shift by 1), the hall reference is a
// full 16-bit value.
func decodeMagFrame(buf []byte) (mag [3]int16, rhall int16) {
	if len(buf) < magFrameLen {
		return
	}
	mag[0] = le16(buf[0:]) >> 3
	mag[1] = le16(buf[2:]) >> 3
	mag[2] = le16(buf[4:]) >> 1
	rhall = le16(buf[6:])
	return
}
