package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Int decodes a little-endian two's complement integer of 1 to 8 bytes.
func Int(b []byte) (int64, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, fmt.Errorf("integer field of %d bytes", len(b))
	}
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	shift := uint(64 - 8*len(b))
	return int64(u<<shift) >> shift, nil
}

// Uint decodes a little-endian unsigned integer of 1 to 8 bytes.
func Uint(b []byte) (uint64, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, fmt.Errorf("integer field of %d bytes", len(b))
	}
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	return u, nil
}

// Real32 decodes a little-endian IEEE-754 single.
func Real32(b []byte) (float32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("real field requires 4 bytes, got %d", len(b))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}
