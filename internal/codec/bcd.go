// Package codec holds the byte level primitives shared by the header and
// record decoders: BCD, packed manufacturer codes, fixed width integers,
// IEEE reals and the M-Bus date/time compounds.
package codec

import (
	"fmt"
	"strings"

	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

// maxBCDDigits keeps the decoded value inside int64.
const maxBCDDigits = 18

// BCD decodes packed decimal digits, most significant byte first. A 0xF top
// nibble on the leading byte marks a negative value.
func BCD(b []byte) (int64, error) {
	if len(b)*2 > maxBCDDigits {
		return 0, &decodeerr.UnsupportedEncodingError{Field: "BCD length", Code: byte(len(b))}
	}
	var value int64
	negative := false
	for i, by := range b {
		high := by >> 4
		low := by & 0x0F
		if i == 0 && high == 0x0F {
			negative = true
			high = 0
		}
		if high > 9 || low > 9 {
			return 0, &decodeerr.BCDFormatError{Offset: i, Byte: by}
		}
		value = value*100 + int64(high)*10 + int64(low)
	}
	if negative {
		value = -value
	}
	return value, nil
}

// BCDLittleEndian decodes BCD as it travels on the wire, least significant
// byte first. Offsets in returned errors refer to the wire order.
func BCDLittleEndian(b []byte) (int64, error) {
	v, err := BCD(reversed(b))
	if err != nil {
		if bcdErr, ok := err.(*decodeerr.BCDFormatError); ok {
			bcdErr.Offset = len(b) - 1 - bcdErr.Offset
		}
		return 0, err
	}
	return v, nil
}

// BCDWildcard decodes an identification number in wire order. 0xF nibbles
// are accepted as wildcards: they count as zero in the value and the
// returned mask renders the id with an F at each wildcard position. The
// mask is empty when no wildcard is present.
func BCDWildcard(b []byte) (int64, string, error) {
	msb := reversed(b)
	var value int64
	wildcard := false
	var mask strings.Builder
	for i, by := range msb {
		for _, nibble := range [2]byte{by >> 4, by & 0x0F} {
			switch {
			case nibble == 0x0F:
				wildcard = true
				value *= 10
				mask.WriteByte('F')
			case nibble > 9:
				return 0, "", &decodeerr.BCDFormatError{Offset: len(b) - 1 - i, Byte: by}
			default:
				value = value*10 + int64(nibble)
				mask.WriteByte('0' + nibble)
			}
		}
	}
	if !wildcard {
		return value, "", nil
	}
	return value, mask.String(), nil
}

// EncodeBCD packs a non-negative value into n bytes, least significant byte
// first.
func EncodeBCD(value int64, n int) ([]byte, error) {
	if value < 0 {
		return nil, fmt.Errorf("encode BCD: negative value %d", value)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		low := value % 10
		value /= 10
		high := value % 10
		value /= 10
		out[i] = byte(high<<4 | low)
	}
	if value != 0 {
		return nil, fmt.Errorf("encode BCD: value does not fit %d bytes", n)
	}
	return out, nil
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, by := range b {
		out[len(b)-1-i] = by
	}
	return out
}
