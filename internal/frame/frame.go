package frame

import (
	"fmt"

	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

const (
	startAck   = 0xE5
	startShort = 0x10
	startLong  = 0x68
	stopByte   = 0x16

	shortFrameLen   = 5
	longOverhead    = 6 // 68 L L 68 ... CS 16
	minLongFieldLen = 3 // C A CI
)

// Type tells the envelope kinds apart.
type Type uint8

const (
	TypeAck Type = iota + 1
	TypeShort
	TypeControl
	TypeLong
)

func (t Type) String() string {
	switch t {
	case TypeAck:
		return "ack"
	case TypeShort:
		return "short"
	case TypeControl:
		return "control"
	case TypeLong:
		return "long"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Frame is a classified M-Bus envelope. Payload holds the bytes after the
// CI field and aliases the input buffer.
type Frame struct {
	Type     Type
	Length   byte
	Control  byte
	Address  byte
	CI       byte
	Checksum byte
	Payload  []byte
}

// Body returns the CI field followed by the payload, the input expected by
// ParseBody. Ack and short frames have no body.
func (f Frame) Body() []byte {
	if f.Type != TypeControl && f.Type != TypeLong {
		return nil
	}
	body := make([]byte, 0, 1+len(f.Payload))
	body = append(body, f.CI)
	return append(body, f.Payload...)
}

// Parse classifies raw by its start byte and validates the envelope.
func Parse(raw []byte) (Frame, error) {
	if len(raw) == 0 {
		return Frame{}, &decodeerr.FrameFormatError{Reason: "empty telegram"}
	}
	switch raw[0] {
	case startAck:
		if len(raw) != 1 {
			return Frame{}, &decodeerr.FrameFormatError{Offset: 1, Reason: fmt.Sprintf("ack frame followed by %d bytes", len(raw)-1)}
		}
		return Frame{Type: TypeAck}, nil
	case startShort:
		return parseShort(raw)
	case startLong:
		return parseLong(raw)
	default:
		return Frame{}, &decodeerr.UnknownStartByteError{Start: raw[0]}
	}
}

func parseShort(raw []byte) (Frame, error) {
	if len(raw) != shortFrameLen {
		return Frame{}, &decodeerr.FrameFormatError{Reason: fmt.Sprintf("short frame must be %d bytes, got %d", shortFrameLen, len(raw))}
	}
	if raw[4] != stopByte {
		return Frame{}, &decodeerr.FrameFormatError{Offset: 4, Reason: fmt.Sprintf("stop byte 0x%02X", raw[4])}
	}
	f := Frame{
		Type:     TypeShort,
		Control:  raw[1],
		Address:  raw[2],
		Checksum: raw[3],
	}
	if sum := Checksum(raw[1:3]); sum != f.Checksum {
		return Frame{}, &decodeerr.ChecksumError{Expected: sum, Actual: f.Checksum}
	}
	return f, nil
}

func parseLong(raw []byte) (Frame, error) {
	if len(raw) < longOverhead+minLongFieldLen {
		return Frame{}, &decodeerr.FrameFormatError{Reason: fmt.Sprintf("long frame too short: %d bytes", len(raw))}
	}
	if raw[1] != raw[2] {
		return Frame{}, &decodeerr.FrameFormatError{Offset: 2, Reason: fmt.Sprintf("length bytes differ: 0x%02X != 0x%02X", raw[1], raw[2])}
	}
	if raw[3] != startLong {
		return Frame{}, &decodeerr.FrameFormatError{Offset: 3, Reason: fmt.Sprintf("second start byte 0x%02X", raw[3])}
	}
	length := raw[1]
	if int(length) < minLongFieldLen {
		return Frame{}, &decodeerr.FrameFormatError{Offset: 1, Reason: fmt.Sprintf("declared length %d below minimum %d", length, minLongFieldLen)}
	}
	if int(length)+longOverhead != len(raw) {
		return Frame{}, &decodeerr.FrameFormatError{Offset: 1, Reason: fmt.Sprintf("declared length %d does not match actual length %d", length, len(raw)-longOverhead)}
	}
	stopAt := len(raw) - 1
	if raw[stopAt] != stopByte {
		return Frame{}, &decodeerr.FrameFormatError{Offset: stopAt, Reason: fmt.Sprintf("stop byte 0x%02X", raw[stopAt])}
	}
	fields := raw[4 : 4+int(length)]
	f := Frame{
		Type:     TypeLong,
		Length:   length,
		Control:  fields[0],
		Address:  fields[1],
		CI:       fields[2],
		Checksum: raw[stopAt-1],
		Payload:  fields[3:],
	}
	if length == minLongFieldLen {
		f.Type = TypeControl
	}
	if sum := Checksum(fields); sum != f.Checksum {
		return Frame{}, &decodeerr.ChecksumError{Expected: sum, Actual: f.Checksum}
	}
	return f, nil
}

// Checksum is the arithmetic sum of b modulo 256.
func Checksum(b []byte) byte {
	var sum byte
	for _, by := range b {
		sum += by
	}
	return sum
}

// Encode renders f back onto the wire with a freshly computed checksum and
// length. The Checksum and Length fields of f are ignored.
func Encode(f Frame) ([]byte, error) {
	switch f.Type {
	case TypeAck:
		return []byte{startAck}, nil
	case TypeShort:
		return []byte{startShort, f.Control, f.Address, Checksum([]byte{f.Control, f.Address}), stopByte}, nil
	case TypeControl, TypeLong:
		if f.Type == TypeControl && len(f.Payload) != 0 {
			return nil, fmt.Errorf("control frame cannot carry %d payload bytes", len(f.Payload))
		}
		if f.Type == TypeLong && len(f.Payload) == 0 {
			return nil, fmt.Errorf("long frame requires a payload")
		}
		length := minLongFieldLen + len(f.Payload)
		if length > 0xFF {
			return nil, fmt.Errorf("payload of %d bytes exceeds long frame capacity", len(f.Payload))
		}
		out := make([]byte, 0, length+longOverhead)
		out = append(out, startLong, byte(length), byte(length), startLong, f.Control, f.Address, f.CI)
		out = append(out, f.Payload...)
		out = append(out, Checksum(out[4:]), stopByte)
		return out, nil
	default:
		return nil, fmt.Errorf("cannot encode frame %s", f.Type)
	}
}
