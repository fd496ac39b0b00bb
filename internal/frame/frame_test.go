package frame

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

const longFrameHex = "681F1F680802727856341224400107550000000313153100DA023B13018B60043718021816"

func TestParse(t *testing.T) {
	raw := decodeHex(t, longFrameHex)
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Type != TypeLong {
		t.Fatalf("unexpected type %s", f.Type)
	}
	if f.Length != 0x1F || f.Control != 0x08 || f.Address != 0x02 || f.CI != 0x72 {
		t.Fatalf("unexpected envelope: %+v", f)
	}
	if f.Checksum != 0x18 {
		t.Fatalf("checksum 0x%02X", f.Checksum)
	}
	if len(f.Payload) != 0x1F-3 {
		t.Fatalf("payload length %d", len(f.Payload))
	}
	if body := f.Body(); body[0] != 0x72 || len(body) != 0x1F-2 {
		t.Fatalf("unexpected body % X", body)
	}
}

func TestParseShortAndAck(t *testing.T) {
	f, err := Parse([]byte{0x10, 0x40, 0x01, 0x41, 0x16})
	if err != nil {
		t.Fatalf("short frame: %v", err)
	}
	if f.Type != TypeShort || f.Control != 0x40 || f.Address != 0x01 {
		t.Fatalf("unexpected short frame %+v", f)
	}
	if f.Body() != nil {
		t.Fatalf("short frame has no body")
	}
	f, err = Parse([]byte{0xE5})
	if err != nil || f.Type != TypeAck {
		t.Fatalf("ack: %+v %v", f, err)
	}
}

func TestParseControl(t *testing.T) {
	raw := []byte{0x68, 0x03, 0x03, 0x68, 0x53, 0xFE, 0x50, 0xA1, 0x16}
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("control frame: %v", err)
	}
	if f.Type != TypeControl || f.CI != 0x50 || len(f.Payload) != 0 {
		t.Fatalf("unexpected control frame %+v", f)
	}
}

func TestParseErrors(t *testing.T) {
	valid := decodeHex(t, longFrameHex)
	corrupt := func(i int, b byte) []byte {
		out := append([]byte(nil), valid...)
		out[i] = b
		return out
	}
	cases := []struct {
		name  string
		raw   []byte
		check func(error) bool
	}{
		{"empty", nil, isFormat},
		{"unknown start", []byte{0x42, 0x00}, func(err error) bool {
			var e *decodeerr.UnknownStartByteError
			return errors.As(err, &e) && e.Start == 0x42
		}},
		{"checksum", corrupt(len(valid)-2, 0x19), func(err error) bool {
			var e *decodeerr.ChecksumError
			return errors.As(err, &e) && e.Expected == 0x18 && e.Actual == 0x19
		}},
		{"stop byte", corrupt(len(valid)-1, 0x17), isFormat},
		{"length mismatch", corrupt(2, 0x1E), isFormat},
		{"second start", corrupt(3, 0x69), isFormat},
		{"truncated", valid[:len(valid)-3], isFormat},
		{"short frame checksum", []byte{0x10, 0x40, 0x01, 0x42, 0x16}, func(err error) bool {
			var e *decodeerr.ChecksumError
			return errors.As(err, &e)
		}},
		{"short frame length", []byte{0x10, 0x40, 0x01, 0x41}, isFormat},
		{"ack with trailer", []byte{0xE5, 0xE5}, isFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse(tc.raw)
			if err == nil {
				t.Fatalf("expected error, got frame %+v", f)
			}
			if !tc.check(err) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		})
	}
}

func TestChecksumLaw(t *testing.T) {
	raw := decodeHex(t, longFrameHex)
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fields := append([]byte{f.Control, f.Address, f.CI}, f.Payload...)
	if Checksum(fields) != f.Checksum {
		t.Fatalf("checksum law violated")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := decodeHex(t, longFrameHex)
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	encoded, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(encoded, raw) {
		t.Fatalf("Encode = % X\nwant     % X", encoded, raw)
	}
	for _, in := range []Frame{
		{Type: TypeAck},
		{Type: TypeShort, Control: 0x5B, Address: 0xFE},
		{Type: TypeControl, Control: 0x53, Address: 0xFE, CI: 0x50},
	} {
		encoded, err := Encode(in)
		if err != nil {
			t.Fatalf("Encode %s: %v", in.Type, err)
		}
		back, err := Parse(encoded)
		if err != nil {
			t.Fatalf("Parse %s: %v", in.Type, err)
		}
		if back.Type != in.Type || back.Control != in.Control || back.Address != in.Address || back.CI != in.CI {
			t.Fatalf("round trip %+v -> %+v", in, back)
		}
	}
	if _, err := Encode(Frame{Type: TypeLong, CI: 0x72}); err == nil {
		t.Fatalf("expected error for long frame without payload")
	}
}

func isFormat(err error) bool {
	var e *decodeerr.FrameFormatError
	return errors.As(err, &e)
}

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	return b
}
