package frame

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ganehag/meterbus-restaurant/internal/codec"
	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

// CI field values that introduce a variable data structure.
const (
	CISendUserData  = 0x51
	CIResponseLong  = 0x72
	CIResponseNone  = 0x78
	CIResponseShort = 0x7A
)

const (
	longHeaderLen  = 12
	shortHeaderLen = 4
)

// HeaderKind tells which fixed header precedes the data records.
type HeaderKind uint8

const (
	HeaderNone HeaderKind = iota
	HeaderShort
	HeaderLong
)

// Header is the fixed data header of a variable data structure. Identity
// fields (ID, Manufacturer, Version, Medium) are set only by a long header.
type Header struct {
	Kind         HeaderKind
	ID           uint32
	IDMask       string
	Manufacturer uint16
	Version      byte
	Medium       byte
	AccessNumber byte
	Status       byte
	Signature    uint16
}

// ManufacturerString returns the three letter manufacturer code.
func (h Header) ManufacturerString() string {
	return codec.Manufacturer(h.Manufacturer)
}

// SecurityMode is the encryption mode announced in the signature word.
func (h Header) SecurityMode() byte {
	return byte((h.Signature >> 8) & 0x1F)
}

// EncryptedBlocks is the number of 16 byte blocks announced as encrypted.
func (h Header) EncryptedBlocks() int {
	return int((h.Signature >> 4) & 0x0F)
}

// Telegram is a variable data structure split into header and record
// payload. Raw is the body starting at the CI field.
type Telegram struct {
	Raw     []byte
	CI      byte
	Header  Header
	Payload []byte
}

// ParseBody decodes the CI field and the fixed header that follows it.
func ParseBody(body []byte) (Telegram, error) {
	if len(body) == 0 {
		return Telegram{}, &decodeerr.FrameFormatError{Reason: "empty telegram body"}
	}
	t := Telegram{Raw: body, CI: body[0]}
	rest := body[1:]
	switch t.CI {
	case CIResponseLong:
		if len(rest) < longHeaderLen {
			return Telegram{}, &decodeerr.FrameFormatError{Offset: len(body), Reason: fmt.Sprintf("long header needs %d bytes, got %d", longHeaderLen, len(rest))}
		}
		h, err := decodeLongHeader(rest[:longHeaderLen])
		if err != nil {
			return Telegram{}, err
		}
		t.Header = h
		t.Payload = rest[longHeaderLen:]
	case CIResponseShort:
		if len(rest) < shortHeaderLen {
			return Telegram{}, &decodeerr.FrameFormatError{Offset: len(body), Reason: fmt.Sprintf("short header needs %d bytes, got %d", shortHeaderLen, len(rest))}
		}
		t.Header = Header{
			Kind:         HeaderShort,
			AccessNumber: rest[0],
			Status:       rest[1],
			Signature:    binary.LittleEndian.Uint16(rest[2:4]),
		}
		t.Payload = rest[shortHeaderLen:]
	case CIResponseNone, CISendUserData:
		t.Payload = rest
	default:
		return Telegram{}, &decodeerr.UnsupportedEncodingError{Field: "CI field", Code: t.CI}
	}
	return t, nil
}

func decodeLongHeader(b []byte) (Header, error) {
	id, mask, err := codec.BCDWildcard(b[0:4])
	if err != nil {
		if bcdErr, ok := err.(*decodeerr.BCDFormatError); ok {
			bcdErr.Offset++ // CI field
		}
		return Header{}, fmt.Errorf("identification number: %w", err)
	}
	return Header{
		Kind:         HeaderLong,
		ID:           uint32(id),
		IDMask:       mask,
		Manufacturer: binary.LittleEndian.Uint16(b[4:6]),
		Version:      b[6],
		Medium:       b[7],
		AccessNumber: b[8],
		Status:       b[9],
		Signature:    binary.LittleEndian.Uint16(b[10:12]),
	}, nil
}

// EncodeBody renders t back into a body starting at the CI field. It is the
// inverse of ParseBody.
func EncodeBody(t Telegram) ([]byte, error) {
	out := []byte{t.CI}
	switch t.CI {
	case CIResponseLong:
		h := t.Header
		id, err := encodeID(h)
		if err != nil {
			return nil, err
		}
		out = append(out, id...)
		out = binary.LittleEndian.AppendUint16(out, h.Manufacturer)
		out = append(out, h.Version, h.Medium, h.AccessNumber, h.Status)
		out = binary.LittleEndian.AppendUint16(out, h.Signature)
	case CIResponseShort:
		out = append(out, t.Header.AccessNumber, t.Header.Status)
		out = binary.LittleEndian.AppendUint16(out, t.Header.Signature)
	case CIResponseNone, CISendUserData:
	default:
		return nil, fmt.Errorf("cannot encode CI field 0x%02X", t.CI)
	}
	return append(out, t.Payload...), nil
}

func encodeID(h Header) ([]byte, error) {
	if h.IDMask == "" {
		id, err := codec.EncodeBCD(int64(h.ID), 4)
		if err != nil {
			return nil, fmt.Errorf("identification number: %w", err)
		}
		return id, nil
	}
	msb, err := hex.DecodeString(h.IDMask)
	if err != nil || len(msb) != 4 {
		return nil, fmt.Errorf("identification mask %q is not 8 hex digits", h.IDMask)
	}
	return []byte{msb[3], msb[2], msb[1], msb[0]}, nil
}
