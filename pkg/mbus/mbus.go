// Package mbus decodes wired M-Bus (EN 13757-3) telegrams into a readable
// document of header information and data records.
//
// Decoding is pure: every call works on its own buffers and the functions
// are safe for concurrent use.
package mbus

import (
	"errors"
	"fmt"

	"github.com/ganehag/meterbus-restaurant/internal/crypto"
	"github.com/ganehag/meterbus-restaurant/internal/frame"
	"github.com/ganehag/meterbus-restaurant/internal/labels"
	"github.com/ganehag/meterbus-restaurant/internal/options"
	"github.com/ganehag/meterbus-restaurant/internal/records"
)

// Options tune a decode call.
type Options struct {
	// KeyHex is the 32 hex digit AES-128 key used for mode 5 telegrams.
	KeyHex string
}

func (o Options) key() ([]byte, error) {
	return options.ParseKeyHex(o.KeyHex)
}

// DecodeFrame decodes a complete frame. Ack, short and control frames
// carry no data and yield an empty document.
func DecodeFrame(data []byte) (Document, error) {
	return DecodeFrameWithOptions(data, Options{})
}

// DecodeFrameWithOptions decodes a complete frame with custom options.
func DecodeFrameWithOptions(data []byte, opts Options) (Document, error) {
	key, err := opts.key()
	if err != nil {
		return Document{}, err
	}
	f, err := frame.Parse(data)
	if err != nil {
		return Document{}, err
	}
	info := &FrameInfo{Type: f.Type.String(), Control: f.Control, Address: f.Address, CI: f.CI}
	if f.Type != frame.TypeLong {
		return Document{Records: []Record{}, Frame: info}, nil
	}
	doc, err := decodeBody(f.Body(), key)
	if err != nil {
		return Document{}, err
	}
	doc.Frame = info
	return doc, nil
}

// DecodeBody decodes a bare body starting at the CI field.
func DecodeBody(data []byte) (Document, error) {
	return DecodeBodyWithOptions(data, Options{})
}

// DecodeBodyWithOptions decodes a bare body with custom options.
func DecodeBodyWithOptions(data []byte, opts Options) (Document, error) {
	key, err := opts.key()
	if err != nil {
		return Document{}, err
	}
	return decodeBody(data, key)
}

// Decode decodes data in the given mode. In auto mode a frame is tried
// first and a body second. When both fail the frame error is returned,
// unless the input did not start like a frame at all.
func Decode(data []byte, mode options.Mode, opts Options) (Document, error) {
	switch mode {
	case options.ModeFrame:
		return DecodeFrameWithOptions(data, opts)
	case options.ModeBody:
		return DecodeBodyWithOptions(data, opts)
	case options.ModeAuto, "":
		doc, frameErr := DecodeFrameWithOptions(data, opts)
		if frameErr == nil {
			return doc, nil
		}
		doc, bodyErr := DecodeBodyWithOptions(data, opts)
		if bodyErr == nil {
			return doc, nil
		}
		var startErr *UnknownStartByteError
		if errors.As(frameErr, &startErr) {
			return Document{}, bodyErr
		}
		return Document{}, frameErr
	default:
		return Document{}, fmt.Errorf("unknown decode mode %q", mode)
	}
}

// DecodeHex decodes a hex telegram in the given mode.
func DecodeHex(input string, mode options.Mode, opts Options) (Document, error) {
	data, err := options.DecodeHex(input)
	if err != nil {
		return Document{}, err
	}
	return Decode(data, mode, opts)
}

func decodeBody(body []byte, key []byte) (Document, error) {
	// The payload may be decrypted in place; never touch the caller's slice.
	buf := append([]byte(nil), body...)
	t, err := frame.ParseBody(buf)
	if err != nil {
		return Document{}, err
	}
	if err := crypto.Decrypt(&t, key); err != nil {
		return Document{}, err
	}
	recs, err := records.ParseRecords(t.Payload)
	if err != nil {
		return Document{}, fmt.Errorf("data records: %w", err)
	}
	doc := Document{
		Information: information(t.Header),
		Records:     make([]Record, 0, len(recs)),
	}
	for _, r := range recs {
		doc.Records = append(doc.Records, record(r))
	}
	return doc, nil
}

func information(h frame.Header) *Information {
	sig := fmt.Sprintf("%02x%02x", byte(h.Signature), byte(h.Signature>>8))
	info := &Information{
		AccessNumber: ptr(h.AccessNumber),
		Status:       ptr(h.Status),
		Signature:    &sig,
	}
	switch h.Kind {
	case frame.HeaderNone:
		return nil
	case frame.HeaderLong:
		info.ID = ptr(h.ID)
		info.IDMask = h.IDMask
		info.Manufacturer = h.ManufacturerString()
		info.Version = ptr(h.Version)
		info.DeviceType = ptr(h.Medium)
		info.Medium = ptr(labels.Medium(h.Medium))
	}
	return info
}

func record(r records.Record) Record {
	return Record{
		ID:            r.Index,
		Function:      labels.Function(r.Function),
		Type:          labels.VIFType(r.Type),
		Value:         r.Value,
		Unit:          string(r.Unit),
		Tariff:        r.Tariff,
		Device:        r.Device,
		StorageNumber: r.StorageNumber,
		PlainTextUnit: r.PlainTextUnit,
	}
}

func ptr[T any](v T) *T {
	return &v
}
