// Package decodeerr holds the typed failures reported by the telegram
// decoder. Every error carries the byte offset where decoding stopped.
package decodeerr

import "fmt"

// FrameFormatError reports a malformed frame envelope.
type FrameFormatError struct {
	Offset int
	Reason string
}

func (e *FrameFormatError) Error() string {
	return fmt.Sprintf("frame format: %s (offset %d)", e.Reason, e.Offset)
}

// ChecksumError reports a checksum mismatch on a short, control or long frame.
type ChecksumError struct {
	Expected byte
	Actual   byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: computed 0x%02X, frame carries 0x%02X", e.Expected, e.Actual)
}

// UnknownStartByteError reports an unrecognized lead byte.
type UnknownStartByteError struct {
	Start byte
}

func (e *UnknownStartByteError) Error() string {
	return fmt.Sprintf("unknown start byte 0x%02X", e.Start)
}

// BCDFormatError reports a nibble outside 0-9 in a BCD field.
type BCDFormatError struct {
	Offset int
	Byte   byte
}

func (e *BCDFormatError) Error() string {
	return fmt.Sprintf("invalid BCD byte 0x%02X (offset %d)", e.Byte, e.Offset)
}

// DIFOverflowError reports a DIFE chain longer than MaxExtensions.
type DIFOverflowError struct {
	Offset int
}

func (e *DIFOverflowError) Error() string {
	return fmt.Sprintf("more than %d DIFE bytes (offset %d)", MaxExtensions, e.Offset)
}

// VIFOverflowError reports a VIFE chain longer than MaxExtensions.
type VIFOverflowError struct {
	Offset int
}

func (e *VIFOverflowError) Error() string {
	return fmt.Sprintf("more than %d VIFE bytes (offset %d)", MaxExtensions, e.Offset)
}

// TruncatedRecordError reports a record that runs past the end of the buffer.
type TruncatedRecordError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedRecordError) Error() string {
	return fmt.Sprintf("record truncated at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// UnsupportedEncodingError reports a field encoding the decoder does not handle.
type UnsupportedEncodingError struct {
	Offset int
	Field  string
	Code   byte
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported %s 0x%02X (offset %d)", e.Field, e.Code, e.Offset)
}

// MaxExtensions bounds both DIFE and VIFE chains.
const MaxExtensions = 10
