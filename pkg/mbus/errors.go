package mbus

import (
	"github.com/ganehag/meterbus-restaurant/internal/crypto"
	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

// Typed decode failures. Match them with errors.As.
type (
	FrameFormatError         = decodeerr.FrameFormatError
	ChecksumError            = decodeerr.ChecksumError
	UnknownStartByteError    = decodeerr.UnknownStartByteError
	BCDFormatError           = decodeerr.BCDFormatError
	DIFOverflowError         = decodeerr.DIFOverflowError
	VIFOverflowError         = decodeerr.VIFOverflowError
	TruncatedRecordError     = decodeerr.TruncatedRecordError
	UnsupportedEncodingError = decodeerr.UnsupportedEncodingError
)

// Encryption failures. Match them with errors.Is.
var (
	ErrKeyRequired             = crypto.ErrKeyRequired
	ErrInvalidKey              = crypto.ErrInvalidKey
	ErrUnsupportedSecurityMode = crypto.ErrUnsupportedMode
)
