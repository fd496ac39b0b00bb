// Package records walks the variable data records of an M-Bus application
// payload. Each record is a data information block (DIF + DIFE) followed by
// a value information block (VIF + VIFE) and the data itself.
package records

import "github.com/ganehag/meterbus-restaurant/internal/codec"

// FunctionType is the value function coded in DIF bits 4-5, or one of the
// special function markers.
type FunctionType uint8

const (
	FunctionInstantaneous FunctionType = iota
	FunctionMaximum
	FunctionMinimum
	FunctionErrorState
	FunctionSpecial
	FunctionFillByte
	FunctionMoreRecordsFollow
)

// Encoding is the data representation selected by the DIF low nibble.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingInt
	EncodingReal
	EncodingBCD
	EncodingVariableLength
	EncodingSpecial
	EncodingSelection
)

func (e Encoding) String() string {
	switch e {
	case EncodingInt:
		return "int"
	case EncodingReal:
		return "real"
	case EncodingBCD:
		return "bcd"
	case EncodingVariableLength:
		return "variable"
	case EncodingSpecial:
		return "special"
	case EncodingSelection:
		return "selection"
	default:
		return "none"
	}
}

// Record is one decoded data record.
type Record struct {
	Index  int
	Offset int

	DIF  byte
	DIFE []byte
	VIF  byte
	VIFE []byte

	Function      FunctionType
	StorageNumber uint64
	// Tariff and Device are set only when the record carries DIFE bytes.
	Tariff *uint32
	Device *uint32

	Encoding   Encoding
	DataLength int
	Data       []byte

	Type          VIFType
	Unit          Unit
	PlainTextUnit string
	Exponent      int
	Value         codec.Value
}

// Terminal reports whether the record ends the payload: manufacturer
// specific data or the more-records-follow marker.
func (r Record) Terminal() bool {
	return r.Encoding == EncodingSpecial
}
