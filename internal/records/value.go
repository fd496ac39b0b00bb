package records

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ganehag/meterbus-restaurant/internal/codec"
	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// variableLength maps an LVAR byte to the number of data bytes that follow.
func variableLength(lvar byte, offset int) (int, error) {
	switch {
	case lvar < 0xC0:
		return int(lvar), nil
	case lvar <= 0xCF:
		return int(lvar - 0xC0), nil
	case lvar <= 0xDF:
		return int(lvar - 0xD0), nil
	case lvar <= 0xE8:
		return int(lvar - 0xE0), nil
	default:
		return 0, &decodeerr.UnsupportedEncodingError{Offset: offset, Field: "LVAR", Code: lvar}
	}
}

// decodeValue turns the raw data of rec into its normalized value. offset
// is the position of the data in the payload, used in errors.
func decodeValue(rec Record, lvar byte, offset int) (codec.Value, error) {
	data := rec.Data
	switch rec.Encoding {
	case EncodingNone, EncodingSelection:
		return codec.Null, nil
	case EncodingInt:
		if v, ok := timePoint(rec.Type, data); ok {
			return v, nil
		}
		raw, err := codec.Int(data)
		if err != nil {
			return codec.Null, err
		}
		return codec.ScaleInt(raw, rec.Exponent), nil
	case EncodingReal:
		f, err := codec.Real32(data)
		if err != nil {
			return codec.Null, err
		}
		return codec.ScaleFloat(f, rec.Exponent), nil
	case EncodingBCD:
		raw, err := codec.BCDLittleEndian(data)
		if err != nil {
			return codec.Null, at(err, offset)
		}
		return codec.ScaleInt(raw, rec.Exponent), nil
	case EncodingVariableLength:
		return decodeVariable(rec, lvar, offset)
	case EncodingSpecial:
		return rawValue(data), nil
	default:
		return codec.Null, &decodeerr.UnsupportedEncodingError{Offset: offset, Field: "DIF", Code: rec.DIF}
	}
}

func decodeVariable(rec Record, lvar byte, offset int) (codec.Value, error) {
	data := rec.Data
	switch {
	case lvar < 0xC0:
		return codec.StringValue(reverseText(data)), nil
	case lvar <= 0xDF:
		// The LVAR carries the sign; a sign nibble in the data is invalid.
		if lvar >= 0xD0 && len(data) > 0 && data[len(data)-1]>>4 == 0x0F {
			last := len(data) - 1
			return codec.Null, &decodeerr.BCDFormatError{Offset: offset + last, Byte: data[last]}
		}
		raw, err := codec.BCDLittleEndian(data)
		if err != nil {
			return codec.Null, at(err, offset)
		}
		if lvar >= 0xD0 {
			raw = -raw
		}
		return codec.ScaleInt(raw, rec.Exponent), nil
	default:
		if len(data) == 0 {
			return codec.Null, nil
		}
		raw, err := codec.Int(data)
		if err != nil {
			return codec.Null, &decodeerr.UnsupportedEncodingError{Offset: offset - 1, Field: "LVAR", Code: lvar}
		}
		return codec.ScaleInt(raw, rec.Exponent), nil
	}
}

// timePoint decodes the date and date-time VIFs stored as integers. Dates
// that fail validation fall back to the plain integer reading.
func timePoint(typ VIFType, data []byte) (codec.Value, bool) {
	var (
		t      time.Time
		layout string
		err    error
	)
	switch {
	case typ == VIFDate && len(data) == 2:
		t, err = codec.DecodeTypeGDate(data)
		layout = dateLayout
	case typ == VIFDateTime && len(data) == 4:
		t, err = codec.DecodeTypeFDateTime(data)
		layout = dateTimeLayout
	case typ == VIFDateTime && len(data) == 6:
		t, err = codec.DecodeTypeIDateTime(data)
		layout = dateTimeLayout
	default:
		return codec.Null, false
	}
	if err != nil {
		return codec.Null, false
	}
	return codec.StringValue(t.Format(layout)), true
}

// rawValue renders special function data as spaced upper case hex.
func rawValue(data []byte) codec.Value {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return codec.StringValue(strings.Join(parts, " "))
}

// reverseText decodes wire text, which travels last character first. Bytes
// above 0x7F are taken as Latin-1 so the result is valid UTF-8.
func reverseText(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < utf8.RuneSelf {
			sb.WriteByte(b[i])
			continue
		}
		sb.WriteRune(rune(b[i]))
	}
	return sb.String()
}

// at shifts the data-relative offset of a codec error to the payload.
func at(err error, offset int) error {
	var bcdErr *decodeerr.BCDFormatError
	if errors.As(err, &bcdErr) {
		bcdErr.Offset += offset
		return err
	}
	var encErr *decodeerr.UnsupportedEncodingError
	if errors.As(err, &encErr) {
		encErr.Offset += offset
	}
	return err
}
