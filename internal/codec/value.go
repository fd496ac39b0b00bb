package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a decoded record value. The variant is fixed when the value is
// built and never re-inferred.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null is the value of records that carry no data.
var Null = Value{}

// IntValue returns an integer value.
func IntValue(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// FloatValue returns a floating point value.
func FloatValue(v float64) Value {
	return Value{kind: KindFloat, f: v}
}

// StringValue returns a text value.
func StringValue(v string) Value {
	return Value{kind: KindString, s: v}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v carries no data.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the integer variant.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float returns numeric variants as float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Text returns the string variant.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return "null"
	}
}

// MarshalJSON renders the variant as a JSON number, string or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON restores a value rendered by MarshalJSON. Numbers without a
// fraction or exponent come back as integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null
	case string:
		*v = StringValue(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			*v = IntValue(i)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return fmt.Errorf("value %s is not numeric: %w", x, err)
		}
		*v = FloatValue(f)
	default:
		return fmt.Errorf("unsupported JSON value %s", data)
	}
	return nil
}

// ScaleInt applies a power of ten to an integer reading.
func ScaleInt(raw int64, exponent int) Value {
	return scale(new(big.Rat).SetInt64(raw), exponent)
}

// ScaleFloat applies a power of ten to a real reading. The float is taken at
// its shortest single precision decimal form so 0.1 stays 0.1.
func ScaleFloat(raw float32, exponent int) Value {
	f := float64(raw)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 32))
	if !ok {
		return FloatValue(f)
	}
	return scale(r, exponent)
}

// scale multiplies r by 10^exponent and picks the integer variant when the
// result is exactly integral and fits int64.
func scale(r *big.Rat, exponent int) Value {
	if exponent != 0 {
		n := exponent
		if n < 0 {
			n = -n
		}
		p := new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil))
		if exponent > 0 {
			r.Mul(r, p)
		} else {
			r.Quo(r, p)
		}
	}
	if r.IsInt() && r.Num().IsInt64() {
		return IntValue(r.Num().Int64())
	}
	f, _ := r.Float64()
	return FloatValue(f)
}
