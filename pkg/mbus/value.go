package mbus

import "github.com/ganehag/meterbus-restaurant/internal/codec"

// Value is a record value: null, an integer, a float or a string.
type Value = codec.Value

// Kind tells which variant a Value holds.
type Kind = codec.Kind

const (
	KindNull   = codec.KindNull
	KindInt    = codec.KindInt
	KindFloat  = codec.KindFloat
	KindString = codec.KindString
)

// Value constructors.
var (
	IntValue    = codec.IntValue
	FloatValue  = codec.FloatValue
	StringValue = codec.StringValue
)
