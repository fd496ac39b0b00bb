package records

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ganehag/meterbus-restaurant/internal/codec"
	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

func TestParseRecordsVolume(t *testing.T) {
	recs, err := ParseRecords([]byte{0x01, 0x13, 0x0A})
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Type != VIFVolume || r.Unit != UnitM3 || r.Exponent != -3 {
		t.Fatalf("unexpected VIF decode %+v", r)
	}
	if r.Function != FunctionInstantaneous || r.Encoding != EncodingInt || r.DataLength != 1 {
		t.Fatalf("unexpected DIF decode %+v", r)
	}
	if r.Tariff != nil || r.Device != nil {
		t.Fatalf("tariff/device must be absent without DIFE")
	}
	if f, ok := r.Value.Float(); !ok || r.Value.Kind() != codec.KindFloat || f != 0.01 {
		t.Fatalf("value %v (%s), want 0.01", r.Value, r.Value.Kind())
	}
}

func TestParseRecordsExample(t *testing.T) {
	recs, err := ParseRecords(mustHex(t, "0313153100DA023B13018B60043718 02"))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	if v, ok := recs[0].Value.Float(); !ok || v != 12.565 {
		t.Fatalf("record 0 value %v", recs[0].Value)
	}

	r := recs[1]
	if r.Function != FunctionMaximum || r.StorageNumber != 5 || r.Encoding != EncodingBCD {
		t.Fatalf("record 1 DIB %+v", r)
	}
	if r.Tariff == nil || *r.Tariff != 0 || r.Device == nil || *r.Device != 0 {
		t.Fatalf("record 1 tariff/device %v %v", r.Tariff, r.Device)
	}
	if r.Type != VIFVolumeFlow || r.Unit != UnitM3h {
		t.Fatalf("record 1 VIB %+v", r)
	}
	if v, ok := r.Value.Float(); !ok || v != 0.113 {
		t.Fatalf("record 1 value %v", r.Value)
	}

	r = recs[2]
	if r.StorageNumber != 0 || *r.Tariff != 2 || *r.Device != 1 {
		t.Fatalf("record 2 DIB storage=%d tariff=%d device=%d", r.StorageNumber, *r.Tariff, *r.Device)
	}
	if v, ok := r.Value.Int(); !ok || v != 218370 || r.Unit != UnitWh {
		t.Fatalf("record 2 value %v %s", r.Value, r.Unit)
	}
	for i, rec := range recs {
		if rec.Index != i {
			t.Fatalf("record %d has index %d", i, rec.Index)
		}
	}
}

func TestDIFEChainBound(t *testing.T) {
	payload := []byte{0x81}
	for i := 0; i < 9; i++ {
		payload = append(payload, 0x80)
	}
	ok := append(append([]byte(nil), payload...), 0x00, 0x13, 0x0A)
	if _, err := ParseRecords(ok); err != nil {
		t.Fatalf("10 DIFE bytes must decode: %v", err)
	}

	overflow := append(append([]byte(nil), payload...), 0x80, 0x00, 0x13, 0x0A)
	_, err := ParseRecords(overflow)
	var difErr *decodeerr.DIFOverflowError
	if !errors.As(err, &difErr) {
		t.Fatalf("expected DIFOverflowError, got %v", err)
	}
	if difErr.Offset != 11 {
		t.Fatalf("overflow offset %d", difErr.Offset)
	}

	endless := make([]byte, 64)
	for i := range endless {
		endless[i] = 0xFF &^ 0x0F
	}
	if _, err := ParseRecords(endless); !errors.As(err, &difErr) {
		t.Fatalf("expected DIFOverflowError on endless chain, got %v", err)
	}
}

func TestVIFEChainBound(t *testing.T) {
	payload := []byte{0x01, 0x93}
	for i := 0; i < 10; i++ {
		payload = append(payload, 0x80)
	}
	payload = append(payload, 0x00, 0x0A)
	_, err := ParseRecords(payload)
	var vifErr *decodeerr.VIFOverflowError
	if !errors.As(err, &vifErr) {
		t.Fatalf("expected VIFOverflowError, got %v", err)
	}
}

func TestTruncated(t *testing.T) {
	cases := []struct {
		name    string
		payload []byte
		need    int
		have    int
	}{
		{"data", []byte{0x04, 0x13, 0x01, 0x02}, 4, 2},
		{"dife", []byte{0x81}, 1, 0},
		{"vif", []byte{0x01}, 1, 0},
		{"lvar", []byte{0x0D, 0x79}, 1, 0},
		{"variable data", []byte{0x0D, 0x79, 0x05, 0x41}, 5, 1},
		{"plain text unit", []byte{0x01, 0x7C, 0x03, 0x68}, 3, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRecords(tc.payload)
			var trErr *decodeerr.TruncatedRecordError
			if !errors.As(err, &trErr) {
				t.Fatalf("expected TruncatedRecordError, got %v", err)
			}
			if trErr.Need != tc.need || trErr.Have != tc.have {
				t.Fatalf("need/have %d/%d, want %d/%d", trErr.Need, trErr.Have, tc.need, tc.have)
			}
		})
	}
}

func TestSpecialFunctions(t *testing.T) {
	it := NewIterator([]byte{0x2F, 0x2F, 0x01, 0x13, 0x0A, 0x2F, 0x0F, 0x01, 0x02, 0x03})
	var recs []Record
	for it.Next() {
		recs = append(recs, it.Record())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterate: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	special := recs[1]
	if special.Function != FunctionSpecial || !special.Terminal() || special.Index != 1 {
		t.Fatalf("unexpected special record %+v", special)
	}
	if s, ok := special.Value.Text(); !ok || s != "01 02 03" {
		t.Fatalf("special value %v", special.Value)
	}
	if it.Next() {
		t.Fatalf("iterator must stay exhausted")
	}

	recs, err := ParseRecords([]byte{0x1F})
	if err != nil {
		t.Fatalf("more records follow: %v", err)
	}
	if len(recs) != 1 || recs[0].Function != FunctionMoreRecordsFollow {
		t.Fatalf("unexpected more-records-follow decode %+v", recs)
	}

	recs, err = ParseRecords([]byte{0x2F, 0x2F, 0x2F})
	if err != nil || len(recs) != 0 {
		t.Fatalf("fill only payload: %v %v", recs, err)
	}
}

func TestValueEncodings(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		typ     VIFType
		unit    Unit
		want    codec.Value
	}{
		{"ascii", "0D7903434241", VIFIdentification, UnitNone, codec.StringValue("ABC")},
		{"variable bcd", "0D13C24523", VIFVolume, UnitM3, codec.FloatValue(2.345)},
		{"variable negative bcd", "0D13D24523", VIFVolume, UnitM3, codec.FloatValue(-2.345)},
		{"variable binary", "0D16E20A00", VIFVolume, UnitM3, codec.IntValue(10)},
		{"real", "052B0000C03F", VIFPowerW, UnitW, codec.FloatValue(1.5)},
		{"bcd12", "0E7812345678 9012", VIFFabricationNo, UnitNone, codec.IntValue(129078563412)},
		{"int48", "066D052728 7E2A00", VIFDateTime, UnitDateTime, codec.StringValue("2019-10-30T08:39:05")},
		{"date", "026C9F2C", VIFDate, UnitDate, codec.StringValue("2020-12-31")},
		{"datetime", "046D27287E2A", VIFDateTime, UnitDateTime, codec.StringValue("2019-10-30T08:39:00")},
		{"invalid date falls back", "026C0000", VIFDate, UnitDate, codec.IntValue(0)},
		{"on time hours", "0122 05", VIFOnTime, UnitHours, codec.IntValue(5)},
		{"flow temperature", "025B E803", VIFFlowTemperature, UnitCelsius, codec.IntValue(1000)},
		{"negative int", "0158 9C", VIFFlowTemperature, UnitCelsius, codec.FloatValue(-0.1)},
		{"volts", "02FD49E600", VIFVoltage, UnitVolt, codec.IntValue(230)},
		{"MWh", "04FB01 0A000000", VIFEnergyWh, UnitWh, codec.IntValue(10000000)},
		{"multiplicative vife", "0193750A", VIFVolume, UnitM3, codec.FloatValue(0.001)},
		{"unknown extension", "01FD7E0A", VIFUnknown, UnitNone, codec.IntValue(10)},
		{"manufacturer vif", "01FF01 0A", VIFManufacturerSpecific, UnitNone, codec.IntValue(10)},
		{"selection", "0813", VIFVolume, UnitM3, codec.Null},
		{"no data", "0013", VIFVolume, UnitM3, codec.Null},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := ParseRecords(mustHex(t, tc.payload))
			if err != nil {
				t.Fatalf("ParseRecords: %v", err)
			}
			if len(recs) != 1 {
				t.Fatalf("expected 1 record, got %d", len(recs))
			}
			r := recs[0]
			if r.Type != tc.typ || r.Unit != tc.unit {
				t.Fatalf("type/unit %d %q, want %d %q", r.Type, r.Unit, tc.typ, tc.unit)
			}
			if r.Value != tc.want {
				t.Fatalf("value %v (%s), want %v (%s)", r.Value, r.Value.Kind(), tc.want, tc.want.Kind())
			}
		})
	}
}

func TestPlainTextVIF(t *testing.T) {
	recs, err := ParseRecords([]byte{0x01, 0x7C, 0x03, 0x68, 0x57, 0x6B, 0x0A})
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	r := recs[0]
	if r.Type != VIFPlainText || r.PlainTextUnit != "kWh" {
		t.Fatalf("plain text VIF %+v", r)
	}
	if v, ok := r.Value.Int(); !ok || v != 10 {
		t.Fatalf("value %v", r.Value)
	}
}

func TestPlainTextVIFAfterVIFE(t *testing.T) {
	recs, err := ParseRecords([]byte{0x01, 0xFC, 0x74, 0x03, 0x68, 0x57, 0x6B, 0x0A})
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.PlainTextUnit != "kWh" || len(r.VIFE) != 1 || r.Exponent != -2 {
		t.Fatalf("plain text VIF with VIFE %+v", r)
	}
	if r.Value != codec.FloatValue(0.1) {
		t.Fatalf("value %v (%s), want 0.1", r.Value, r.Value.Kind())
	}
}

func TestManufacturerSpecificDIF(t *testing.T) {
	for _, dif := range []byte{0x7F, 0xFF} {
		recs, err := ParseRecords([]byte{dif, 0x01, 0x13, 0x0A})
		if err != nil {
			t.Fatalf("DIF %02X: %v", dif, err)
		}
		if len(recs) != 1 {
			t.Fatalf("DIF %02X: expected 1 record, got %d", dif, len(recs))
		}
		r := recs[0]
		if r.Function != FunctionSpecial || !r.Terminal() || r.DataLength != 3 {
			t.Fatalf("DIF %02X: unexpected record %+v", dif, r)
		}
		if s, ok := r.Value.Text(); !ok || s != "01 13 0A" {
			t.Fatalf("DIF %02X: value %v", dif, r.Value)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	var encErr *decodeerr.UnsupportedEncodingError
	if _, err := ParseRecords([]byte{0x0D, 0x13, 0xF0}); !errors.As(err, &encErr) || encErr.Offset != 2 {
		t.Fatalf("expected UnsupportedEncodingError at 2, got %v", err)
	}
	var bcdErr *decodeerr.BCDFormatError
	if _, err := ParseRecords([]byte{0x01, 0x13, 0x0A, 0x09, 0x13, 0xAB}); !errors.As(err, &bcdErr) || bcdErr.Offset != 5 {
		t.Fatalf("expected BCDFormatError at 5, got %v", err)
	}
	if _, err := ParseRecords([]byte{0x0D, 0x13, 0xD2, 0x45, 0xF3}); !errors.As(err, &bcdErr) || bcdErr.Offset != 4 || bcdErr.Byte != 0xF3 {
		t.Fatalf("expected BCDFormatError at 4 for signed negative LVAR data, got %v", err)
	}
}

func TestIteratorStopsOnError(t *testing.T) {
	it := NewIterator([]byte{0x01, 0x13, 0x0A, 0x04, 0x13, 0x01})
	if !it.Next() {
		t.Fatalf("first record must decode: %v", it.Err())
	}
	if it.Next() {
		t.Fatalf("second record is truncated")
	}
	if it.Err() == nil {
		t.Fatalf("expected error")
	}
	if it.Next() {
		t.Fatalf("iterator must not resume after error")
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	clean := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			clean = append(clean, s[i])
		}
	}
	b, err := hex.DecodeString(string(clean))
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	return b
}
