package codec

import (
	"encoding/hex"
	"fmt"
	"time"
)

// DecodeTypeFDateTime decodes the four byte type F timestamp (minute
// resolution).
func DecodeTypeFDateTime(b []byte) (time.Time, error) {
	if len(b) != 4 {
		return time.Time{}, fmt.Errorf("type F datetime requires 4 bytes, got %d", len(b))
	}
	if b[0]&0x80 != 0 {
		return time.Time{}, fmt.Errorf("type F datetime flagged invalid: %s", hex.EncodeToString(b))
	}
	minute := int(b[0] & 0x3F)
	hour := int(b[1] & 0x1F)
	day := int(b[2] & 0x1F)
	month := int(b[3] & 0x0F)
	year := 2000 + (int((b[3]>>4)&0x0F)<<3 | int((b[2]>>5)&0x07))
	if minute > 59 || hour > 23 || !validDay(day, month) {
		return time.Time{}, fmt.Errorf("invalid type F datetime encoding: %s", hex.EncodeToString(b))
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

// DecodeTypeGDate decodes the two byte type G date.
func DecodeTypeGDate(b []byte) (time.Time, error) {
	if len(b) != 2 {
		return time.Time{}, fmt.Errorf("type G date requires 2 bytes, got %d", len(b))
	}
	day := int(b[0] & 0x1F)
	month := int(b[1] & 0x0F)
	year := 2000 + (int((b[1]>>4)&0x0F)<<3 | int((b[0]>>5)&0x07))
	if !validDay(day, month) {
		return time.Time{}, fmt.Errorf("invalid type G date encoding: %s", hex.EncodeToString(b))
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// DecodeTypeIDateTime decodes the six byte type I timestamp (second
// resolution).
func DecodeTypeIDateTime(b []byte) (time.Time, error) {
	if len(b) != 6 {
		return time.Time{}, fmt.Errorf("type I datetime requires 6 bytes, got %d", len(b))
	}
	if b[1]&0x80 != 0 {
		return time.Time{}, fmt.Errorf("type I datetime flagged invalid: %s", hex.EncodeToString(b))
	}
	second := int(b[0] & 0x3F)
	minute := int(b[1] & 0x3F)
	hour := int(b[2] & 0x1F)
	day := int(b[3] & 0x1F)
	month := int(b[4] & 0x0F)
	year := 2000 + (int((b[4]>>4)&0x0F)<<3 | int((b[3]>>5)&0x07))
	if second > 59 || minute > 59 || hour > 23 || !validDay(day, month) {
		return time.Time{}, fmt.Errorf("invalid type I datetime encoding: %s", hex.EncodeToString(b))
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

func validDay(day, month int) bool {
	return day >= 1 && day <= 31 && month >= 1 && month <= 12
}
