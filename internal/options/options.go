// Package options parses the textual inputs shared by the CLI and the HTTP
// adapter: hex telegrams, AES keys and the decode mode.
package options

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyHex is returned by DecodeHex for input without any hex digits.
var ErrEmptyHex = errors.New("hex telegram is empty")

// Mode selects the entry point used to decode a telegram.
type Mode string

const (
	// ModeFrame expects a complete frame with start, checksum and stop bytes.
	ModeFrame Mode = "frame"
	// ModeBody expects a bare body starting at the CI field.
	ModeBody Mode = "body"
	// ModeAuto tries a frame first and falls back to a body.
	ModeAuto Mode = "auto"
)

// ParseMode validates a mode name. An empty name selects ModeAuto.
func ParseMode(input string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(input))); m {
	case "":
		return ModeAuto, nil
	case ModeFrame, ModeBody, ModeAuto:
		return m, nil
	default:
		return "", fmt.Errorf("unknown decode mode %q (want frame, body or auto)", input)
	}
}

// ParseKeyHex validates and decodes a 32-hex-digit AES key string.
func ParseKeyHex(input string) ([]byte, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	clean := stripWhitespace(input)
	if len(clean) != 32 {
		return nil, fmt.Errorf("AES key must be 32 hex digits (16 bytes), got %d", len(clean))
	}
	dst := make([]byte, 16)
	if _, err := hex.Decode(dst, []byte(clean)); err != nil {
		return nil, fmt.Errorf("invalid AES key hex: %w", err)
	}
	return dst, nil
}

// DecodeHex turns a hex telegram into bytes. Whitespace, '|' and '_'
// separators and a leading 0x are ignored.
func DecodeHex(input string) ([]byte, error) {
	clean := strings.ToUpper(stripSeparators(input))
	clean = strings.TrimPrefix(clean, "0X")
	if clean == "" {
		return nil, ErrEmptyHex
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex telegram must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
