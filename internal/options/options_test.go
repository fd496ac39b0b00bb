package options

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeHex(t *testing.T) {
	data, err := DecodeHex(" |68_03 03 68| \n")
	if err != nil {
		t.Fatalf("DecodeHex: %v", err)
	}
	if len(data) != 4 || data[0] != 0x68 || data[1] != 0x03 {
		t.Fatalf("DecodeHex = % X", data)
	}
	data, err = DecodeHex("0xe5")
	if err != nil || len(data) != 1 || data[0] != 0xE5 {
		t.Fatalf("DecodeHex(0xe5) = % X %v", data, err)
	}
	for _, bad := range []string{"ABC", "", "  ", "ZZ"} {
		if _, err := DecodeHex(bad); err == nil {
			t.Fatalf("DecodeHex(%q) should fail", bad)
		}
	}
	if _, err := DecodeHex(" | "); !errors.Is(err, ErrEmptyHex) {
		t.Fatalf("expected ErrEmptyHex, got %v", err)
	}
}

func TestParseKeyHex(t *testing.T) {
	key, err := ParseKeyHex(strings.Repeat("0F", 16))
	if err != nil || len(key) != 16 || key[0] != 0x0F {
		t.Fatalf("ParseKeyHex: % X %v", key, err)
	}
	key, err = ParseKeyHex("   ")
	if err != nil || key != nil {
		t.Fatalf("blank key: % X %v", key, err)
	}
	if _, err := ParseKeyHex("0011"); err == nil {
		t.Fatalf("short key should fail")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAuto, "FRAME": ModeFrame, " body ": ModeBody, "auto": ModeAuto} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q %v", in, got, err)
		}
	}
	if _, err := ParseMode("serial"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}
