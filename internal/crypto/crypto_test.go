package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"testing"

	"github.com/ganehag/meterbus-restaurant/internal/frame"
)

var testKey = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
}

func plaintextPayload() []byte {
	p := []byte{0x2F, 0x2F, 0x01, 0x13, 0x0A}
	for len(p) < aes.BlockSize {
		p = append(p, 0x2F)
	}
	return p
}

func encryptedTelegram(t *testing.T, signature uint16) frame.Telegram {
	t.Helper()
	body, err := frame.EncodeBody(frame.Telegram{
		CI: frame.CIResponseLong,
		Header: frame.Header{
			Kind:         frame.HeaderLong,
			ID:           12345678,
			Manufacturer: 0x2C2D,
			Version:      0x19,
			Medium:       0x07,
			AccessNumber: 0x2A,
			Signature:    signature,
		},
		Payload: plaintextPayload(),
	})
	if err != nil {
		t.Fatalf("EncodeBody: %v", err)
	}
	tg, err := frame.ParseBody(body)
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	iv, err := buildIV(&tg)
	if err != nil {
		t.Fatalf("buildIV: %v", err)
	}
	block, err := aes.NewCipher(testKey)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(tg.Payload, tg.Payload)
	return tg
}

func TestDecrypt(t *testing.T) {
	tg := encryptedTelegram(t, 0x0510)
	if tg.Header.SecurityMode() != securityModeAesCbcIV {
		t.Fatalf("telegram should announce mode 5, got %d", tg.Header.SecurityMode())
	}
	if bytes.Equal(tg.Payload, plaintextPayload()) {
		t.Fatalf("payload was not encrypted")
	}
	if err := Decrypt(&tg, testKey); err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(tg.Payload, plaintextPayload()) {
		t.Fatalf("Decrypt = % X", tg.Payload)
	}
}

func TestDecryptErrors(t *testing.T) {
	tg := encryptedTelegram(t, 0x0510)
	if err := Decrypt(&tg, nil); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
	wrong := bytes.Repeat([]byte{0xAA}, 16)
	if err := Decrypt(&tg, wrong); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	tg = encryptedTelegram(t, 0x0710)
	if err := Decrypt(&tg, testKey); !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("expected ErrUnsupportedMode, got %v", err)
	}
}

func TestDecryptPlain(t *testing.T) {
	tg, err := frame.ParseBody([]byte{0x78, 0x01, 0x13, 0x0A})
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}
	if tg.Header.SecurityMode() != securityModeNone {
		t.Fatalf("plain telegram announces mode %d", tg.Header.SecurityMode())
	}
	if err := Decrypt(&tg, nil); err != nil {
		t.Fatalf("Decrypt plain: %v", err)
	}
}
