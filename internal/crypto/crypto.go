package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/ganehag/meterbus-restaurant/internal/frame"
)

var (
	ErrKeyRequired     = errors.New("encrypted telegram: AES key required (use --key)")
	ErrInvalidKey      = errors.New("encrypted telegram: AES key rejected (bad plaintext)")
	ErrUnsupportedMode = errors.New("encrypted telegram: unsupported security mode")
)

const (
	securityModeNone     = 0
	securityModeAesCbcIV = 5
	plaintextMarker      = 0x2F
)

// Decrypt replaces the payload with its plaintext when the signature word
// announces security mode 5. Telegrams without encryption are left as is.
func Decrypt(t *frame.Telegram, key []byte) error {
	mode := t.Header.SecurityMode()
	switch mode {
	case securityModeNone:
		return nil
	case securityModeAesCbcIV:
	default:
		return fmt.Errorf("%w %d", ErrUnsupportedMode, mode)
	}
	if len(key) == 0 {
		return ErrKeyRequired
	}
	iv, err := buildIV(t)
	if err != nil {
		return err
	}
	return decryptCBC(t, key, iv)
}

func decryptCBC(t *frame.Telegram, key, iv []byte) error {
	required := encryptedPrefixLen(t)
	if required == 0 {
		return ErrInvalidKey
	}
	if required > len(t.Payload) {
		return fmt.Errorf("encrypted section exceeds payload length (%d > %d)", required, len(t.Payload))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("invalid AES key: %w", err)
	}
	plaintext := make([]byte, len(t.Payload))
	copy(plaintext, t.Payload)
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext[:required], plaintext[:required])
	if plaintext[0] != plaintextMarker || plaintext[1] != plaintextMarker {
		return ErrInvalidKey
	}
	t.Payload = plaintext
	return nil
}

// buildIV derives the mode 5 initialisation vector from the long header:
// manufacturer, identification, version and medium followed by eight copies
// of the access number.
func buildIV(t *frame.Telegram) ([]byte, error) {
	h := t.Header
	if h.Kind != frame.HeaderLong || len(t.Raw) < 5 {
		return nil, fmt.Errorf("%w: mode 5 needs a long header for the IV", ErrUnsupportedMode)
	}
	iv := make([]byte, aes.BlockSize)
	iv[0] = byte(h.Manufacturer)
	iv[1] = byte(h.Manufacturer >> 8)
	copy(iv[2:6], t.Raw[1:5])
	iv[6] = h.Version
	iv[7] = h.Medium
	for i := 8; i < aes.BlockSize; i++ {
		iv[i] = h.AccessNumber
	}
	return iv, nil
}

func encryptedPrefixLen(t *frame.Telegram) int {
	payloadLen := len(t.Payload)
	if payloadLen < aes.BlockSize {
		return 0
	}
	if blocks := t.Header.EncryptedBlocks(); blocks > 0 {
		return blocks * aes.BlockSize
	}
	return payloadLen - payloadLen%aes.BlockSize
}
