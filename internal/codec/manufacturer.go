package codec

import "fmt"

// Manufacturer unpacks the 16 bit FLAG association code into its three
// letters. Each 5 bit group maps to a letter by adding 64.
func Manufacturer(code uint16) string {
	return string([]byte{
		byte((code>>10)&0x1F) + 64,
		byte((code>>5)&0x1F) + 64,
		byte(code&0x1F) + 64,
	})
}

// ManufacturerCode packs a three letter code.
func ManufacturerCode(letters string) (uint16, error) {
	if len(letters) != 3 {
		return 0, fmt.Errorf("manufacturer code must have 3 letters, got %q", letters)
	}
	var code uint16
	for i := 0; i < 3; i++ {
		c := letters[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("manufacturer code %q: letter %q out of range", letters, c)
		}
		code = code<<5 | uint16(c-64)
	}
	return code, nil
}
