package labels

import (
	"testing"

	"github.com/ganehag/meterbus-restaurant/internal/records"
)

func TestMedium(t *testing.T) {
	if got := Medium(0x07); got != "Water" {
		t.Fatalf("Medium(0x07) = %s", got)
	}
	if got := Medium(0x04); got != "Heat Out" {
		t.Fatalf("Medium(0x04) = %s", got)
	}
	for code := 0; code < 256; code++ {
		if Medium(byte(code)) == "" {
			t.Fatalf("Medium(0x%02X) is empty", code)
		}
	}
	if got := Medium(0xA5); got != Unknown {
		t.Fatalf("Medium(0xA5) = %s", got)
	}
}

func TestMediumStandardCodes(t *testing.T) {
	cases := map[byte]string{
		0x1D: "Sensor",
		0x22: "Switching Device",
		0x26: "Customer Unit",
		0x31: "Communication Controller",
	}
	for code, want := range cases {
		if got := Medium(code); got != want {
			t.Fatalf("Medium(0x%02X) = %s, want %s", code, got, want)
		}
	}
}

func TestFunction(t *testing.T) {
	if got := Function(records.FunctionMaximum); got != "Maximum Value" {
		t.Fatalf("Function(max) = %s", got)
	}
	if got := Function(records.FunctionType(200)); got != Unknown {
		t.Fatalf("Function(200) = %s", got)
	}
}

func TestVIFTypeTotal(t *testing.T) {
	for i := 0; i < 256; i++ {
		label := VIFType(records.VIFType(i))
		if label == "" {
			t.Fatalf("VIFType(%d) is empty", i)
		}
		if i > 0 && i < records.VIFTypeCount && label == Unknown {
			t.Fatalf("VIFType(%d) has no label", i)
		}
	}
	if got := VIFType(records.VIFVolume); got != "Volume" {
		t.Fatalf("VIFType(volume) = %s", got)
	}
}
