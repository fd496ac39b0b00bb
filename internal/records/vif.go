package records

// VIFType names the quantity coded by the VIF (or by its extension table
// entry). Display labels live in package labels.
type VIFType uint8

const (
	VIFUnknown VIFType = iota
	VIFEnergyWh
	VIFEnergyJ
	VIFVolume
	VIFMass
	VIFOnTime
	VIFOperatingTime
	VIFPowerW
	VIFPowerJh
	VIFVolumeFlow
	VIFVolumeFlowExt
	VIFVolumeFlowExtS
	VIFMassFlow
	VIFFlowTemperature
	VIFReturnTemperature
	VIFTemperatureDifference
	VIFExternalTemperature
	VIFPressure
	VIFDate
	VIFDateTime
	VIFUnitsForHCA
	VIFReservedThirdTable
	VIFAveragingDuration
	VIFActualityDuration
	VIFFabricationNo
	VIFIdentification
	VIFAddress
	VIFFirstExtension
	VIFPlainText
	VIFSecondExtension
	VIFThirdExtension
	VIFAny
	VIFManufacturerSpecific

	// Second extension table (VIF 0xFD).
	VIFAccessNumber
	VIFMedium
	VIFManufacturer
	VIFParameterSet
	VIFModelVersion
	VIFHardwareVersion
	VIFFirmwareVersion
	VIFSoftwareVersion
	VIFCustomerLocation
	VIFCustomer
	VIFPassword
	VIFErrorFlags
	VIFErrorMask
	VIFDigitalOutput
	VIFDigitalInput
	VIFBaudRate
	VIFResponseDelay
	VIFRetry
	VIFStorageInterval
	VIFDurationSinceReadout
	VIFDimensionless
	VIFVoltage
	VIFCurrent
	VIFResetCounter
	VIFCumulationCounter
	VIFRemainingBattery

	vifTypeCount
)

// VIFTypeCount is the number of defined VIF types.
const VIFTypeCount = int(vifTypeCount)

// Unit is the closed set of physical units a record can carry.
type Unit string

const (
	UnitNone          Unit = ""
	UnitWh            Unit = "Wh"
	UnitJ             Unit = "J"
	UnitM3            Unit = "m^3"
	UnitKg            Unit = "kg"
	UnitSeconds       Unit = "seconds"
	UnitMinutes       Unit = "minutes"
	UnitHours         Unit = "hours"
	UnitDays          Unit = "days"
	UnitMonths        Unit = "months"
	UnitYears         Unit = "years"
	UnitW             Unit = "W"
	UnitJh            Unit = "J/h"
	UnitM3h           Unit = "m^3/h"
	UnitM3min         Unit = "m^3/min"
	UnitM3s           Unit = "m^3/s"
	UnitKgh           Unit = "kg/h"
	UnitCelsius       Unit = "°C"
	UnitKelvin        Unit = "K"
	UnitBar           Unit = "bar"
	UnitDate          Unit = "date"
	UnitDateTime      Unit = "date time"
	UnitHCA           Unit = "HCA"
	UnitVolt          Unit = "V"
	UnitAmpere        Unit = "A"
	UnitBaud          Unit = "baud"
	UnitBitTimes      Unit = "bit times"
	UnitDimensionless Unit = "dimensionless"
)

type vifInfo struct {
	typ      VIFType
	unit     Unit
	exponent int
}

var durationUnits = [4]Unit{UnitSeconds, UnitMinutes, UnitHours, UnitDays}

// primaryVIF is indexed by the VIF with its extension bit cleared.
var primaryVIF = buildPrimaryVIF()

func buildPrimaryVIF() [128]vifInfo {
	var t [128]vifInfo
	span := func(base, n int, typ VIFType, unit Unit, offset int) {
		for k := 0; k < n; k++ {
			t[base+k] = vifInfo{typ: typ, unit: unit, exponent: k + offset}
		}
	}
	durations := func(base int, typ VIFType) {
		for k, unit := range durationUnits {
			t[base+k] = vifInfo{typ: typ, unit: unit}
		}
	}
	span(0x00, 8, VIFEnergyWh, UnitWh, -3)
	span(0x08, 8, VIFEnergyJ, UnitJ, 0)
	span(0x10, 8, VIFVolume, UnitM3, -6)
	span(0x18, 8, VIFMass, UnitKg, -3)
	durations(0x20, VIFOnTime)
	durations(0x24, VIFOperatingTime)
	span(0x28, 8, VIFPowerW, UnitW, -3)
	span(0x30, 8, VIFPowerJh, UnitJh, 0)
	span(0x38, 8, VIFVolumeFlow, UnitM3h, -6)
	span(0x40, 8, VIFVolumeFlowExt, UnitM3min, -7)
	span(0x48, 8, VIFVolumeFlowExtS, UnitM3s, -9)
	span(0x50, 8, VIFMassFlow, UnitKgh, -3)
	span(0x58, 4, VIFFlowTemperature, UnitCelsius, -3)
	span(0x5C, 4, VIFReturnTemperature, UnitCelsius, -3)
	span(0x60, 4, VIFTemperatureDifference, UnitKelvin, -3)
	span(0x64, 4, VIFExternalTemperature, UnitCelsius, -3)
	span(0x68, 4, VIFPressure, UnitBar, -3)
	t[0x6C] = vifInfo{typ: VIFDate, unit: UnitDate}
	t[0x6D] = vifInfo{typ: VIFDateTime, unit: UnitDateTime}
	t[0x6E] = vifInfo{typ: VIFUnitsForHCA, unit: UnitHCA}
	t[0x6F] = vifInfo{typ: VIFReservedThirdTable}
	durations(0x70, VIFAveragingDuration)
	durations(0x74, VIFActualityDuration)
	t[0x78] = vifInfo{typ: VIFFabricationNo}
	t[0x79] = vifInfo{typ: VIFIdentification}
	t[0x7A] = vifInfo{typ: VIFAddress}
	t[0x7B] = vifInfo{typ: VIFFirstExtension}
	t[0x7C] = vifInfo{typ: VIFPlainText}
	t[0x7D] = vifInfo{typ: VIFSecondExtension}
	t[0x7E] = vifInfo{typ: VIFAny}
	t[0x7F] = vifInfo{typ: VIFManufacturerSpecific}
	return t
}

// firstExtensionVIF holds the codes following VIF 0xFB. Larger units are
// folded into the base unit's exponent (MWh -> Wh * 10^6).
var firstExtensionVIF = map[byte]vifInfo{
	0x00: {VIFEnergyWh, UnitWh, 5},
	0x01: {VIFEnergyWh, UnitWh, 6},
	0x08: {VIFEnergyJ, UnitJ, 8},
	0x09: {VIFEnergyJ, UnitJ, 9},
	0x10: {VIFVolume, UnitM3, 2},
	0x11: {VIFVolume, UnitM3, 3},
	0x18: {VIFMass, UnitKg, 5},
	0x19: {VIFMass, UnitKg, 6},
	0x28: {VIFPowerW, UnitW, 5},
	0x29: {VIFPowerW, UnitW, 6},
	0x30: {VIFPowerJh, UnitJh, 8},
	0x31: {VIFPowerJh, UnitJh, 9},
}

// secondExtensionVIF holds the codes following VIF 0xFD.
var secondExtensionVIF = buildSecondExtensionVIF()

func buildSecondExtensionVIF() map[byte]vifInfo {
	t := map[byte]vifInfo{
		0x08: {typ: VIFAccessNumber},
		0x09: {typ: VIFMedium},
		0x0A: {typ: VIFManufacturer},
		0x0B: {typ: VIFParameterSet},
		0x0C: {typ: VIFModelVersion},
		0x0D: {typ: VIFHardwareVersion},
		0x0E: {typ: VIFFirmwareVersion},
		0x0F: {typ: VIFSoftwareVersion},
		0x10: {typ: VIFCustomerLocation},
		0x11: {typ: VIFCustomer},
		0x16: {typ: VIFPassword},
		0x17: {typ: VIFErrorFlags},
		0x18: {typ: VIFErrorMask},
		0x1A: {typ: VIFDigitalOutput},
		0x1B: {typ: VIFDigitalInput},
		0x1C: {typ: VIFBaudRate, unit: UnitBaud},
		0x1D: {typ: VIFResponseDelay, unit: UnitBitTimes},
		0x1E: {typ: VIFRetry},
		0x28: {typ: VIFStorageInterval, unit: UnitMonths},
		0x29: {typ: VIFStorageInterval, unit: UnitYears},
		0x3A: {typ: VIFDimensionless, unit: UnitDimensionless},
		0x60: {typ: VIFResetCounter},
		0x61: {typ: VIFCumulationCounter},
		0x74: {typ: VIFRemainingBattery, unit: UnitDays},
	}
	for k, unit := range durationUnits {
		t[byte(0x24+k)] = vifInfo{typ: VIFStorageInterval, unit: unit}
		t[byte(0x2C+k)] = vifInfo{typ: VIFDurationSinceReadout, unit: unit}
	}
	for n := 0; n < 16; n++ {
		t[byte(0x40+n)] = vifInfo{typ: VIFVoltage, unit: UnitVolt, exponent: n - 9}
		t[byte(0x50+n)] = vifInfo{typ: VIFCurrent, unit: UnitAmpere, exponent: n - 12}
	}
	return t
}

func lookupExtension(table map[byte]vifInfo, code byte) vifInfo {
	if info, ok := table[code&0x7F]; ok {
		return info
	}
	return vifInfo{typ: VIFUnknown}
}

// applyOrthogonal folds a combinable VIFE into info. Only the
// multiplicative correction factors change the decoded value.
func applyOrthogonal(info *vifInfo, code byte) {
	switch c := code & 0x7F; {
	case c >= 0x70 && c <= 0x77:
		info.exponent += int(c&0x07) - 6
	case c == 0x7D:
		info.exponent += 3
	}
}
