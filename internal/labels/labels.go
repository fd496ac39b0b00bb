// Package labels resolves protocol codes to display strings. Every lookup is
// total: codes without an entry resolve to Unknown.
package labels

import "github.com/ganehag/meterbus-restaurant/internal/records"

// Unknown is returned for any code without a table entry.
const Unknown = "Unknown"

var mediums = map[byte]string{
	0x00: "Other",
	0x01: "Oil",
	0x02: "Electricity",
	0x03: "Gas",
	0x04: "Heat Out",
	0x05: "Steam",
	0x06: "Hot Water",
	0x07: "Water",
	0x08: "Heat Cost",
	0x09: "Compressed Air",
	0x0A: "Cool Out",
	0x0B: "Cool In",
	0x0C: "Heat In",
	0x0D: "Heat Cool",
	0x0E: "Bus",
	0x0F: "Unknown",
	0x10: "Irrigation",
	0x11: "Water Logger",
	0x12: "Gas Logger",
	0x13: "Gas Conversion",
	0x14: "Colorific",
	0x15: "Boil Water",
	0x16: "Cold Water",
	0x17: "Dual Water",
	0x18: "Pressure",
	0x19: "ADC",
	0x1A: "Smoke",
	0x1B: "Room Sensor",
	0x1C: "Gas Detector",
	0x1D: "Sensor",
	0x1E: "Sensor",
	0x1F: "Sensor",
	0x20: "Breaker E",
	0x21: "Valve",
	0x22: "Switching Device",
	0x23: "Switching Device",
	0x24: "Switching Device",
	0x25: "Customer Unit",
	0x26: "Customer Unit",
	0x27: "Customer Unit",
	0x28: "Waste Water",
	0x29: "Garbage",
	0x2A: "Carbon Dioxide",
	0x2B: "Environmental",
	0x30: "Service Unit",
	0x31: "Communication Controller",
	0x32: "Unidirectional Repeater",
	0x33: "Bidirectional Repeater",
	0x36: "RC System",
	0x37: "RC Meter",
}

// Medium returns the display label of a device type / medium code.
func Medium(code byte) string {
	if label, ok := mediums[code]; ok {
		return label
	}
	return Unknown
}

var functions = [...]string{
	records.FunctionInstantaneous:     "Instantaneous Value",
	records.FunctionMaximum:           "Maximum Value",
	records.FunctionMinimum:           "Minimum Value",
	records.FunctionErrorState:        "Error State Value",
	records.FunctionSpecial:           "Special Function",
	records.FunctionFillByte:          "Special Function Fill Byte",
	records.FunctionMoreRecordsFollow: "More Records Follow",
}

// Function returns the display label of a record function.
func Function(f records.FunctionType) string {
	if int(f) < len(functions) {
		return functions[f]
	}
	return Unknown
}

var vifTypes = [records.VIFTypeCount]string{
	records.VIFUnknown:               Unknown,
	records.VIFEnergyWh:              "Energy (Wh)",
	records.VIFEnergyJ:               "Energy (J)",
	records.VIFVolume:                "Volume",
	records.VIFMass:                  "Mass",
	records.VIFOnTime:                "On Time",
	records.VIFOperatingTime:         "Operating Time",
	records.VIFPowerW:                "Power (W)",
	records.VIFPowerJh:               "Power (J/h)",
	records.VIFVolumeFlow:            "Volume Flow",
	records.VIFVolumeFlowExt:         "Volume Flow Ext",
	records.VIFVolumeFlowExtS:        "Volume Flow Ext S",
	records.VIFMassFlow:              "Mass Flow",
	records.VIFFlowTemperature:       "Flow Temperature",
	records.VIFReturnTemperature:     "Return Temperature",
	records.VIFTemperatureDifference: "Temperature Difference",
	records.VIFExternalTemperature:   "External Temperature",
	records.VIFPressure:              "Pressure",
	records.VIFDate:                  "Date",
	records.VIFDateTime:              "Date Time General",
	records.VIFUnitsForHCA:           "Units for HCA",
	records.VIFReservedThirdTable:    "Reserved Third VIFE Table",
	records.VIFAveragingDuration:     "Average Duration",
	records.VIFActualityDuration:     "Actuality Duration",
	records.VIFFabricationNo:         "Fabrication No",
	records.VIFIdentification:        "Identification",
	records.VIFAddress:               "Address",
	records.VIFFirstExtension:        "First Ext VIF Codes",
	records.VIFPlainText:             "Variable VIF",
	records.VIFSecondExtension:       "Second Ext VIF Codes",
	records.VIFThirdExtension:        "Third Ext VIF Codes Res",
	records.VIFAny:                   "Any VIF",
	records.VIFManufacturerSpecific:  "Manufacturer Specific",
	records.VIFAccessNumber:          "Access Number",
	records.VIFMedium:                "Medium",
	records.VIFManufacturer:          "Manufacturer",
	records.VIFParameterSet:          "Parameter Set Identification",
	records.VIFModelVersion:          "Model Version",
	records.VIFHardwareVersion:       "Hardware Version",
	records.VIFFirmwareVersion:       "Firmware Version",
	records.VIFSoftwareVersion:       "Software Version",
	records.VIFCustomerLocation:      "Customer Location",
	records.VIFCustomer:              "Customer",
	records.VIFPassword:              "Password",
	records.VIFErrorFlags:            "Error Flags",
	records.VIFErrorMask:             "Error Mask",
	records.VIFDigitalOutput:         "Digital Output",
	records.VIFDigitalInput:          "Digital Input",
	records.VIFBaudRate:              "Baud Rate",
	records.VIFResponseDelay:         "Response Delay Time",
	records.VIFRetry:                 "Retry",
	records.VIFStorageInterval:       "Storage Interval",
	records.VIFDurationSinceReadout:  "Duration Since Last Readout",
	records.VIFDimensionless:         "Dimensionless",
	records.VIFVoltage:               "Voltage",
	records.VIFCurrent:               "Current",
	records.VIFResetCounter:          "Reset Counter",
	records.VIFCumulationCounter:     "Cumulation Counter",
	records.VIFRemainingBattery:      "Remaining Battery Life",
}

// VIFType returns the display label of a value type.
func VIFType(t records.VIFType) string {
	if int(t) < len(vifTypes) && vifTypes[t] != "" {
		return vifTypes[t]
	}
	return Unknown
}
