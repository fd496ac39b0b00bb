package records

import (
	"github.com/ganehag/meterbus-restaurant/internal/decodeerr"
)

const (
	vifFirstExtension  = 0xFB
	vifSecondExtension = 0xFD
	vifThirdExtension  = 0xEF
	vifPlainText       = 0x7C
	vifManufacturer    = 0x7F
	vifeManufacturer   = 0x7F
)

// Iterator walks the records of one payload. It is not restartable: decode
// the payload again with a fresh Iterator.
//
//	it := records.NewIterator(payload)
//	for it.Next() {
//		rec := it.Record()
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	buf   []byte
	pos   int
	index int
	rec   Record
	err   error
	done  bool
}

// NewIterator returns an iterator over payload. The payload is borrowed,
// records alias it.
func NewIterator(payload []byte) *Iterator {
	return &Iterator{buf: payload}
}

// Next decodes the following record. It returns false at the end of the
// payload, after a terminal record or on error.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	for it.pos < len(it.buf) && it.buf[it.pos] == difIdle {
		it.pos++
	}
	if it.pos >= len(it.buf) {
		it.done = true
		return false
	}
	rec, err := it.decode()
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if rec.Terminal() {
		it.done = true
	}
	it.rec = rec
	it.index++
	return true
}

// Record returns the record decoded by the last successful Next.
func (it *Iterator) Record() Record {
	return it.rec
}

// Err returns the error that stopped iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// ParseRecords decodes every record of payload in order.
func ParseRecords(payload []byte) ([]Record, error) {
	out := make([]Record, 0, 8)
	it := NewIterator(payload)
	for it.Next() {
		out = append(out, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (it *Iterator) decode() (Record, error) {
	start := it.pos
	dif := it.buf[it.pos]
	it.pos++
	rec := Record{Index: it.index, Offset: start, DIF: dif}

	if dif&difDataField == difSpecial {
		return it.special(rec), nil
	}

	block := newDataBlock(dif)
	for ext := dif&extensionBit != 0; ext; {
		if block.dife == decodeerr.MaxExtensions {
			return Record{}, &decodeerr.DIFOverflowError{Offset: it.pos}
		}
		dife, err := it.take()
		if err != nil {
			return Record{}, err
		}
		rec.DIFE = append(rec.DIFE, dife)
		block.extend(dife)
		ext = dife&extensionBit != 0
	}
	rec.Function = block.function
	rec.StorageNumber = block.storage
	if block.dife > 0 {
		tariff, device := block.tariff, block.device
		rec.Tariff = &tariff
		rec.Device = &device
	}

	info, err := it.valueBlock(&rec)
	if err != nil {
		return Record{}, err
	}
	rec.Type = info.typ
	rec.Unit = info.unit
	rec.Exponent = info.exponent

	field := dataFields[dif&difDataField]
	rec.Encoding = field.encoding
	length := field.length
	var lvar byte
	if field.encoding == EncodingVariableLength {
		if lvar, err = it.take(); err != nil {
			return Record{}, err
		}
		if length, err = variableLength(lvar, it.pos-1); err != nil {
			return Record{}, err
		}
	}
	data, err := it.takeN(length)
	if err != nil {
		return Record{}, err
	}
	rec.DataLength = length
	rec.Data = data
	rec.Value, err = decodeValue(rec, lvar, it.pos-length)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// special consumes the remainder of the payload as raw manufacturer data.
func (it *Iterator) special(rec Record) Record {
	rec.Function = FunctionSpecial
	if rec.DIF == difMoreRecords {
		rec.Function = FunctionMoreRecordsFollow
	}
	rec.Encoding = EncodingSpecial
	rec.Type = VIFManufacturerSpecific
	rec.Data = it.buf[it.pos:]
	rec.DataLength = len(rec.Data)
	rec.Value = rawValue(rec.Data)
	it.pos = len(it.buf)
	return rec
}

// valueBlock reads the VIF, an optional extension table code, the VIFE
// chain and an optional plain text unit.
func (it *Iterator) valueBlock(rec *Record) (vifInfo, error) {
	vif, err := it.take()
	if err != nil {
		return vifInfo{}, err
	}
	rec.VIF = vif
	vifes := 0
	nextVIFE := func() (byte, error) {
		if vifes == decodeerr.MaxExtensions {
			return 0, &decodeerr.VIFOverflowError{Offset: it.pos}
		}
		code, err := it.take()
		if err != nil {
			return 0, err
		}
		vifes++
		rec.VIFE = append(rec.VIFE, code)
		return code, nil
	}

	var info vifInfo
	ext := vif&extensionBit != 0
	switch vif {
	case vifFirstExtension, vifSecondExtension, vifThirdExtension:
		code, err := nextVIFE()
		if err != nil {
			return vifInfo{}, err
		}
		switch vif {
		case vifFirstExtension:
			info = lookupExtension(firstExtensionVIF, code)
		case vifSecondExtension:
			info = lookupExtension(secondExtensionVIF, code)
		default:
			info = vifInfo{typ: VIFThirdExtension}
		}
		ext = code&extensionBit != 0
	default:
		info = primaryVIF[vif&0x7F]
	}

	manufacturer := vif&0x7F == vifManufacturer
	for ext {
		code, err := nextVIFE()
		if err != nil {
			return vifInfo{}, err
		}
		if !manufacturer {
			applyOrthogonal(&info, code)
			manufacturer = code&0x7F == vifeManufacturer
		}
		ext = code&extensionBit != 0
	}

	// The unit text follows the last VIFE.
	if vif&0x7F == vifPlainText {
		n, err := it.take()
		if err != nil {
			return vifInfo{}, err
		}
		text, err := it.takeN(int(n))
		if err != nil {
			return vifInfo{}, err
		}
		rec.PlainTextUnit = reverseText(text)
	}
	return info, nil
}

func (it *Iterator) take() (byte, error) {
	if it.pos >= len(it.buf) {
		return 0, &decodeerr.TruncatedRecordError{Offset: it.pos, Need: 1, Have: 0}
	}
	b := it.buf[it.pos]
	it.pos++
	return b, nil
}

func (it *Iterator) takeN(n int) ([]byte, error) {
	if have := len(it.buf) - it.pos; n > have {
		return nil, &decodeerr.TruncatedRecordError{Offset: it.pos, Need: n, Have: have}
	}
	b := it.buf[it.pos : it.pos+n]
	it.pos += n
	return b, nil
}
