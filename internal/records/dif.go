package records

const (
	extensionBit   = 0x80
	difStorageLSB  = 0x40
	difFunction    = 0x30
	difDataField   = 0x0F
	difIdle        = 0x2F
	difMoreRecords = 0x1F
	difSpecial     = 0x0F
)

type dataField struct {
	length   int
	encoding Encoding
}

// dataFields is indexed by the DIF low nibble. Variable length records
// take their length from the LVAR byte.
var dataFields = [16]dataField{
	0x0: {0, EncodingNone},
	0x1: {1, EncodingInt},
	0x2: {2, EncodingInt},
	0x3: {3, EncodingInt},
	0x4: {4, EncodingInt},
	0x5: {4, EncodingReal},
	0x6: {6, EncodingInt},
	0x7: {8, EncodingInt},
	0x8: {0, EncodingSelection},
	0x9: {1, EncodingBCD},
	0xA: {2, EncodingBCD},
	0xB: {3, EncodingBCD},
	0xC: {4, EncodingBCD},
	0xD: {0, EncodingVariableLength},
	0xE: {6, EncodingBCD},
	0xF: {0, EncodingSpecial},
}

// dataBlock accumulates the DIF and its extensions.
type dataBlock struct {
	function FunctionType
	storage  uint64
	tariff   uint32
	device   uint32
	dife     int
}

func newDataBlock(dif byte) dataBlock {
	return dataBlock{
		function: FunctionType((dif & difFunction) >> 4),
		storage:  uint64((dif & difStorageLSB) >> 6),
	}
}

// extend folds the n-th DIFE (0 based) into the block: 4 storage bits,
// 2 tariff bits and 1 subunit bit per byte.
func (b *dataBlock) extend(dife byte) {
	n := b.dife
	b.storage |= uint64(dife&0x0F) << (1 + 4*n)
	b.tariff |= uint32((dife>>4)&0x03) << (2 * n)
	b.device |= uint32((dife>>6)&0x01) << n
	b.dife++
}
