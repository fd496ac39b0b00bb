package mbus

import (
	"encoding/json"
	"fmt"
)

// Document is the interpreted form of one telegram. It does not alias the
// input buffer.
type Document struct {
	// Information is nil when the telegram carries no data header.
	Information *Information
	Records     []Record
	// Frame describes the envelope when the document came from DecodeFrame.
	Frame *FrameInfo
}

// Information holds the header derived fields. Identity fields are set by a
// long header only; a short header carries access number, status and
// signature.
type Information struct {
	ID           *uint32 `json:"id,omitempty"`
	IDMask       string  `json:"id_mask,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Version      *uint8  `json:"version,omitempty"`
	DeviceType   *uint8  `json:"device_type,omitempty"`
	AccessNumber *uint8  `json:"access_number,omitempty"`
	Status       *uint8  `json:"status,omitempty"`
	Signature    *string `json:"signature,omitempty"`
	Medium       *string `json:"medium,omitempty"`
}

// Record is one interpreted data record.
type Record struct {
	ID       int     `json:"id"`
	Function string  `json:"function"`
	Type     string  `json:"type"`
	Value    Value   `json:"value"`
	Unit     string  `json:"unit"`
	Tariff   *uint32 `json:"tariff,omitempty"`
	Device   *uint32 `json:"device,omitempty"`

	StorageNumber uint64 `json:"-"`
	// PlainTextUnit is the unit text of a plain text VIF.
	PlainTextUnit string `json:"-"`
}

// FrameInfo describes the envelope of a decoded frame.
type FrameInfo struct {
	Type    string
	Control byte
	Address byte
	CI      byte
}

type documentJSON struct {
	Information json.RawMessage `json:"information"`
	Records     []Record        `json:"records"`
}

// MarshalJSON renders the document in the convert API layout. A missing
// header is rendered as an empty object.
func (d Document) MarshalJSON() ([]byte, error) {
	info := json.RawMessage("{}")
	if d.Information != nil {
		b, err := json.Marshal(d.Information)
		if err != nil {
			return nil, err
		}
		info = b
	}
	recs := d.Records
	if recs == nil {
		recs = []Record{}
	}
	return json.Marshal(documentJSON{Information: info, Records: recs})
}

// UnmarshalJSON restores a document rendered by MarshalJSON.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var info Information
	if len(raw.Information) > 0 {
		if err := json.Unmarshal(raw.Information, &info); err != nil {
			return fmt.Errorf("information: %w", err)
		}
	}
	*d = Document{Records: raw.Records}
	if info != (Information{}) {
		d.Information = &info
	}
	if d.Records == nil {
		d.Records = []Record{}
	}
	return nil
}

// String renders the document as indented JSON.
func (d Document) String() string {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Sprintf("document with %d records (marshal error: %v)", len(d.Records), err)
	}
	return string(data)
}
