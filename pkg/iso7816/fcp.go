package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/eid-reader/pkg/tlv"
	"github.com/moov-io/bertlv"
)

// FILE CONTROL PARAMETERS (ISO/IEC 7816-4, Tag '62').
//
// A SELECT with P2 bits 4-3 = 01 returns the FCP template of the selected
// file. For a transparent EF the interesting parts are the sizes (80/81),
// the descriptor (82) and the file identifier (83). Some cards wrap the
// template in an FCI ('6F'), some send the inner TLVs flat.

// FCPTemplate (File Control Parameters) - Tag '62'.
type FCPTemplate struct {
	DataSize          []byte `tlv:"80" fmt:"int"`
	TotalFileSize     []byte `tlv:"81" fmt:"int"`
	FileDescriptor    []byte `tlv:"82"`
	FileIdentifier    []byte `tlv:"83"`
	DFName            []byte `tlv:"84" fmt:"ascii"`
	ShortEFIdentifier []byte `tlv:"88"`
	LifeCycleStatus   []byte `tlv:"8A"`
	SecurityCompact   []byte `tlv:"8C"`

	Unknown []bertlv.TLV `tlv:",unknown"`
}

// Size returns the number of data bytes in the file (tag 80, falling back to
// tag 81), or -1 when the card did not report it.
func (f *FCPTemplate) Size() int {
	v := f.DataSize
	if len(v) == 0 {
		v = f.TotalFileSize
	}
	if len(v) == 0 {
		return -1
	}

	var n int
	for _, b := range v {
		n = n<<8 | int(b)
	}
	return n
}

// IsTransparent reports whether the descriptor announces a transparent EF.
func (f *FCPTemplate) IsTransparent() bool {
	return len(f.FileDescriptor) > 0 && f.FileDescriptor[0]&0x07 == 0x01
}

// Describe renders the template fields, one per line.
func (f *FCPTemplate) Describe() string {
	var sb strings.Builder
	sb.WriteString("=== FILE CONTROL PARAMETERS ===")
	tlv.WriteStructFields(&sb, "FCP", f)
	return sb.String()
}

// ParseFCP parses the data returned by a SELECT asking for FCP.
func ParseFCP(data []byte) (*FCPTemplate, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FCP data")
	}

	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("BER-TLV decode failed: %w", err)
	}

	// Unwrap an optional FCI envelope first.
	if p, ok := findTag(packets, "6F"); ok {
		packets = p.TLVs
	}

	working := packets
	if p, ok := findTag(packets, "62"); ok {
		working = p.TLVs
	}

	fcp := &FCPTemplate{}
	if err := tlv.UnmarshalFromPackets(working, fcp); err != nil {
		return nil, fmt.Errorf("FCP unmarshal failed: %w", err)
	}

	return fcp, nil
}

func findTag(packets []bertlv.TLV, tag string) (bertlv.TLV, bool) {
	for _, p := range packets {
		if strings.EqualFold(p.Tag, tag) {
			return p, true
		}
	}
	return bertlv.TLV{}, false
}
