package iso7816

import (
	"testing"

	"github.com/gregLibert/eid-reader/pkg/tlv"
)

func TestParseFCP(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		wantSize    int
		wantUnknown int
	}{
		{
			name:     "Template 62",
			data:     tlv.Hex("62 07", "80 01 7C", "83 02 4031"),
			wantSize: 0x7C,
		},
		{
			name:     "Wrapped in FCI",
			data:     tlv.Hex("6F 09", "62 07", "81 01 7C", "83 02 4033"),
			wantSize: 0x7C,
		},
		{
			name:        "Flat with unknown tag",
			data:        tlv.Hex("80 02 0100", "C1 01 FF"),
			wantSize:    256,
			wantUnknown: 1,
		},
		{
			name:     "No size reported",
			data:     tlv.Hex("62 04", "83 02 4031"),
			wantSize: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fcp, err := ParseFCP(tt.data)
			if err != nil {
				t.Fatalf("ParseFCP() failed: %v", err)
			}
			if got := fcp.Size(); got != tt.wantSize {
				t.Errorf("Size() = %d, want %d", got, tt.wantSize)
			}
			if len(fcp.Unknown) != tt.wantUnknown {
				t.Errorf("Unknown = %v, want %d entries", fcp.Unknown, tt.wantUnknown)
			}
		})
	}
}

func TestParseFCP_Errors(t *testing.T) {
	if _, err := ParseFCP(nil); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := ParseFCP(tlv.Hex("62 10 80")); err == nil {
		t.Error("expected error for truncated TLV")
	}
}

func TestFCPTemplate_Describe(t *testing.T) {
	fcp := &FCPTemplate{DataSize: []byte{0x01, 0x00}, FileIdentifier: []byte{0x40, 0x31}}
	want := "=== FILE CONTROL PARAMETERS ===\n" +
		"    - FCP.DataSize (80): 0100 (Dec: 256)\n" +
		"    - FCP.FileIdentifier (83): 4031"
	if got := fcp.Describe(); got != want {
		t.Errorf("Describe() =\n%s\nwant\n%s", got, want)
	}
}
