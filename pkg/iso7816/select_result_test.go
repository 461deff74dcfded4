package iso7816

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/eid-reader/pkg/tlv"
)

func photoFCPTrace() Trace {
	path := tlv.Hex("3F00 DF01 4035")
	return Trace{
		{
			Command:  SelectByPathFCP(InterindustryClass, path),
			Response: &ResponseAPDU{Status: NewStatusWord(0x61, 0x10)},
		},
		{
			Command: GetResponse(InterindustryClass, 0x10),
			Response: &ResponseAPDU{
				Data: tlv.Hex(
					"62 0E",
					"80 02 0BB8", // 3000 bytes
					"82 01 01",   // transparent EF
					"83 02 4035",
					"8A 01 05",
				),
				Status: SW_NO_ERROR,
			},
		},
	}
}

func TestSelectResult_Describe(t *testing.T) {
	res, err := NewSelectResult(photoFCPTrace())
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	expectedLines := []string{
		"=== SELECT COMMAND REPORT ===",
		"[1] Command: SELECT FILE",
		"    + Method:  08 -> Select Path from MF",
		"    + Control: 04 -> First/Only | Return FCP",
		"    + Path:    3F00DF014035",
		"    + Result:  [61 10] [OK] 10 (16) bytes still available",
		"",
		"[2] Protocol: Auto-handling (2 steps)",
		"    + Action:  GET RESPONSE",
		"    + Result:  [90 00] [OK] SW_NO_ERROR",
		"",
		"[=] FINAL OUTCOME:",
		"    - FCP.DataSize (80): 0BB8 (Dec: 3000)",
		"    - FCP.FileDescriptor (82): 01",
		"    - FCP.FileIdentifier (83): 4035",
		"    - FCP.LifeCycleStatus (8A): 05",
	}

	if diff := cmp.Diff(expectedLines, strings.Split(res.Describe(), "\n")); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectResult_Describe_NoData(t *testing.T) {
	trace := Trace{
		{
			Command:  SelectByPath(InterindustryClass, tlv.Hex("3F00 DF01 4031")),
			Response: &ResponseAPDU{Status: SW_NO_ERROR},
		},
	}

	res, _ := NewSelectResult(trace)

	expectedLines := []string{
		"=== SELECT COMMAND REPORT ===",
		"[1] Command: SELECT FILE",
		"    + Method:  08 -> Select Path from MF",
		"    + Control: 0C -> First/Only | No Response Data",
		"    + Path:    3F00DF014031",
		"    + Result:  [90 00] [OK] SW_NO_ERROR",
		"",
		"[=] FINAL OUTCOME:",
		"    - No Data requested.",
	}

	if diff := cmp.Diff(expectedLines, strings.Split(res.Describe(), "\n")); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectResult_FCP(t *testing.T) {
	res, _ := NewSelectResult(photoFCPTrace())

	fcp, err := res.FCP()
	if err != nil {
		t.Fatalf("FCP() failed: %v", err)
	}
	if fcp.Size() != 3000 {
		t.Errorf("Size() = %d, want 3000", fcp.Size())
	}
	if !fcp.IsTransparent() {
		t.Error("IsTransparent() = false, want true")
	}

	failed := Trace{
		{
			Command:  SelectByPathFCP(InterindustryClass, tlv.Hex("3F00 DF01 4099")),
			Response: &ResponseAPDU{Status: SW_ERR_FILE_NOT_FOUND},
		},
	}
	res, _ = NewSelectResult(failed)
	if _, err := res.FCP(); err == nil {
		t.Error("expected error for failed selection")
	}
}
