package iso7816

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadBinaryResult_Describe(t *testing.T) {
	trace := Trace{
		{
			Command:  ReadBinary(InterindustryClass, 0),
			Response: &ResponseAPDU{Status: NewStatusWord(0x6C, 0x03)},
		},
		{
			Command:  ReadBinaryLength(InterindustryClass, 0, 3),
			Response: &ResponseAPDU{Data: []byte("ABC"), Status: SW_NO_ERROR},
		},
	}

	res, err := NewReadBinaryResult(trace)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	actualLines := strings.Split(res.Describe(), "\n")

	expectedLines := []string{
		"=== READ BINARY COMMAND REPORT ===",
		"[1] Command: READ BINARY",
		"    + Offset:  0000 (block 0)",
		"    + Le:      256",
		"    + Result:  [6C 03] [!!] Wrong length, correct is 3",
		"",
		"[2] Protocol: Auto-handling (2 steps)",
		"    + Final Le: 3",
		"    + Final SW: [9000]",
		"[=] DATA OUTCOME:",
		"    + Length: 3 bytes",
		"    + Dump:   414243",
		`    + ASCII:  "ABC"`,
	}

	if diff := cmp.Diff(expectedLines, actualLines); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}

func TestReadBinaryResult_Describe_Error(t *testing.T) {
	trace := Trace{
		{
			Command:  ReadBinary(InterindustryClass, 4),
			Response: &ResponseAPDU{Status: SW_ERR_WRONG_P1P2},
		},
	}

	res, _ := NewReadBinaryResult(trace)
	actualLines := strings.Split(res.Describe(), "\n")

	expectedLines := []string{
		"=== READ BINARY COMMAND REPORT ===",
		"[1] Command: READ BINARY",
		"    + Offset:  0400 (block 4)",
		"    + Le:      256",
		"    + Result:  [6B 00] [!!] [6B00] SW_ERR_WRONG_P1P2",
		"",
		"[=] DATA OUTCOME:",
		"    - No Data Received.",
	}

	if diff := cmp.Diff(expectedLines, actualLines); diff != "" {
		t.Errorf("Report mismatch (-want +got):\n%s", diff)
	}
}

func TestNewReadBinaryResult_WrongCommand(t *testing.T) {
	trace := Trace{
		{
			Command:  SelectByPath(InterindustryClass, []byte{0x3F, 0x00}),
			Response: &ResponseAPDU{Status: SW_NO_ERROR},
		},
	}
	if _, err := NewReadBinaryResult(trace); err == nil {
		t.Error("expected error for trace starting with SELECT")
	}
	if _, err := NewReadBinaryResult(nil); err == nil {
		t.Error("expected error for empty trace")
	}
}
