package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/eid-reader/pkg/tlv"
)

// SelectResult represents the outcome of a SELECT command execution.
// It wraps the transaction trace to provide FCP parsing and a
// human-readable report.
type SelectResult struct {
	Trace
}

// NewSelectResult creates a SelectResult from a raw transaction trace.
// The trace must start with a SELECT command (INS 0xA4).
func NewSelectResult(t Trace) (*SelectResult, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("cannot create result from empty trace")
	}

	if t[0].Command.Instruction.Raw != INS_SELECT {
		return nil, fmt.Errorf("trace must start with SELECT command (got %02X)", byte(t[0].Command.Instruction.Raw))
	}

	return &SelectResult{Trace: t}, nil
}

// FCP parses the File Control Parameters from the final response,
// following any GET RESPONSE the Client issued.
func (r *SelectResult) FCP() (*FCPTemplate, error) {
	if !r.IsSuccess() {
		return nil, fmt.Errorf("selection failed, cannot parse FCP")
	}

	data := r.Data()
	if len(data) == 0 {
		return nil, fmt.Errorf("no response data found")
	}

	return ParseFCP(data)
}

// Describe generates an ASCII report of the selection.
func (r *SelectResult) Describe() string {
	var sb strings.Builder

	sb.WriteString("=== SELECT COMMAND REPORT ===\n")

	tx0 := r.Trace[0]
	cmd := tx0.Command

	method := SelectionMethod(cmd.P1)
	occ := FileOccurrence(cmd.P2 & 0x03)
	ctrl := SelectionControl(cmd.P2 & 0x0C)

	sb.WriteString("[1] Command: SELECT FILE\n")
	sb.WriteString(fmt.Sprintf("    + Method:  %02X -> %s\n", cmd.P1, method))
	sb.WriteString(fmt.Sprintf("    + Control: %02X -> %s | %s\n", cmd.P2, occ, ctrl))
	if len(cmd.Data) > 0 {
		sb.WriteString(fmt.Sprintf("    + Path:    %X\n", cmd.Data))
	}
	sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(tx0.Response.Status)))

	if len(r.Trace) > 1 {
		last := r.Last()
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("[2] Protocol: Auto-handling (%d steps)\n", len(r.Trace)))
		sb.WriteString(fmt.Sprintf("    + Action:  %s\n", last.Command.Instruction.Raw))
		sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(last.Response.Status)))
	}

	sb.WriteString("\n[=] FINAL OUTCOME:\n")

	if ctrl == ReturnNoData {
		sb.WriteString("    - No Data requested.")
		return sb.String()
	}

	fcp, err := r.FCP()
	if err != nil {
		sb.WriteString(fmt.Sprintf("    - FCP Parsing Failed: %v", err))
		return sb.String()
	}

	var fields strings.Builder
	tlv.WriteStructFields(&fields, "FCP", fcp)
	sb.WriteString(fields.String())

	return sb.String()
}

// describeStatus renders "[SW1 SW2] [OK|!!] description" for reports.
func describeStatus(sw StatusWord) string {
	swHex := fmt.Sprintf("%02X %02X", sw.SW1(), sw.SW2())

	switch {
	case sw == SW_NO_ERROR:
		return fmt.Sprintf("[%s] [OK] SW_NO_ERROR", swHex)
	case sw.SW1() == 0x61:
		return fmt.Sprintf("[%s] [OK] %02X (%d) bytes still available", swHex, sw.SW2(), sw.SW2())
	case sw.IsWrongLength():
		return fmt.Sprintf("[%s] [!!] Wrong length, correct is %d", swHex, sw.CorrectLength())
	default:
		return fmt.Sprintf("[%s] [!!] %s", swHex, sw.Verbose())
	}
}
