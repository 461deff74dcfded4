package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/eid-reader/pkg/tlv"
)

// ReadBinaryResult represents the outcome of a READ BINARY command execution.
type ReadBinaryResult struct {
	Trace
}

func NewReadBinaryResult(t Trace) (*ReadBinaryResult, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("cannot create result from empty trace")
	}

	if t[0].Command.Instruction.Raw != INS_READ_BINARY {
		return nil, fmt.Errorf("trace must start with READ BINARY command (got %02X)", byte(t[0].Command.Instruction.Raw))
	}

	return &ReadBinaryResult{Trace: t}, nil
}

// Describe generates a detailed, ASCII-formatted report of the read operation.
func (r *ReadBinaryResult) Describe() string {
	var sb strings.Builder

	sb.WriteString("=== READ BINARY COMMAND REPORT ===\n")

	tx0 := r.Trace[0]
	cmd := tx0.Command

	offset := int(cmd.P1)<<8 | int(cmd.P2)

	sb.WriteString("[1] Command: READ BINARY\n")
	sb.WriteString(fmt.Sprintf("    + Offset:  %04X (block %d)\n", offset, cmd.P1))
	sb.WriteString(fmt.Sprintf("    + Le:      %d\n", cmd.Ne))
	sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(tx0.Response.Status)))
	sb.WriteString("\n")

	lastTx := r.Last()

	if len(r.Trace) > 1 {
		sb.WriteString(fmt.Sprintf("[2] Protocol: Auto-handling (%d steps)\n", len(r.Trace)))
		sb.WriteString(fmt.Sprintf("    + Final Le: %d\n", lastTx.Command.Ne))
		sb.WriteString(fmt.Sprintf("    + Final SW: [%04X]\n", uint16(lastTx.Response.Status)))
	}

	finalPayload := lastTx.Response.Data

	sb.WriteString("[=] DATA OUTCOME:\n")
	if len(finalPayload) > 0 {
		sb.WriteString(fmt.Sprintf("    + Length: %d bytes\n", len(finalPayload)))
		sb.WriteString(fmt.Sprintf("    + Dump:   %X\n", finalPayload))
		sb.WriteString(fmt.Sprintf("    + ASCII:  %q\n", tlv.MakeSafeASCII(finalPayload)))
	} else {
		sb.WriteString("    - No Data Received.\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
