package iso7816

import (
	"fmt"
	"strings"
)

// A Transaction is one C-APDU and the R-APDU answering it.
// A Trace is the ordered list of transactions that fulfilled one logical
// request: a READ BINARY answered with '6C XX' and re-issued with Le=XX is
// two transactions but one read.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
// It returns false if the response is missing.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions (Command-Response pairs).
type Trace []Transaction

// Last returns the final transaction of the trace, or nil if the trace is empty.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks if the FINAL transaction in the trace was successful.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}

// Status returns the status word of the final transaction, or 0 for an empty trace.
func (t Trace) Status() StatusWord {
	last := t.Last()
	if last == nil || last.Response == nil {
		return 0
	}
	return last.Response.Status
}

// Data returns the response data of the final transaction.
func (t Trace) Data() []byte {
	last := t.Last()
	if last == nil || last.Response == nil {
		return nil
	}
	return last.Response.Data
}

// Corrected reports whether the card answered '6C XX' somewhere in the trace,
// i.e. the final data was obtained with a corrected Le.
func (t Trace) Corrected() bool {
	for _, tx := range t {
		if tx.Response != nil && tx.Response.Status.IsWrongLength() {
			return true
		}
	}
	return false
}

// Dump renders the trace one exchange per line, commands prefixed with "->"
// and responses with "<-".
func (t Trace) Dump() string {
	var sb strings.Builder
	for _, tx := range t {
		raw, err := tx.Command.Bytes()
		if err != nil {
			fmt.Fprintf(&sb, "-> <%v>\n", err)
		} else {
			fmt.Fprintf(&sb, "-> %X\n", raw)
		}
		if tx.Response == nil {
			sb.WriteString("<- (no response)\n")
			continue
		}
		fmt.Fprintf(&sb, "<- %04X %X\n", uint16(tx.Response.Status), tx.Response.Data)
	}
	return strings.TrimRight(sb.String(), "\n")
}
