package iso7816

import (
	"errors"
	"fmt"
)

// ErrRepeatedWrongLength is returned when the card answers '6C XX' to a
// command that was already re-issued with the length it asked for.
var ErrRepeatedWrongLength = errors.New("card requested a second length correction")

// ErrResponseChainTooLong is returned when the card keeps answering '61 XX'
// beyond maxGetResponse GET RESPONSE commands.
var ErrResponseChainTooLong = errors.New("too many chained GET RESPONSE commands")

// StatusError reports a command that completed with a non-success status word.
type StatusError struct {
	Instruction InsCode
	Status      StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Instruction, e.Status.Verbose())
}

// CheckStatus returns a *StatusError unless the trace ended successfully.
func CheckStatus(t Trace) error {
	last := t.Last()
	if last == nil {
		return fmt.Errorf("empty trace")
	}
	if last.IsSuccess() {
		return nil
	}
	return &StatusError{
		Instruction: t[0].Command.Instruction.Raw,
		Status:      t.Status(),
	}
}
