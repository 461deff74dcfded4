package iso7816

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeTx(sw StatusWord) Transaction {
	return Transaction{
		Command:  ReadBinary(InterindustryClass, 0),
		Response: &ResponseAPDU{Status: sw},
	}
}

func TestTransaction_IsSuccess(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"Successful Transaction (9000)", makeTx(SW_NO_ERROR), true},
		{"Response Available (6110)", makeTx(NewStatusWord(0x61, 0x10)), true},
		{"Error Transaction (6A82)", makeTx(SW_ERR_FILE_NOT_FOUND), false},
		{"Nil Response", Transaction{Command: &CommandAPDU{}, Response: nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.IsSuccess(); got != tt.want {
				t.Errorf("Transaction.IsSuccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrace_Logic(t *testing.T) {
	t.Run("Empty Trace", func(t *testing.T) {
		var tr Trace
		if tr.Last() != nil {
			t.Error("Empty trace Last() should be nil")
		}
		if tr.IsSuccess() {
			t.Error("Empty trace IsSuccess() should be false")
		}
		if tr.Status() != 0 || tr.Data() != nil {
			t.Error("Empty trace should have no status and no data")
		}
	})

	t.Run("Corrected read", func(t *testing.T) {
		tr := Trace{
			makeTx(NewStatusWord(0x6C, 0x10)),
			makeTx(SW_NO_ERROR),
		}
		if !tr.Corrected() {
			t.Error("Trace with 6C should be reported as corrected")
		}
		if !tr.IsSuccess() {
			t.Error("Trace should be successful if the last action succeeded")
		}
	})

	t.Run("Failure at the end", func(t *testing.T) {
		tr := Trace{
			makeTx(SW_NO_ERROR),
			makeTx(SW_ERR_FILE_NOT_FOUND),
		}
		if tr.IsSuccess() {
			t.Error("Trace should fail if the last action failed")
		}
		if tr.Corrected() {
			t.Error("Trace without 6C should not be corrected")
		}

		var statusErr *StatusError
		if err := CheckStatus(tr); !errors.As(err, &statusErr) {
			t.Fatalf("CheckStatus() = %v, want *StatusError", err)
		}
		if statusErr.Status != SW_ERR_FILE_NOT_FOUND || statusErr.Instruction != INS_READ_BINARY {
			t.Errorf("unexpected StatusError %+v", statusErr)
		}
	})
}

func TestTrace_Dump(t *testing.T) {
	tr := Trace{
		{
			Command:  ReadBinary(InterindustryClass, 0),
			Response: &ResponseAPDU{Status: NewStatusWord(0x6C, 0x03)},
		},
		{
			Command:  ReadBinaryLength(InterindustryClass, 0, 3),
			Response: &ResponseAPDU{Data: []byte{0x01, 0x02, 0x03}, Status: SW_NO_ERROR},
		},
	}

	want := "-> 00B0000000\n" +
		"<- 6C03 \n" +
		"-> 00B0000003\n" +
		"<- 9000 010203"

	if diff := cmp.Diff(want, tr.Dump()); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}
