package iso7816

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gregLibert/eid-reader/pkg/tlv"
)

// scriptedCard replays canned responses and records every command.
type scriptedCard struct {
	responses [][]byte
	sent      [][]byte
	err       error
}

func (s *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	s.sent = append(s.sent, append([]byte(nil), cmd...))
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("unexpected command %X", cmd)
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func TestClient_Send(t *testing.T) {
	cls := InterindustryClass

	tests := []struct {
		name      string
		cmd       *CommandAPDU
		responses [][]byte
		wantSent  [][]byte
		wantData  []byte
		wantErr   error
	}{
		{
			name:      "Plain success",
			cmd:       ReadBinary(cls, 0),
			responses: [][]byte{tlv.Hex("0102 9000")},
			wantSent:  [][]byte{tlv.Hex("00B0000000")},
			wantData:  tlv.Hex("0102"),
		},
		{
			name: "One length correction",
			cmd:  ReadBinary(cls, 0),
			responses: [][]byte{
				tlv.Hex("6C03"),
				tlv.Hex("AABBCC 9000"),
			},
			wantSent: [][]byte{
				tlv.Hex("00B0000000"),
				tlv.Hex("00B0000003"),
			},
			wantData: tlv.Hex("AABBCC"),
		},
		{
			name: "Correction keeps the block offset",
			cmd:  ReadBinary(cls, 5),
			responses: [][]byte{
				tlv.Hex("6C01"),
				tlv.Hex("FF 9000"),
			},
			wantSent: [][]byte{
				tlv.Hex("00B0050000"),
				tlv.Hex("00B0050001"),
			},
			wantData: tlv.Hex("FF"),
		},
		{
			name: "Second correction is a protocol error",
			cmd:  ReadBinary(cls, 0),
			responses: [][]byte{
				tlv.Hex("6C03"),
				tlv.Hex("6C02"),
			},
			wantSent: [][]byte{
				tlv.Hex("00B0000000"),
				tlv.Hex("00B0000003"),
			},
			wantErr: ErrRepeatedWrongLength,
		},
		{
			name: "Response available",
			cmd:  SelectByPathFCP(cls, tlv.Hex("3F00")),
			responses: [][]byte{
				tlv.Hex("6105"),
				tlv.Hex("6203800101 9000"),
			},
			wantSent: [][]byte{
				tlv.Hex("00A40804023F00"),
				tlv.Hex("00C0000005"),
			},
			wantData: tlv.Hex("6203800101"),
		},
		{
			name:      "Error status is not retried",
			cmd:       SelectByPath(cls, tlv.Hex("3F00")),
			responses: [][]byte{tlv.Hex("6A82")},
			wantSent:  [][]byte{tlv.Hex("00A4080C023F00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &scriptedCard{responses: tt.responses}
			client := NewClient(card, nil)

			trace, err := client.Send(tt.cmd)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Send() error = %v, want %v", err, tt.wantErr)
			}

			if diff := cmp.Diff(tt.wantSent, card.sent); diff != "" {
				t.Errorf("Commands mismatch (-want +got):\n%s", diff)
			}

			if tt.wantErr == nil {
				if diff := cmp.Diff(tt.wantData, trace.Data(), cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("Data mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestClient_ResponseChainBound(t *testing.T) {
	responses := make([][]byte, 0, maxGetResponse+1)
	for i := 0; i <= maxGetResponse; i++ {
		responses = append(responses, tlv.Hex("6101"))
	}
	card := &scriptedCard{responses: responses}

	trace, err := NewClient(card, nil).Send(SelectByPathFCP(InterindustryClass, tlv.Hex("3F00")))
	if !errors.Is(err, ErrResponseChainTooLong) {
		t.Fatalf("Send() error = %v, want ErrResponseChainTooLong", err)
	}
	if len(trace) != maxGetResponse+1 {
		t.Errorf("trace length = %d, want %d", len(trace), maxGetResponse+1)
	}
}

func TestClient_TransmitError(t *testing.T) {
	boom := errors.New("reader unplugged")
	card := &scriptedCard{err: boom}

	_, err := NewClient(card, nil).Send(ReadBinary(InterindustryClass, 0))
	if !errors.Is(err, boom) {
		t.Fatalf("Send() error = %v, want wrapped %v", err, boom)
	}
}
