package iso7816

import (
	"bytes"
	"fmt"
)

// APDU (Application Protocol Data Unit) structures according to ISO/IEC 7816-3 and 7816-4.
//
// COMMAND APDU (C-APDU):
//   - Header (4 bytes): CLA, INS, P1, P2.
//   - Body (optional): Lc + Data, then Le.
//
// Only short length encoding is produced: the identity card files are read
// in blocks of at most 256 bytes, so Lc never exceeds 255 and Le never
// exceeds 256. In short mode Le=0x00 encodes 256.
//
// RESPONSE APDU (R-APDU):
//   - Body (optional): response data.
//   - Trailer: SW1 SW2.

const (
	// MaxShortLc is the maximum data length (Nc) encodable on one byte.
	MaxShortLc = 255

	// MaxShortLe is the maximum expected length (Ne) encodable on one byte.
	// It is sent as 0x00.
	MaxShortLe = 256
)

// CommandAPDU represents a command sent to the card.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte
	Ne          int // Expected response length (0 means none)
}

// NewCommandAPDU creates a basic command.
func NewCommandAPDU(cla Class, ins Instruction, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Class:       cla,
		Instruction: ins,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Ne:          ne,
	}
}

// WithNe returns a copy of the command expecting ne bytes.
// The receiver is left untouched.
func (c *CommandAPDU) WithNe(ne int) *CommandAPDU {
	clone := *c
	clone.Ne = ne
	return &clone
}

// Bytes encodes the CommandAPDU into its short-form byte representation.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	nc := len(c.Data)
	if nc > MaxShortLc {
		return nil, fmt.Errorf("data field too long for short APDU: %d bytes", nc)
	}
	if c.Ne < 0 || c.Ne > MaxShortLe {
		return nil, fmt.Errorf("expected length out of range for short APDU: %d", c.Ne)
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(c.Class.Encode())
	buf.WriteByte(byte(c.Instruction.Raw))
	buf.WriteByte(c.P1)
	buf.WriteByte(c.P2)

	if nc > 0 {
		buf.WriteByte(byte(nc))
		buf.Write(c.Data)
	}

	if c.Ne > 0 {
		// byte(256) == 0x00, which is exactly the short encoding of 256.
		buf.WriteByte(byte(c.Ne))
	}

	return buf.Bytes(), nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Verbose(), c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU splits raw bytes received from the card into data and status.
// The input must contain at least 2 bytes (SW1, SW2).
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	indexSW1 := len(raw) - 2

	return &ResponseAPDU{
		Data:   raw[:indexSW1],
		Status: NewStatusWord(raw[indexSW1], raw[indexSW1+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
