package beid

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gregLibert/eid-reader/pkg/tlv"
)

// exchange is one expected command and the raw answer to it.
type exchange struct {
	cmd  []byte
	resp []byte
}

// fakeCard plays a script of exchanges and fails the test on any
// command it does not expect.
type fakeCard struct {
	t      *testing.T
	script []exchange
	sent   [][]byte
}

func newFakeCard(t *testing.T, script ...exchange) *fakeCard {
	t.Helper()
	return &fakeCard{t: t, script: script}
}

func (c *fakeCard) Transmit(cmd []byte) ([]byte, error) {
	c.sent = append(c.sent, append([]byte(nil), cmd...))
	n := len(c.sent)
	if n > len(c.script) {
		return nil, fmt.Errorf("unexpected command #%d %X", n, cmd)
	}
	want := c.script[n-1]
	if want.cmd != nil && !bytes.Equal(want.cmd, cmd) {
		c.t.Errorf("command #%d = %X, want %X", n, cmd, want.cmd)
	}
	return want.resp, nil
}

// countReads returns how many READ BINARY commands were sent.
func (c *fakeCard) countReads() int {
	n := 0
	for _, cmd := range c.sent {
		if len(cmd) > 1 && cmd[1] == 0xB0 {
			n++
		}
	}
	return n
}

// encodeFields builds a file of (tag, length, value) fields, tags numbered from 1.
func encodeFields(values ...[]byte) []byte {
	var out []byte
	for i, v := range values {
		out = append(out, byte(i+1), byte(len(v)))
		out = append(out, v...)
	}
	return out
}

func strs(values ...string) [][]byte {
	out := make([][]byte, len(values))
	for i, v := range values {
		out[i] = []byte(v)
	}
	return out
}

func withSW(data []byte, sw string) []byte {
	return append(append([]byte(nil), data...), tlv.Hex(sw)...)
}

func selectCmd(id FileID) []byte {
	return append(tlv.Hex("00 A4 08 0C", fmt.Sprintf("%02X", len(id))), id...)
}

func readCmd(block byte, le byte) []byte {
	return []byte{0x00, 0xB0, block, 0x00, le}
}

// fileScript is the usual exchange for a short file: select, a full-block
// probe answered '6C XX', and the corrected read.
func fileScript(id FileID, data []byte) []exchange {
	return []exchange{
		{cmd: selectCmd(id), resp: tlv.Hex("9000")},
		{cmd: readCmd(0, 0x00), resp: []byte{0x6C, byte(len(data))}},
		{cmd: readCmd(0, byte(len(data))), resp: withSW(data, "9000")},
	}
}
