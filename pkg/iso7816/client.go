package iso7816

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// CLIENT & PROTOCOL LOGIC:
// The Client drives a single card connection. Exchange performs exactly one
// round trip; Send adds the ISO 7816-3 transport behaviours:
//
// 1. "61 XX" (Response Available): a GET RESPONSE with Le=XX is sent, on the
//    same logical channel, at most maxGetResponse times.
//
// 2. "6C XX" (Wrong Length): the command is re-sent once with Le=XX. The
//    correction is a small state machine
//
//      initial --6CXX--> correctedOnce --6CXX--> ErrRepeatedWrongLength
//         |                    |
//         +------other---------+------other----> done
//
//    since a card asking twice for a different length means the command
//    and the file do not match.

const maxGetResponse = 8

// Transmitter abstracts the physical card connection.
// The returned slice ends with SW1 SW2.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

type correctionState int

const (
	stateInitial correctionState = iota
	stateCorrectedOnce
	stateDone
)

// Client manages the high-level communication with the card.
// It is not safe for concurrent use: the connection is exclusively owned.
type Client struct {
	Card Transmitter
	Log  logrus.FieldLogger
}

// NewClient creates a new Client instance. A nil logger discards output.
func NewClient(card Transmitter, log logrus.FieldLogger) *Client {
	if log == nil {
		log = DiscardLogger()
	}
	return &Client{Card: card, Log: log}
}

// DiscardLogger returns a logrus logger writing nowhere.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Exchange transmits exactly one command and parses its response.
func (c *Client) Exchange(cmd *CommandAPDU) (Transaction, error) {
	rawCmd, err := cmd.Bytes()
	if err != nil {
		return Transaction{}, fmt.Errorf("encoding error: %w", err)
	}

	c.Log.WithFields(logrus.Fields{
		"capdu": fmt.Sprintf("%X", rawCmd),
		"cmd":   cmd.String(),
	}).Debug("->")

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		c.Log.WithError(err).Debug("<- transmit failed")
		return Transaction{}, fmt.Errorf("transmission error: %w", err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return Transaction{}, err
	}

	c.Log.WithFields(logrus.Fields{
		"sw":   fmt.Sprintf("%04X", uint16(resp.Status)),
		"data": len(resp.Data),
	}).Debug("<-")

	return Transaction{Command: cmd, Response: resp}, nil
}

// Send transmits a command and handles protocol logic (61xx, 6Cxx).
// The returned trace holds every exchange, including the failing one when
// an error is returned after the first round trip.
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	var trace Trace

	state := stateInitial
	current := cmd
	getResponses := 0

	for state != stateDone {
		tx, err := c.Exchange(current)
		if err != nil {
			return trace, err
		}
		trace = append(trace, tx)

		sw := tx.Response.Status
		switch {
		case sw.IsWrongLength():
			if state == stateCorrectedOnce {
				return trace, ErrRepeatedWrongLength
			}
			state = stateCorrectedOnce
			current = current.WithNe(sw.CorrectLength())

		case sw.SW1() == 0x61:
			getResponses++
			if getResponses > maxGetResponse {
				return trace, ErrResponseChainTooLong
			}
			current = GetResponse(cmd.Class, sw.CorrectLength())

		default:
			state = stateDone
		}
	}

	return trace, nil
}

// GetResponse builds a GET RESPONSE fetching ne pending bytes.
// ISO 7816-4: it must use the same logical channel as the original command.
func GetResponse(cla Class, ne int) *CommandAPDU {
	cla.IsChained = false
	cla.Raw = cla.Encode()
	return NewCommandAPDU(cla, mustInstruction(INS_GET_RESPONSE), 0x00, 0x00, nil, ne)
}
