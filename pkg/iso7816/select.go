package iso7816

import (
	"fmt"
)

// SELECT COMMAND LOGIC (ISO 7816-4):
// The SELECT command (INS 'A4') makes a file the current one.
//
// P1 tells how the target is named. The eID files are always addressed by
// their absolute path from the MF (P1 = 08).
//
// P2 bits 4-3 choose the answer (FCI, FCP, FMD or nothing), bits 2-1 the
// occurrence when several files match.

// SelectionMethod is the P1 of a SELECT.
type SelectionMethod byte

const (
	SelectByFileID          SelectionMethod = 0x00
	SelectByDFName          SelectionMethod = 0x04
	SelectPathFromMF        SelectionMethod = 0x08
	SelectPathFromCurrentDF SelectionMethod = 0x09
)

var selectionMethodNames = map[SelectionMethod]string{
	SelectByFileID:          "Select by File ID",
	SelectByDFName:          "Select by DF Name (AID)",
	SelectPathFromMF:        "Select Path from MF",
	SelectPathFromCurrentDF: "Select Path from Current DF",
}

func (s SelectionMethod) String() string {
	if name, ok := selectionMethodNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Method 0x%02X", byte(s))
}

// FileOccurrence is P2 bits 2-1.
type FileOccurrence byte

const (
	FirstOrOnlyOccurrence FileOccurrence = 0x00
	LastOccurrence        FileOccurrence = 0x01
	NextOccurrence        FileOccurrence = 0x02
	PreviousOccurrence    FileOccurrence = 0x03
)

func (f FileOccurrence) String() string {
	return [...]string{"First/Only", "Last", "Next", "Previous"}[f&0x03]
}

// SelectionControl is P2 bits 4-3.
type SelectionControl byte

const (
	ReturnFCI    SelectionControl = 0x00
	ReturnFCP    SelectionControl = 0x04
	ReturnFMD    SelectionControl = 0x08
	ReturnNoData SelectionControl = 0x0C
)

func (s SelectionControl) String() string {
	return [...]string{"Return FCI", "Return FCP", "Return FMD", "No Response Data"}[(s>>2)&0x03]
}

// NewSelectCommand creates a generic SELECT command.
func NewSelectCommand(
	cla Class,
	method SelectionMethod,
	occurrence FileOccurrence,
	ctrl SelectionControl,
	data []byte,
) *CommandAPDU {
	p2 := byte(ctrl) | byte(occurrence)

	// T=0 compatibility: a case 3 command (data sent) cannot carry Le as well.
	// A card with data to return answers '61 XX' and the Client fetches it.
	ne := 0
	if len(data) == 0 && ctrl != ReturnNoData {
		ne = MaxShortLe
	}

	return NewCommandAPDU(cla, mustInstruction(INS_SELECT), byte(method), p2, data, ne)
}

// SelectByPath selects a file by its absolute path from the MF, asking for
// no response data: 00 A4 08 0C Lc path.
// The path must hold 1 to MaxShortLc bytes; callers own that contract.
func SelectByPath(cla Class, path []byte) *CommandAPDU {
	return NewSelectCommand(cla, SelectPathFromMF, FirstOrOnlyOccurrence, ReturnNoData, path)
}

// SelectByPathFCP selects a file by path and asks for its File Control Parameters.
func SelectByPathFCP(cla Class, path []byte) *CommandAPDU {
	return NewSelectCommand(cla, SelectPathFromMF, FirstOrOnlyOccurrence, ReturnFCP, path)
}
