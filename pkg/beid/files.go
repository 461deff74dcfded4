// Package beid reads the identity, address and photo files of a Belgian
// electronic identity card over ISO 7816-4.
//
// The card stores its data in transparent EFs under DF 'DF01'. Identity and
// address files are short sequences of (tag, length, value) fields; the
// photo is a JPEG spanning several READ BINARY blocks.
package beid

import "fmt"

// FileID is an absolute path from the MF, as sent in a SELECT by path.
type FileID []byte

func (f FileID) String() string {
	return fmt.Sprintf("%X", []byte(f))
}

// IdentityFile returns the path of the identity EF (3F00 DF01 4031).
func IdentityFile() FileID { return FileID{0x3F, 0x00, 0xDF, 0x01, 0x40, 0x31} }

// AddressFile returns the path of the address EF (3F00 DF01 4033).
func AddressFile() FileID { return FileID{0x3F, 0x00, 0xDF, 0x01, 0x40, 0x33} }

// PhotoFile returns the path of the photo EF (3F00 DF01 4035).
func PhotoFile() FileID { return FileID{0x3F, 0x00, 0xDF, 0x01, 0x40, 0x35} }
