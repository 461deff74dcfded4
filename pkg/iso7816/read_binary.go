package iso7816

// READ BINARY COMMAND LOGIC (ISO 7816-4):
// The READ BINARY command (INS 'B0') reads part of the currently selected
// transparent EF.
//
// P1-P2 encode the byte offset. When bit 8 of P1 is 1, P1 is instead a
// short EF identifier, so offsets are limited to 15 bits.
//
// Large files are read in 256-byte blocks: block n starts at offset n*256,
// i.e. P1=n and P2=00. The last block of a file is shorter; a card asked
// for 256 bytes there answers '6C XX' with the remaining length.

// MaxBinaryBlock is the highest block index addressable through P1 alone.
const MaxBinaryBlock = 0x7F

// BlockSize is the amount of data one short READ BINARY returns.
const BlockSize = MaxShortLe

// ReadBinary reads a full 256-byte block: 00 B0 block 00 00.
func ReadBinary(cla Class, block byte) *CommandAPDU {
	return ReadBinaryLength(cla, block, BlockSize)
}

// ReadBinaryLength reads ne bytes at the start of a block: 00 B0 block 00 ne.
// It is the corrected form issued after a '6C XX' answer.
func ReadBinaryLength(cla Class, block byte, ne int) *CommandAPDU {
	return NewCommandAPDU(cla, mustInstruction(INS_READ_BINARY), block, 0x00, nil, ne)
}
