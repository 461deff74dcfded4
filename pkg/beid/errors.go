package beid

import (
	"errors"

	"github.com/ansel1/merry/v2"
)

var (
	// ErrTruncatedField is returned when a field header or payload runs past
	// the end of the file data.
	ErrTruncatedField = errors.New("field runs past end of data")

	// ErrFieldCount is returned when a record schema refers to a field the
	// file did not provide.
	ErrFieldCount = errors.New("field count does not match record schema")

	// ErrObjectTooLarge is returned when an object does not fit in the
	// blocks addressable by READ BINARY's P1.
	ErrObjectTooLarge = errors.New("object exceeds addressable blocks")

	// ErrInvalidDate is returned for a date field that cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

func deferWrap(err *error) {
	if *err != nil {
		*err = merry.WrapSkipping(*err, 1)
	}
}
