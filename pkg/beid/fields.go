package beid

import (
	"unicode/utf8"

	"github.com/ansel1/merry/v2"
)

// DecodeFields walks the (tag, length, value) fields of data and returns the
// values of fields 0 through last as text.
//
// A value that is not valid UTF-8 decodes to "" and does not stop the walk.
// A header or value running past the end of data fails with ErrTruncatedField.
// The tag byte is not checked: fields are identified by position.
// A negative last asks for no field.
func DecodeFields(data []byte, last int) ([]string, error) {
	if last < 0 {
		return []string{}, nil
	}

	fields := make([]string, 0, last+1)

	pos := 0
	for len(fields) <= last {
		if pos+2 > len(data) {
			return nil, merry.Errorf("%w: header of field %d at offset %d (%d bytes)",
				ErrTruncatedField, len(fields), pos, len(data))
		}

		n := int(data[pos+1])
		start := pos + 2
		if start+n > len(data) {
			return nil, merry.Errorf("%w: field %d declares %d bytes at offset %d, %d left",
				ErrTruncatedField, len(fields), n, start, len(data)-start)
		}

		value := data[start : start+n]
		if utf8.Valid(value) {
			fields = append(fields, string(value))
		} else {
			fields = append(fields, "")
		}

		pos = start + n
	}

	return fields, nil
}
