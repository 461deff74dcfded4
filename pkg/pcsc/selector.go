package pcsc

import (
	"errors"

	"github.com/ansel1/merry/v2"
)

// ReaderSelector chooses one reader among the detected ones.
type ReaderSelector interface {
	selectReader(readers []string) (string, error)
}

type readerIndexSelector int
type readerNameSelector string

// ReaderIndex selects a reader by its zero-based position in ListReaders.
func ReaderIndex(index int) ReaderSelector {
	return readerIndexSelector(index)
}

// ReaderName selects a reader by its exact PC/SC name.
func ReaderName(name string) ReaderSelector {
	return readerNameSelector(name)
}

func (s readerIndexSelector) selectReader(readers []string) (string, error) {
	idx := int(s)
	if idx < 0 || idx >= len(readers) {
		return "", merry.Errorf("%w: index %d out of range (%d readers)", ErrNoReader, idx, len(readers))
	}
	return readers[idx], nil
}

func (s readerNameSelector) selectReader(readers []string) (string, error) {
	name := string(s)
	if name == "" {
		return "", errors.New("reader name must not be empty")
	}
	for _, r := range readers {
		if r == name {
			return r, nil
		}
	}
	return "", merry.Errorf("%w: %q not found", ErrNoReader, name)
}

func resolveReader(readers []string, selectors []ReaderSelector) (string, error) {
	switch {
	case len(readers) == 0:
		return "", ErrNoReader
	case len(selectors) == 0:
		return readers[0], nil
	case len(selectors) > 1:
		return "", errors.New("at most one reader selector is accepted")
	case selectors[0] == nil:
		return "", errors.New("reader selector must not be nil")
	}
	return selectors[0].selectReader(readers)
}
