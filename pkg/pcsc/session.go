// Package pcsc opens a scoped connection to a contact card through the
// platform PC/SC service.
package pcsc

import (
	"errors"

	"github.com/ansel1/merry/v2"
	"github.com/ebfe/scard"
)

var (
	// ErrNoReader is returned when no PC/SC reader matches the request.
	ErrNoReader = errors.New("no card reader available")
	// ErrNoCard is returned when the reader is present but holds no card.
	ErrNoCard = errors.New("no card in reader")
	// ErrConnection is returned for any other PC/SC failure.
	ErrConnection = errors.New("pc/sc connection failed")
)

// Session is an open card connection. It is exclusively owned by its
// caller and must be closed.
type Session struct {
	ctx    *scard.Context
	card   *scard.Card
	reader string
}

// Open establishes a PC/SC context and connects to a card.
// Without a selector, the first reader is used.
func Open(selectors ...ReaderSelector) (s *Session, err error) {
	defer deferWrap(&err)

	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, merry.Errorf("%w: establish context: %w", ErrConnection, err)
	}

	readers, err := ctx.ListReaders()
	if err != nil {
		_ = ctx.Release()
		if errors.Is(err, scard.ErrNoReadersAvailable) {
			return nil, ErrNoReader
		}
		return nil, merry.Errorf("%w: list readers: %w", ErrConnection, err)
	}
	if len(readers) == 0 {
		_ = ctx.Release()
		return nil, ErrNoReader
	}

	reader, err := resolveReader(readers, selectors)
	if err != nil {
		_ = ctx.Release()
		return nil, err
	}

	// T=0|T=1 avoids "Parameter Incorrect" on readers rejecting ProtocolAny.
	card, err := ctx.Connect(reader, scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		_ = ctx.Release()
		return nil, classifyConnect(reader, err)
	}

	return &Session{ctx: ctx, card: card, reader: reader}, nil
}

func classifyConnect(reader string, err error) error {
	if errors.Is(err, scard.ErrNoSmartcard) || errors.Is(err, scard.ErrRemovedCard) {
		return merry.Errorf("%w: reader %q: %w", ErrNoCard, reader, err)
	}
	return merry.Errorf("%w: connect reader %q: %w", ErrConnection, reader, err)
}

// WithSession opens a session, runs fn and closes the session on every exit
// path. The error of fn takes precedence over the close error.
func WithSession(fn func(*Session) error, selectors ...ReaderSelector) (err error) {
	s, err := Open(selectors...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// ReaderName returns the name of the connected reader.
func (s *Session) ReaderName() string {
	return s.reader
}

// Transmit sends a raw C-APDU and returns the raw R-APDU, SW1 SW2 included.
func (s *Session) Transmit(cmd []byte) ([]byte, error) {
	if s.card == nil {
		return nil, merry.Wrap(ErrConnection, merry.WithMessage("session is closed"))
	}
	resp, err := s.card.Transmit(cmd)
	if err != nil {
		if errors.Is(err, scard.ErrRemovedCard) {
			return nil, merry.Errorf("%w: %w", ErrNoCard, err)
		}
		return nil, merry.Errorf("%w: transmit: %w", ErrConnection, err)
	}
	return resp, nil
}

// Close disconnects the card and releases the context. It is safe to call
// more than once.
func (s *Session) Close() error {
	var errs []error
	if s.card != nil {
		if err := s.card.Disconnect(scard.LeaveCard); err != nil {
			errs = append(errs, merry.Errorf("disconnect card: %w", err))
		}
		s.card = nil
	}
	if s.ctx != nil {
		if err := s.ctx.Release(); err != nil {
			errs = append(errs, merry.Errorf("release context: %w", err))
		}
		s.ctx = nil
	}
	return errors.Join(errs...)
}

// ListReaders returns the names of the PC/SC readers currently attached.
func ListReaders() (readers []string, err error) {
	defer deferWrap(&err)

	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, merry.Errorf("%w: establish context: %w", ErrConnection, err)
	}
	defer func() { _ = ctx.Release() }()

	readers, err = ctx.ListReaders()
	if errors.Is(err, scard.ErrNoReadersAvailable) {
		return nil, nil
	}
	if err != nil {
		return nil, merry.Errorf("%w: list readers: %w", ErrConnection, err)
	}
	return readers, nil
}

func deferWrap(err *error) {
	if *err != nil {
		*err = merry.WrapSkipping(*err, 1)
	}
}
