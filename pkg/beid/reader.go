package beid

import (
	"github.com/ansel1/merry/v2"
	"github.com/gregLibert/eid-reader/pkg/iso7816"
	"github.com/sirupsen/logrus"
)

// Reader reads eID files through a card connection.
// It is not safe for concurrent use.
type Reader struct {
	client *iso7816.Client
	cla    iso7816.Class
	log    logrus.FieldLogger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger receiving APDU traces and warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReader returns a Reader sending commands through t.
func NewReader(t iso7816.Transmitter, opts ...Option) *Reader {
	r := &Reader{
		cla: iso7816.InterindustryClass,
		log: iso7816.DiscardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.client = iso7816.NewClient(t, r.log)
	return r
}

// selectFile selects id and returns the length to ask for in the first
// READ BINARY: the length hinted by a '6C XX' answer, or a full block.
func (r *Reader) selectFile(id FileID) (int, error) {
	tx, err := r.client.Exchange(iso7816.SelectByPath(r.cla, id))
	if err != nil {
		return 0, merry.Errorf("select %s: %w", id, err)
	}

	sw := tx.Response.Status
	switch {
	case sw.IsWrongLength():
		r.log.WithField("file", id).Debugf("select hints length %d", sw.CorrectLength())
		return sw.CorrectLength(), nil
	case sw.IsSuccess():
		return iso7816.BlockSize, nil
	}

	return 0, merry.Errorf("select %s: %w", id,
		&iso7816.StatusError{Instruction: iso7816.INS_SELECT, Status: sw})
}

// readBlock reads ne bytes of block; the Client re-issues the command once
// if the card answers '6C XX'.
func (r *Reader) readBlock(block byte, ne int) (iso7816.Trace, error) {
	trace, err := r.client.Send(iso7816.ReadBinaryLength(r.cla, block, ne))
	if trace.Corrected() {
		if res, rerr := iso7816.NewReadBinaryResult(trace); rerr == nil {
			r.log.Debug(res.Describe())
		}
	}
	return trace, err
}

// ReadFile selects id and reads its first block, applying at most one
// length correction. It returns the data and the final status word.
//
// A status other than success or end of file is returned as *iso7816.StatusError.
func (r *Reader) ReadFile(id FileID) (data []byte, sw iso7816.StatusWord, err error) {
	defer deferWrap(&err)

	ne, err := r.selectFile(id)
	if err != nil {
		return nil, 0, err
	}

	trace, err := r.readBlock(0, ne)
	if err != nil {
		return nil, trace.Status(), merry.Errorf("read %s: %w", id, err)
	}

	sw = trace.Status()
	if !sw.IsSuccess() && sw != iso7816.SW_WARN_EOF_REACHED {
		return nil, sw, merry.Errorf("read %s: %w", id, iso7816.CheckStatus(trace))
	}

	return trace.Data(), sw, nil
}

// ReadLargeObject selects id and reads it block by block until the card
// returns a short block or signals the end of the file.
//
// The read of the block holding the end of the file is answered '6C XX'
// and re-issued with Le=XX at the same offset.
func (r *Reader) ReadLargeObject(id FileID) (data []byte, err error) {
	defer deferWrap(&err)

	ne, err := r.selectFile(id)
	if err != nil {
		return nil, err
	}

	log := r.log.WithField("file", id)

	for block := 0; ; block++ {
		if block > iso7816.MaxBinaryBlock {
			return nil, merry.Errorf("%w: %s is larger than %d bytes", ErrObjectTooLarge, id, len(data))
		}

		trace, err := r.readBlock(byte(block), ne)
		if err != nil {
			return nil, merry.Errorf("read %s block %d: %w", id, block, err)
		}
		ne = iso7816.BlockSize

		sw := trace.Status()
		chunk := trace.Data()

		switch {
		case sw == iso7816.SW_ERR_WRONG_P1P2:
			// Offset beyond the end: the previous block ended exactly on the file size.
			log.WithField("blocks", block).Debug("object complete")
			return data, nil
		case sw == iso7816.SW_WARN_EOF_REACHED:
			data = append(data, chunk...)
			log.WithField("blocks", block+1).Debug("object complete")
			return data, nil
		case !sw.IsSuccess():
			return nil, merry.Errorf("read %s block %d: %w", id, block, iso7816.CheckStatus(trace))
		}

		data = append(data, chunk...)
		if len(chunk) < iso7816.BlockSize {
			log.WithFields(logrus.Fields{"blocks": block + 1, "size": len(data)}).Debug("object complete")
			return data, nil
		}
	}
}

// Stat selects id asking for its File Control Parameters.
func (r *Reader) Stat(id FileID) (fcp *iso7816.FCPTemplate, err error) {
	defer deferWrap(&err)

	trace, err := r.client.Send(iso7816.SelectByPathFCP(r.cla, id))
	if err != nil {
		return nil, merry.Errorf("stat %s: %w", id, err)
	}
	if err := iso7816.CheckStatus(trace); err != nil {
		return nil, merry.Errorf("stat %s: %w", id, err)
	}

	res, err := iso7816.NewSelectResult(trace)
	if err != nil {
		return nil, err
	}
	r.log.Debug(res.Describe())

	return res.FCP()
}
