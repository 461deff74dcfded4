package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ansel1/merry/v2"
	"github.com/gregLibert/eid-reader/pkg/beid"
	"github.com/gregLibert/eid-reader/pkg/pcsc"
	"github.com/sirupsen/logrus"
)

var (
	photoFlag   bool
	readerName  string
	readerIndex int
	jsonFlag    bool
	statFlag    bool
	listFlag    bool
	debugFlag   bool
	versionFlag bool
)

func initCommandLine() {
	flag.BoolVar(&photoFlag, "photo", false, "Also read the photo (base64 in the output)")
	flag.StringVar(&readerName, "reader", "", "PC/SC reader name (default: first reader)")
	flag.IntVar(&readerIndex, "index", -1, "PC/SC reader index, as printed by -list")
	flag.BoolVar(&jsonFlag, "json", false, "Print the record as JSON")
	flag.BoolVar(&statFlag, "stat", false, "Print the File Control Parameters of each file")
	flag.BoolVar(&listFlag, "list", false, "List the PC/SC readers and exit")
	flag.BoolVar(&debugFlag, "debug", false, "Log every APDU exchange")
	flag.BoolVar(&versionFlag, "version", false, "Print version information")
	flag.Parse()
}

func newLogger(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func main() {
	initCommandLine()

	if versionFlag {
		fmt.Printf("eid-reader %s (commit %s, built %s)\n", VERSION, GITCOMMIT, BUILDTIME)
		return
	}

	log := newLogger(debugFlag)

	if listFlag {
		if err := listReaders(os.Stdout); err != nil {
			fail(log, err)
		}
		return
	}

	err := pcsc.WithSession(func(s *pcsc.Session) error {
		log.WithField("reader", s.ReaderName()).Info("Connected")

		reader := beid.NewReader(s, beid.WithLogger(log))

		if statFlag {
			printStats(os.Stdout, reader, photoFlag)
		}

		id, err := reader.ReadInformation(photoFlag)
		if err != nil {
			return err
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(id)
		}

		printIdentity(os.Stdout, id)
		return nil
	}, selectors()...)

	if err != nil {
		fail(log, err)
	}
}

func selectors() []pcsc.ReaderSelector {
	switch {
	case readerName != "":
		return []pcsc.ReaderSelector{pcsc.ReaderName(readerName)}
	case readerIndex >= 0:
		return []pcsc.ReaderSelector{pcsc.ReaderIndex(readerIndex)}
	}
	return nil
}

// fail reports err as one of the session conditions when it is one, and exits.
func fail(log *logrus.Logger, err error) {
	if debugFlag {
		log.Debug(merry.Details(err))
	}

	switch {
	case errors.Is(err, pcsc.ErrNoReader):
		log.WithError(err).Fatal("No card reader available")
	case errors.Is(err, pcsc.ErrNoCard):
		log.WithError(err).Fatal("No card in the reader")
	case errors.Is(err, pcsc.ErrConnection):
		log.WithError(err).Fatal("Card connection failed")
	}
	log.WithError(err).Fatal("Reading the card failed")
}

func listReaders(w io.Writer) error {
	readers, err := pcsc.ListReaders()
	if err != nil {
		return err
	}
	if len(readers) == 0 {
		return pcsc.ErrNoReader
	}
	for i, r := range readers {
		fmt.Fprintf(w, "[%d] %s\n", i, r)
	}
	return nil
}

func printStats(w io.Writer, reader *beid.Reader, withPhoto bool) {
	files := []struct {
		name string
		id   beid.FileID
	}{
		{"Identity", beid.IdentityFile()},
		{"Address", beid.AddressFile()},
	}
	if withPhoto {
		files = append(files, struct {
			name string
			id   beid.FileID
		}{"Photo", beid.PhotoFile()})
	}

	fmt.Fprintln(w, "=============================================")
	fmt.Fprintln(w, " FILE CONTROL PARAMETERS")
	fmt.Fprintln(w, "=============================================")

	for _, f := range files {
		fmt.Fprintf(w, "\n[%s] %s\n", f.name, f.id)
		fcp, err := reader.Stat(f.id)
		if err != nil {
			fmt.Fprintf(w, "   (!) %v\n", err)
			continue
		}
		fmt.Fprintln(w, fcp.Describe())
	}
	fmt.Fprintln(w)
}

func printIdentity(w io.Writer, id *beid.Identity) {
	const date = "02.01.2006"

	rows := []struct{ label, value string }{
		{"Card number", id.CardNumber},
		{"Valid from", id.ValidFrom.Format(date)},
		{"Valid until", id.ValidUntil.Format(date)},
		{"Issued by", id.IssuingMunicipality},
		{"National number", id.NationalNumber},
		{"Surname", id.Surname},
		{"Given names", id.GivenNames},
		{"Suffix", id.Suffix},
		{"Nationality", id.Nationality},
		{"Birth place", id.BirthPlace},
		{"Birth date", id.BirthDate.Format(date)},
		{"Sex", id.Sex},
		{"Street", id.Street},
		{"Postal code", id.PostalCode},
		{"Locality", id.Locality},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-16s %s\n", r.label+":", r.value)
	}
	if id.Photo != nil {
		fmt.Fprintf(w, "%-16s %d base64 characters\n", "Photo:", len(*id.Photo))
	}
	for _, warning := range id.Warnings {
		fmt.Fprintf(w, "(!) %s\n", warning)
	}
}
