package beid

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ansel1/merry/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// validityLayout is the layout of the card validity dates, e.g. "01.01.2030".
const validityLayout = "02.01.2006"

// monthNames maps the month abbreviations printed on cards, accents removed,
// to month numbers. French, Dutch and German cards use different spellings.
var monthNames = map[string]time.Month{
	"JANV": time.January, "JAN": time.January,
	"FEVR": time.February, "FEV": time.February, "FEB": time.February,
	"MARS": time.March, "MAR": time.March, "MAAR": time.March, "MAA": time.March, "MAER": time.March,
	"AVRI": time.April, "AVR": time.April, "APR": time.April,
	"MAI": time.May, "MEI": time.May,
	"JUIN": time.June, "JUN": time.June,
	"JUIL": time.July, "JUL": time.July,
	"AOUT": time.August, "AOU": time.August, "AUG": time.August,
	"SEPT": time.September, "SEP": time.September,
	"OCTO": time.October, "OCT": time.October, "OKT": time.October,
	"NOVE": time.November, "NOV": time.November,
	"DECE": time.December, "DEC": time.December, "DEZ": time.December,
}

// foldMonth upper-cases name and strips its diacritics: "Fév" becomes "FEV".
func foldMonth(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

// LookupMonth resolves a month abbreviation, or a month number written in
// digits, to a month. The second result is false for unknown names.
func LookupMonth(name string) (time.Month, bool) {
	key := foldMonth(name)
	if m, ok := monthNames[key]; ok {
		return m, true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), true
	}
	return 0, false
}

// ParseBirthDate parses a birth date as printed on the card: day, month
// name and year separated by spaces or dots ("15 JANV 1980", "15.MÄR.1980").
//
// An unknown month name yields January with known set to false; callers
// report it as a warning. Malformed day or year fields fail with ErrInvalidDate.
func ParseBirthDate(s string) (date time.Time, known bool, err error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.'
	})
	if len(parts) != 3 {
		return time.Time{}, false, merry.Errorf("%w: birth date %q", ErrInvalidDate, s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false, merry.Errorf("%w: birth day %q", ErrInvalidDate, parts[0])
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false, merry.Errorf("%w: birth year %q", ErrInvalidDate, parts[2])
	}

	month, known := LookupMonth(parts[1])
	if !known {
		month = time.January
	}

	date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, false, merry.Errorf("%w: birth date %q out of range", ErrInvalidDate, s)
	}

	return date, known, nil
}

func parseValidityDate(s string) (time.Time, error) {
	t, err := time.Parse(validityLayout, s)
	if err != nil {
		return time.Time{}, merry.Errorf("%w: validity date %q: %w", ErrInvalidDate, s, err)
	}
	return t, nil
}
