package beid

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/gregLibert/eid-reader/pkg/iso7816"
)

// Identity is the content of the identity and address files, plus the photo
// when requested.
type Identity struct {
	CardNumber          string    `json:"card_number"`
	ValidFrom           time.Time `json:"valid_from"`
	ValidUntil          time.Time `json:"valid_until"`
	IssuingMunicipality string    `json:"issuing_municipality"`
	NationalNumber      string    `json:"national_number"`
	Surname             string    `json:"surname"`
	GivenNames          string    `json:"given_names"`
	Suffix              string    `json:"suffix"`
	Nationality         string    `json:"nationality"`
	BirthPlace          string    `json:"birth_place"`
	BirthDate           time.Time `json:"birth_date"`
	Sex                 string    `json:"sex"`

	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	Locality   string `json:"locality"`

	// Photo is the base64 (standard encoding) JPEG, nil unless requested.
	Photo *string `json:"photo,omitempty"`

	// Warnings lists recoverable problems met while decoding.
	Warnings []string `json:"warnings,omitempty"`
}

// PhotoBytes decodes the photo. It returns nil when no photo was read.
func (id *Identity) PhotoBytes() ([]byte, error) {
	if id.Photo == nil {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(*id.Photo)
}

// fieldRule assigns the field at index of a file to the record.
type fieldRule struct {
	index  int
	name   string
	assign func(id *Identity, value string) error
}

func text(dst func(*Identity) *string) func(*Identity, string) error {
	return func(id *Identity, v string) error {
		*dst(id) = v
		return nil
	}
}

func validity(dst func(*Identity) *time.Time) func(*Identity, string) error {
	return func(id *Identity, v string) error {
		t, err := parseValidityDate(v)
		if err != nil {
			return err
		}
		*dst(id) = t
		return nil
	}
}

func birthDate(id *Identity, v string) error {
	date, known, err := ParseBirthDate(v)
	if err != nil {
		return err
	}
	if !known {
		id.Warnings = append(id.Warnings, fmt.Sprintf("birth date %q: unknown month, assumed January", v))
	}
	id.BirthDate = date
	return nil
}

// identitySchema lists the identity file fields in card order.
// Field 1 holds the chip number and is not part of the record.
var identitySchema = []fieldRule{
	{0, "card number", text(func(id *Identity) *string { return &id.CardNumber })},
	{2, "valid from", validity(func(id *Identity) *time.Time { return &id.ValidFrom })},
	{3, "valid until", validity(func(id *Identity) *time.Time { return &id.ValidUntil })},
	{4, "issuing municipality", text(func(id *Identity) *string { return &id.IssuingMunicipality })},
	{5, "national number", text(func(id *Identity) *string { return &id.NationalNumber })},
	{6, "surname", text(func(id *Identity) *string { return &id.Surname })},
	{7, "given names", text(func(id *Identity) *string { return &id.GivenNames })},
	{8, "suffix", text(func(id *Identity) *string { return &id.Suffix })},
	{9, "nationality", text(func(id *Identity) *string { return &id.Nationality })},
	{10, "birth place", text(func(id *Identity) *string { return &id.BirthPlace })},
	{11, "birth date", birthDate},
	{12, "sex", text(func(id *Identity) *string { return &id.Sex })},
}

// addressSchema lists the address file fields in card order.
var addressSchema = []fieldRule{
	{0, "street", text(func(id *Identity) *string { return &id.Street })},
	{1, "postal code", text(func(id *Identity) *string { return &id.PostalCode })},
	{2, "locality", text(func(id *Identity) *string { return &id.Locality })},
}

// lastIndex returns the highest field index a schema refers to.
func lastIndex(schema []fieldRule) int {
	last := -1
	for _, rule := range schema {
		if rule.index > last {
			last = rule.index
		}
	}
	return last
}

func applySchema(id *Identity, schema []fieldRule, fields []string) error {
	for _, rule := range schema {
		if rule.index >= len(fields) {
			return merry.Errorf("%w: %s is field %d, got %d fields",
				ErrFieldCount, rule.name, rule.index, len(fields))
		}
		if err := rule.assign(id, fields[rule.index]); err != nil {
			return merry.Errorf("%s: %w", rule.name, err)
		}
	}
	return nil
}

func (r *Reader) readRecord(file FileID, schema []fieldRule, id *Identity) error {
	data, _, err := r.ReadFile(file)
	if err != nil {
		return err
	}

	fields, err := DecodeFields(data, lastIndex(schema))
	if err != nil {
		return merry.Errorf("decode %s: %w", file, err)
	}

	if err := applySchema(id, schema, fields); err != nil {
		return merry.Errorf("decode %s: %w", file, err)
	}
	return nil
}

// ReadInformation reads the identity and address files, and the photo when
// includePhoto is set. No record is returned unless every read succeeds.
func (r *Reader) ReadInformation(includePhoto bool) (id *Identity, err error) {
	defer deferWrap(&err)

	id = &Identity{}

	if err := r.readRecord(IdentityFile(), identitySchema, id); err != nil {
		return nil, err
	}
	if err := r.readRecord(AddressFile(), addressSchema, id); err != nil {
		return nil, err
	}

	if includePhoto {
		photo, err := r.ReadLargeObject(PhotoFile())
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(photo)
		id.Photo = &encoded
		r.log.WithField("size", len(photo)).Debug("photo read")
	}

	for _, w := range id.Warnings {
		r.log.Warn(w)
	}

	return id, nil
}

// ReadInformation reads the card behind t. See Reader.ReadInformation.
func ReadInformation(t iso7816.Transmitter, includePhoto bool, opts ...Option) (*Identity, error) {
	return NewReader(t, opts...).ReadInformation(includePhoto)
}
