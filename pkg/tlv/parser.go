// Package tlv maps BER-TLV (Tag-Length-Value) data onto Go structs through
// `tlv:"XX"` struct tags, and renders such structs as text reports.
package tlv

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/moov-io/bertlv"
)

// UnmarshalFromPackets maps pre-decoded packets onto the fields of target.
//
// Fields must be []byte: they receive the raw value, or the re-encoded
// children of a constructed tag. Packets matching no field land in the
// field tagged `tlv:",unknown"`.
func UnmarshalFromPackets(packets []bertlv.TLV, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}
	v = v.Elem()
	t := v.Type()

	consumed := make([]bool, len(packets))
	unknownIdx := -1

	for i := 0; i < v.NumField(); i++ {
		tagConfig := t.Field(i).Tag.Get("tlv")
		if tagConfig == "" {
			continue
		}
		if tagConfig == ",unknown" {
			unknownIdx = i
			continue
		}

		tagHex := strings.ToUpper(strings.Split(tagConfig, ",")[0])

		for idx, packet := range packets {
			if !strings.EqualFold(packet.Tag, tagHex) {
				continue
			}
			if err := decodeToValue(packet, v.Field(i)); err != nil {
				return fmt.Errorf("tag %s: %w", tagHex, err)
			}
			consumed[idx] = true
		}
	}

	if unknownIdx < 0 {
		return nil
	}

	var leftovers []bertlv.TLV
	for idx, packet := range packets {
		if !consumed[idx] {
			leftovers = append(leftovers, packet)
		}
	}
	if len(leftovers) > 0 {
		v.Field(unknownIdx).Set(reflect.ValueOf(leftovers))
	}

	return nil
}

func decodeToValue(packet bertlv.TLV, field reflect.Value) error {
	if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.Uint8 {
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	field.SetBytes(rawValue(packet))
	return nil
}

// rawValue returns the value bytes; a constructed packet is re-encoded from its children.
func rawValue(p bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}
