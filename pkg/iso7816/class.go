package iso7816

import (
	"fmt"
)

// Class Byte (CLA) according to ISO/IEC 7816-4.
//
// The identity card applet only answers the first interindustry range:
//
//	b8 b7 b6 b5 b4 b3 b2 b1
//	 0  0  x  C SM SM CH CH
//
// C is command chaining, SM the secure messaging indication and CH the
// logical channel (0-3). Anything with b8 set is proprietary and kept raw.

const (
	claProprietary = 0x80
	claFurther     = 0x40
	claChaining    = 0x10
	claSMMask      = 0x0C
	claChannelMask = 0x03
)

// SecureMessaging defines the security level applied to the APDU.
type SecureMessaging byte

const (
	SMNone         SecureMessaging = 0
	SMProprietary  SecureMessaging = 1
	SMHeaderNoProc SecureMessaging = 2
	SMHeaderAuth   SecureMessaging = 3
)

func (s SecureMessaging) String() string {
	switch s {
	case SMNone:
		return "None"
	case SMProprietary:
		return "Proprietary"
	case SMHeaderNoProc:
		return "ISO (Header not processed)"
	case SMHeaderAuth:
		return "ISO (Header authenticated)"
	default:
		return "Unknown"
	}
}

// Class represents the parsed CLA byte.
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8
}

// InterindustryClass is CLA 00: no chaining, no secure messaging, basic channel.
var InterindustryClass = Class{}

// NewClass decodes a raw CLA byte.
// Further interindustry classes (channels 4-19) are rejected.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	if cla&claProprietary != 0 {
		return Class{Raw: cla, IsProprietary: true}, nil
	}

	if cla&claFurther != 0 {
		return Class{}, fmt.Errorf("unsupported CLA 0x%02X: further interindustry range", cla)
	}

	return Class{
		Raw:             cla,
		IsChained:       cla&claChaining != 0,
		SecureMessaging: SecureMessaging((cla & claSMMask) >> 2),
		Channel:         cla & claChannelMask,
	}, nil
}

// NewInterindustryClass builds a first interindustry CLA from its parts.
func NewInterindustryClass(isChained bool, sm SecureMessaging, channel uint8) (Class, error) {
	if channel > 3 {
		return Class{}, fmt.Errorf("channel %d out of range (max 3)", channel)
	}
	if sm > SMHeaderAuth {
		return Class{}, fmt.Errorf("invalid secure messaging indicator %d", sm)
	}

	c := Class{
		IsChained:       isChained,
		SecureMessaging: sm,
		Channel:         channel,
	}
	c.Raw = c.Encode()

	return c, nil
}

// Encode converts the Class back to its byte representation.
func (c Class) Encode() byte {
	if c.IsProprietary {
		return c.Raw
	}

	var res byte
	if c.IsChained {
		res |= claChaining
	}
	res |= (byte(c.SecureMessaging) << 2) & claSMMask
	res |= c.Channel & claChannelMask

	return res
}

// Verbose returns a human-readable description of the CLA byte configuration.
func (c Class) Verbose() string {
	if c.IsProprietary {
		return fmt.Sprintf("Class: Proprietary (0x%02X)", c.Raw)
	}

	chaining := "Last or only command"
	if c.IsChained {
		chaining = "More commands follow (Chaining)"
	}

	return fmt.Sprintf(
		"Chaining: %s\nSecure Messaging: %s\nLogical Channel: %d",
		chaining, c.SecureMessaging, c.Channel,
	)
}
