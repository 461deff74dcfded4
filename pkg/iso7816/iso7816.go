/*
Package iso7816 implements the parts of ISO/IEC 7816-3/4 needed to read
transparent files from a contact smart card: Command and Response APDUs,
Status Word analysis, SELECT and READ BINARY builders, and a Client that
applies the transport-level answers '61 XX' and '6C XX'.

# Fundamentals

Communication is strictly synchronous:
 1. The host sends a Command APDU (Header + optional Body).
 2. The card returns a Response APDU (optional Body + SW1 SW2).

# Status Words

  - 0x9000: Success.
  - 0x61XX: Success, XX more bytes are available through GET RESPONSE.
  - 0x6CXX: Wrong Le, XX is the length the card wants. The Client re-sends
    the command once with that length and fails with ErrRepeatedWrongLength
    if the card asks again.
  - Other: errors, reported as *StatusError by CheckStatus.

# Usage Example: reading a file by path

	client := iso7816.NewClient(card, nil)
	cls := iso7816.InterindustryClass

	trace, err := client.Send(iso7816.SelectByPath(cls, []byte{0x3F, 0x00, 0xDF, 0x01, 0x40, 0x31}))
	if err != nil {
	    log.Fatal(err)
	}
	if err := iso7816.CheckStatus(trace); err != nil {
	    log.Fatal(err)
	}

	trace, err = client.Send(iso7816.ReadBinary(cls, 0))
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("%X\n", trace.Data())
*/
package iso7816
