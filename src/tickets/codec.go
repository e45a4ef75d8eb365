package tickets

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PayloadVersion is the current wire format of the QR payload. Older printed
// tickets keep working as long as their version stays in the accepted set.
const PayloadVersion = 1

// MaxPayloadBytes keeps encoded payloads well inside the QR capacity budget
// at error correction level H.
const MaxPayloadBytes = 300

// Payload is the self-contained content of a ticket QR code. The signature
// covers version, ticket id and event id, so a scanner can tell a forged
// code from one that simply is not in the store.
type Payload struct {
	Version   int    `json:"v"`
	TicketID  string `json:"t"`
	EventID   uint   `json:"e"`
	Signature string `json:"s"`
}

// Codec encodes ticket identities into signed payload strings and decodes
// scanned payloads back. The key is the raw HMAC-SHA256 key, hex-decoded
// from API_QRC_SECRET by the caller.
type Codec struct {
	key []byte
}

func NewCodec(key []byte) *Codec {
	return &Codec{key: key}
}

func (c *Codec) sign(version int, ticketID string, eventID uint) string {
	mac := hmac.New(sha256.New, c.key)
	fmt.Fprintf(mac, "%d|%s|%d", version, ticketID, eventID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Encode serializes the identity into the compact signed JSON carried inside
// the QR code.
func (c *Codec) Encode(identity Identity) (string, error) {
	p := Payload{
		Version:   PayloadVersion,
		TicketID:  identity.TicketID,
		EventID:   identity.EventID,
		Signature: c.sign(PayloadVersion, identity.TicketID, identity.EventID),
	}
	raw, err := json.Marshal(&p)
	if err != nil {
		return "", fmt.Errorf("could not marshal payload: %w", err)
	}
	if len(raw) > MaxPayloadBytes {
		return "", ErrEncodingTooLarge
	}
	return string(raw), nil
}

// Decode parses and verifies a scanned payload string. It either returns a
// well-formed payload or one of ErrInvalidFormat, ErrUnsupportedVersion,
// ErrBadSignature; there are no partial results.
func (c *Codec) Decode(s string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, ErrInvalidFormat
	}
	if p.TicketID == "" || p.EventID == 0 {
		return nil, ErrInvalidFormat
	}
	if p.Version != PayloadVersion {
		return nil, ErrUnsupportedVersion
	}
	want := c.sign(p.Version, p.TicketID, p.EventID)
	if !hmac.Equal([]byte(want), []byte(p.Signature)) {
		return nil, ErrBadSignature
	}
	return &p, nil
}
