package keys

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// PublicKeyLength is the length of a Solana public key in bytes.
const PublicKeyLength = 32

// PublicKey represents an ed25519 public key, used on Solana to address
// accounts and programs. Its canonical textual form is base58.
type PublicKey [PublicKeyLength]byte

// NewPublicKeyFromString returns a PublicKey decoded from its base58
// representation.
func NewPublicKeyFromString(s string) (PublicKey, error) {
	var pk PublicKey
	b, err := base58.Decode(s)
	if err != nil {
		return pk, fmt.Errorf("invalid base58 key: %w", err)
	}
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("invalid key length: expected %d bytes got %d", PublicKeyLength, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// NewPublicKeyFromBytes returns a PublicKey built from the given byte slice.
func NewPublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("invalid key length: expected %d bytes got %d", PublicKeyLength, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// Bytes returns the key as a byte slice.
func (p PublicKey) Bytes() []byte {
	return p[:]
}

// String implements the Stringer interface, returning the base58 form.
func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

// Equals returns true if both keys are the same.
func (p PublicKey) Equals(other PublicKey) bool {
	return bytes.Equal(p[:], other[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pk, err := NewPublicKeyFromString(s)
	if err != nil {
		return err
	}
	*p = pk
	return nil
}
