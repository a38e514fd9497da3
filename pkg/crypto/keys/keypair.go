/*
Package keys provides Solana key material: ed25519 keypairs and base58
encoded public keys.
*/
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"
)

// SeedLength is the length of an ed25519 private key seed in bytes.
const SeedLength = ed25519.SeedSize

// Keypair represents an ed25519 keypair and provides a high level API
// around ed25519.PrivateKey.
type Keypair struct {
	priv ed25519.PrivateKey
}

// NewKeypair creates a new random keypair.
func NewKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: priv}, nil
}

// NewKeypairFromSeed returns a Keypair deterministically derived from the
// given 32-byte seed.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, fmt.Errorf("invalid seed length: expected %d bytes got %d", SeedLength, len(seed))
	}
	return &Keypair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// NewKeypairFromMnemonic returns a Keypair derived from a BIP-39 mnemonic
// sentence and an optional passphrase. The first 32 bytes of the BIP-39
// seed are used as the ed25519 seed.
func NewKeypairFromMnemonic(mnemonic, passphrase string) (*Keypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic sentence")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	return NewKeypairFromSeed(seed[:SeedLength])
}

// NewKeypairFromString returns a Keypair decoded from the base58 form of
// its 64-byte private key.
func NewKeypairFromString(s string) (*Keypair, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 key: %w", err)
	}
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid key length: expected %d bytes got %d", ed25519.PrivateKeySize, len(b))
	}
	return &Keypair{priv: ed25519.PrivateKey(b)}, nil
}

// PublicKey returns the public part of the keypair.
func (k *Keypair) PublicKey() PublicKey {
	var pk PublicKey
	copy(pk[:], k.priv.Public().(ed25519.PublicKey))
	return pk
}

// Sign signs the given message and returns the 64-byte signature.
func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

// String implements the Stringer interface, returning the base58 form of
// the private key.
func (k *Keypair) String() string {
	return base58.Encode(k.priv)
}
