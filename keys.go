package sealbox

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Keys holds a secp256k1 signing keypair. The private scalar stays inside
// the struct; use [Keys.Wipe] to zeroize it when the keypair is no longer
// needed.
type Keys struct {
	priv   *btcec.PrivateKey
	pubHex string
}

// GenerateKeys creates a new random keypair. It is also the ephemeral-key
// factory for gift wrapping: generate, sign once, wipe.
func GenerateKeys() (*Keys, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return newKeys(priv), nil
}

// KeysFromHex builds a keypair from a hex-encoded 32-byte private scalar.
func KeysFromHex(privateKeyHex string) (*Keys, error) {
	raw, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", ErrInvalidKeyLength)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: private key is %d bytes, want 32", ErrInvalidKeyLength, len(raw))
	}

	priv, _ := btcec.PrivKeyFromBytes(raw)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("%w: private key is not a valid scalar", ErrInvalidKeyLength)
	}
	return newKeys(priv), nil
}

func newKeys(priv *btcec.PrivateKey) *Keys {
	return &Keys{
		priv:   priv,
		pubHex: hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey())),
	}
}

// PublicKeyHex returns the x-only public key as 64 hex characters.
func (k *Keys) PublicKeyHex() string {
	return k.pubHex
}

// PrivateKeyHex returns the private scalar as 64 hex characters. Handle
// with care: the caller owns the copy.
func (k *Keys) PrivateKeyHex() string {
	return hex.EncodeToString(k.priv.Serialize())
}

// Wipe zeroizes the private scalar. The keypair must not be used afterwards.
func (k *Keys) Wipe() {
	k.priv.Zero()
}

// privateKeyBytes returns a fresh copy of the 32-byte scalar. Callers
// zeroize the copy when done.
func (k *Keys) privateKeyBytes() []byte {
	return k.priv.Serialize()
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// decodePublicKeyHex decodes a 64-character x-only public key.
func decodePublicKeyHex(pubHex string) ([]byte, error) {
	raw, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not valid hex", ErrInvalidKeyLength)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: public key is %d bytes, want 32", ErrInvalidKeyLength, len(raw))
	}
	return raw, nil
}
