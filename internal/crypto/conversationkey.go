package crypto

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/hkdf"
)

// ConversationKey is the symmetric key shared by two parties. Deriving it
// from (aPriv, bPub) and from (bPriv, aPub) yields the same value.
type ConversationKey [ConversationKeySize]byte

// DeriveConversationKey computes the shared symmetric key for a key pair.
//
// The shared secret is the x-coordinate of the ECDH product of the private
// scalar and the counterparty's point. X-only public keys are reconstructed
// with the even-y encoding. The HKDF salt is the two x-only public keys
// concatenated in lexicographic order, which is what makes the derivation
// commutative.
func DeriveConversationKey(myPrivateKey, theirPublicKey []byte) (ConversationKey, error) {
	var key ConversationKey

	if len(myPrivateKey) != PrivateKeySize {
		return key, fmt.Errorf("%w: private key is %d bytes, want %d",
			ErrInvalidKeyLength, len(myPrivateKey), PrivateKeySize)
	}
	if len(theirPublicKey) != PublicKeySize {
		return key, fmt.Errorf("%w: public key is %d bytes, want %d",
			ErrInvalidKeyLength, len(theirPublicKey), PublicKeySize)
	}

	priv := secp256k1PrivFromBytes(myPrivateKey)
	if priv == nil {
		return key, fmt.Errorf("%w: private key is not a valid scalar", ErrInvalidKeyLength)
	}
	defer priv.Zero()

	pub, err := parseXOnlyPubKey(theirPublicKey)
	if err != nil {
		return key, err
	}

	// RFC 5903 style ECDH: only the x-coordinate is used.
	shared := btcec.GenerateSharedSecret(priv, pub)

	myPub := schnorr.SerializePubKey(priv.PubKey())
	salt := sortedKeySalt(myPub, theirPublicKey)

	reader := hkdf.New(sha256.New, shared, salt, conversationKeyInfo)
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return key, fmt.Errorf("derive conversation key: %w", err)
	}

	return key, nil
}

// sortedKeySalt concatenates two x-only public keys in lexicographic byte
// order.
func sortedKeySalt(a, b []byte) []byte {
	salt := make([]byte, 0, len(a)+len(b))
	if bytes.Compare(a, b) <= 0 {
		salt = append(salt, a...)
		return append(salt, b...)
	}
	salt = append(salt, b...)
	return append(salt, a...)
}

// secp256k1PrivFromBytes parses a 32-byte scalar, returning nil when the
// scalar is zero or not reduced mod the curve order.
func secp256k1PrivFromBytes(b []byte) *btcec.PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(b)
	if priv.Key.IsZero() {
		return nil
	}
	return priv
}

// parseXOnlyPubKey reconstructs a full curve point from an x-only key,
// assuming the conventional even-y encoding.
func parseXOnlyPubKey(xOnly []byte) (*btcec.PublicKey, error) {
	compressed := make([]byte, 0, 1+PublicKeySize)
	compressed = append(compressed, 0x02)
	compressed = append(compressed, xOnly...)

	pub, err := btcec.ParsePubKey(compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: public key is not a point on the curve", ErrInvalidKeyLength)
	}
	return pub, nil
}
