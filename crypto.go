package sealbox

import (
	"github.com/sealbox/client-go/internal/crypto"
)

// ConversationKey is the 32-byte symmetric key shared by two parties.
// Deriving it from either side of a key pair yields the same value.
type ConversationKey [32]byte

// DeriveConversationKey derives the shared symmetric key from our private
// key and the counterparty's x-only public key, both hex-encoded.
func DeriveConversationKey(keys *Keys, theirPublicKeyHex string) (ConversationKey, error) {
	var key ConversationKey

	theirPub, err := decodePublicKeyHex(theirPublicKeyHex)
	if err != nil {
		return key, err
	}

	priv := keys.privateKeyBytes()
	defer zeroize(priv)

	derived, err := crypto.DeriveConversationKey(priv, theirPub)
	if err != nil {
		return key, wrapCryptoError(err)
	}
	return ConversationKey(derived), nil
}

// Encrypt encrypts a message under a conversation key and returns the
// base64-encoded payload. Message length is hidden up to a padding bucket.
func Encrypt(message string, key ConversationKey) (string, error) {
	payload, err := crypto.Encrypt(message, crypto.ConversationKey(key))
	if err != nil {
		return "", wrapCryptoError(err)
	}
	return payload, nil
}

// Decrypt authenticates and decrypts a base64-encoded payload produced by
// [Encrypt] under the same conversation key.
func Decrypt(payload string, key ConversationKey) (string, error) {
	message, err := crypto.Decrypt(payload, crypto.ConversationKey(key))
	if err != nil {
		return "", wrapCryptoError(err)
	}
	return message, nil
}
