package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// randReader is the random source used for nonce generation. It defaults to
// nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Encrypt encrypts a message under a conversation key and returns the
// base64-encoded payload.
//
// The payload nonce is 24 random bytes. The actual cipher key and nonce are
// derived from (conversationKey, payload nonce) via HKDF, so every message
// is sealed under fresh, independent key material even if an observer
// replays or deduplicates the outer nonce value.
func Encrypt(message string, key ConversationKey) (string, error) {
	plaintext := []byte(message)
	if len(plaintext) > MaxPlaintextSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrMessageTooLong, len(plaintext), MaxPlaintextSize)
	}

	padded, err := pad(plaintext)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(RandReader(), nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	return encryptWithNonce(padded, key, nonce)
}

// encryptWithNonce seals a padded plaintext under the key material derived
// from the given payload nonce and assembles the versioned frame.
func encryptWithNonce(padded []byte, key ConversationKey, nonce []byte) (string, error) {
	cipherKey, cipherNonce, err := messageKeys(key, nonce)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.New(cipherKey)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	ciphertext := aead.Seal(nil, cipherNonce, padded, nil)

	payload := make([]byte, 0, 1+NonceSize+len(ciphertext))
	payload = append(payload, Version)
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)

	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt authenticates and decrypts a base64-encoded payload under a
// conversation key.
//
// A wrong key and a tampered payload both surface as
// [ErrAuthenticationFailed]; the two cases are deliberately not
// distinguishable from the error.
func Decrypt(payload string, key ConversationKey) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPayloadEncoding, err)
	}

	if len(decoded) < MinPayloadSize {
		return "", fmt.Errorf("%w: %d bytes, want at least %d", ErrPayloadTooShort, len(decoded), MinPayloadSize)
	}
	if decoded[0] != Version {
		return "", fmt.Errorf("%w: version %d", ErrUnsupportedVersion, decoded[0])
	}

	nonce := decoded[1 : 1+NonceSize]
	ciphertext := decoded[1+NonceSize:]

	cipherKey, cipherNonce, err := messageKeys(key, nonce)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.New(cipherKey)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	padded, err := aead.Open(nil, cipherNonce, ciphertext, nil)
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	plaintext, err := unpad(padded)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// messageKeys derives the per-message cipher key and nonce from the
// conversation key and the payload nonce.
func messageKeys(key ConversationKey, nonce []byte) (cipherKey, cipherNonce []byte, err error) {
	if len(nonce) != NonceSize {
		return nil, nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrInvalidKeyLength, len(nonce), NonceSize)
	}

	material := make([]byte, messageKeySize)
	reader := hkdf.New(sha256.New, key[:], nonce, nil)
	if _, err := io.ReadFull(reader, material); err != nil {
		return nil, nil, fmt.Errorf("derive message keys: %w", err)
	}

	return material[:CipherKeySize], material[CipherKeySize : CipherKeySize+CipherNonceSize], nil
}

// RandReader returns the secure random source for all protocol randomness:
// payload nonces here and timestamp offsets in the wrap layer. It honors the
// override installed by SetRandReaderForTesting.
func RandReader() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}
