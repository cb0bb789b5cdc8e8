package crypto

import "errors"

var (
	// ErrInvalidKeyLength is returned when a private or public key is not
	// exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrMessageTooShort is returned when a plaintext is empty.
	ErrMessageTooShort = errors.New("message is too short")

	// ErrMessageTooLong is returned when a plaintext exceeds 65535 bytes.
	ErrMessageTooLong = errors.New("message is too long")

	// ErrInvalidLength is returned when a padded container's embedded
	// length field is outside [1, 65535].
	ErrInvalidLength = errors.New("invalid embedded message length")

	// ErrInvalidPadding is returned when a padded container's actual size
	// does not match the size recomputed from its embedded length. This
	// covers both truncation and length-field tampering.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrPaddedMessageTooShort is returned when a padded container is
	// smaller than the minimum bucket plus length prefix.
	ErrPaddedMessageTooShort = errors.New("padded message is too short")

	// ErrPayloadTooShort is returned when a decoded payload is smaller
	// than the minimum version||nonce||ciphertext||tag frame.
	ErrPayloadTooShort = errors.New("payload is too short")

	// ErrUnsupportedVersion is returned when a payload's version byte is
	// not the supported protocol version.
	ErrUnsupportedVersion = errors.New("unsupported payload version")

	// ErrAuthenticationFailed is returned when the AEAD tag does not
	// verify. Wrong keys and tampered ciphertexts are deliberately
	// indistinguishable to callers.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrInvalidPayloadEncoding is returned when a payload is not valid
	// base64.
	ErrInvalidPayloadEncoding = errors.New("invalid payload encoding")
)
