package sealbox

import (
	"errors"

	"github.com/sealbox/client-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrInvalidKeyLength is returned when a key is not exactly 32 bytes
	// (or its hex form is malformed).
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrMessageTooShort is returned when a message is empty.
	ErrMessageTooShort = errors.New("message is too short")

	// ErrMessageTooLong is returned when a message exceeds 65535 bytes.
	ErrMessageTooLong = errors.New("message is too long")

	// ErrInvalidPadding is returned when a decrypted container fails the
	// padding-length check.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrInvalidLength is returned when a padded container embeds a length
	// outside the valid message range.
	ErrInvalidLength = errors.New("invalid embedded message length")

	// ErrPaddedMessageTooShort is returned when a decrypted container is
	// below the minimum padded size.
	ErrPaddedMessageTooShort = errors.New("padded message is too short")

	// ErrPayloadTooShort is returned when an encrypted payload is below
	// the minimum frame size.
	ErrPayloadTooShort = errors.New("payload is too short")

	// ErrUnsupportedVersion is returned when a payload carries an unknown
	// version byte.
	ErrUnsupportedVersion = errors.New("unsupported payload version")

	// ErrAuthenticationFailed is returned when AEAD authentication fails.
	// A wrong key and a tampered payload are deliberately reported the
	// same way.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrWrongKind is returned when an envelope's kind does not match the
	// layer being unwrapped.
	ErrWrongKind = errors.New("unexpected event kind")

	// ErrSignatureInvalid is returned when a seal's signature does not
	// verify against its own author key.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrMalformedJSON is returned when a decrypted blob does not parse
	// into the expected structure.
	ErrMalformedJSON = errors.New("malformed message JSON")

	// ErrClientClosed is returned when operations are attempted on a
	// closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrPublishRejected is returned when the relay refuses a published
	// event.
	ErrPublishRejected = errors.New("relay rejected the event")
)

// wrapCryptoError converts internal crypto errors to public sentinel errors
// so that errors.Is() checks work correctly.
func wrapCryptoError(err error) error {
	if err == nil {
		return nil
	}

	for internal, public := range cryptoErrorMap {
		if errors.Is(err, internal) {
			return public
		}
	}
	return err
}

var cryptoErrorMap = map[error]error{
	crypto.ErrInvalidKeyLength:       ErrInvalidKeyLength,
	crypto.ErrMessageTooShort:        ErrMessageTooShort,
	crypto.ErrMessageTooLong:         ErrMessageTooLong,
	crypto.ErrInvalidPadding:         ErrInvalidPadding,
	crypto.ErrInvalidLength:          ErrInvalidLength,
	crypto.ErrPaddedMessageTooShort:  ErrPaddedMessageTooShort,
	crypto.ErrPayloadTooShort:        ErrPayloadTooShort,
	crypto.ErrUnsupportedVersion:     ErrUnsupportedVersion,
	crypto.ErrAuthenticationFailed:   ErrAuthenticationFailed,
	crypto.ErrInvalidPayloadEncoding: ErrAuthenticationFailed,
}
