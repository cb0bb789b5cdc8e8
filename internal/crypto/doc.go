// Package crypto implements the authenticated-encryption scheme used for
// sealed private messages.
//
// # Algorithm Suite
//
//   - secp256k1 ECDH: the conversation key is derived from one party's
//     private scalar and the other's x-only public key. Sorting the two
//     public keys into the HKDF salt makes the derivation symmetric, so
//     both parties compute the same key.
//
//   - HKDF-SHA-256 (RFC 5869): derives the conversation key from the ECDH
//     x-coordinate, and per-message cipher material from the conversation
//     key and a fresh 24-byte nonce.
//
//   - ChaCha20-Poly1305: authenticated encryption of the padded plaintext.
//     The 12-byte cipher nonce is HKDF output, never the payload nonce
//     itself.
//
// # Payload Format
//
// The wire payload is base64(version(1) || nonce(24) || ciphertext || tag(16)).
// Payloads below the minimum frame size or with an unknown version byte are
// rejected before any cryptographic work.
//
// # Length Hiding
//
// Plaintexts are framed as a 2-byte big-endian length prefix, the message,
// and zero padding up to a size bucket chosen by [CalcPaddedLen]. An
// observer of the ciphertext learns only the bucket, not the exact length.
//
// # Security Notes
//
// A failed Poly1305 tag check surfaces as [ErrAuthenticationFailed] whether
// the key was wrong or the payload was tampered with; callers must not try
// to tell the two apart. Conversation keys are 32 opaque bytes and are never
// persisted by this package.
package crypto
