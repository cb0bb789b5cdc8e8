package crypto

const (
	// Version is the payload format version byte. Payloads carrying any
	// other version are rejected before any cryptographic work is done.
	Version byte = 2

	// ConversationKeySize is the size of a derived conversation key in bytes.
	ConversationKeySize = 32

	// PrivateKeySize is the size of a secp256k1 private scalar in bytes.
	PrivateKeySize = 32
	// PublicKeySize is the size of an x-only secp256k1 public key in bytes.
	PublicKeySize = 32

	// NonceSize is the size of the random per-message nonce carried in the
	// payload. It is the HKDF salt for message-key derivation, not the
	// cipher nonce itself.
	NonceSize = 24

	// CipherKeySize is the size of the derived ChaCha20-Poly1305 key.
	CipherKeySize = 32
	// CipherNonceSize is the size of the derived ChaCha20-Poly1305 nonce.
	CipherNonceSize = 12
	// TagSize is the size of the Poly1305 authentication tag.
	TagSize = 16

	// messageKeySize is the total HKDF output for per-message key material:
	// cipher key (32) || cipher nonce (12) || reserved (32). The reserved
	// tail is derived for format stability but unused.
	messageKeySize = 76

	// MinPlaintextSize and MaxPlaintextSize bound the encryptable message
	// length in bytes.
	MinPlaintextSize = 1
	MaxPlaintextSize = 65535

	// minPaddedLen is the smallest padding bucket.
	minPaddedLen = 32

	// lenPrefixSize is the big-endian length prefix in the padded container.
	lenPrefixSize = 2

	// MinPayloadSize is the smallest decoded payload accepted:
	// version (1) || nonce (24) || ciphertext (>= 32) || tag (16).
	MinPayloadSize = 1 + NonceSize + minPaddedLen + TagSize
)

// conversationKeyInfo is the HKDF info string for conversation-key
// derivation. It pins derived keys to this protocol.
var conversationKeyInfo = []byte("sealbox-conversation-key-v2")
