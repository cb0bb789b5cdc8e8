package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func testConversationKey(t *testing.T) ConversationKey {
	t.Helper()
	var key ConversationKey
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatal(err)
	}
	return key
}

func TestEncrypt_DecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"single byte", "a"},
		{"31 bytes", strings.Repeat("x", 31)},
		{"32 bytes", strings.Repeat("x", 32)},
		{"33 bytes", strings.Repeat("x", 33)},
		{"1000 bytes", strings.Repeat("x", 1000)},
		{"max length", strings.Repeat("x", 65535)},
		{"utf-8", "héllo wörld 🎁"},
		{"json", `{"kind":14,"content":"hi"}`},
	}

	key := testConversationKey(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Encrypt(tt.message, key)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			decrypted, err := Decrypt(payload, key)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if decrypted != tt.message {
				t.Errorf("round trip altered the message")
			}
		})
	}
}

func TestEncrypt_PayloadFrame(t *testing.T) {
	key := testConversationKey(t)

	payload, err := Encrypt("hello", key)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("payload is not standard base64: %v", err)
	}

	if decoded[0] != Version {
		t.Errorf("version byte = %d, want %d", decoded[0], Version)
	}

	// "hello" pads to the 32-byte bucket plus the 2-byte prefix.
	wantLen := 1 + NonceSize + lenPrefixSize + 32 + TagSize
	if len(decoded) != wantLen {
		t.Errorf("payload = %d bytes, want %d", len(decoded), wantLen)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	key := testConversationKey(t)

	first, err := Encrypt("same message", key)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Encrypt("same message", key)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two encryptions of the same message produced identical payloads")
	}
}

func TestEncrypt_MessageBounds(t *testing.T) {
	key := testConversationKey(t)

	if _, err := Encrypt("", key); !errors.Is(err, ErrMessageTooShort) {
		t.Errorf("empty message error = %v, want %v", err, ErrMessageTooShort)
	}
	if _, err := Encrypt(strings.Repeat("x", 65536), key); !errors.Is(err, ErrMessageTooLong) {
		t.Errorf("oversized message error = %v, want %v", err, ErrMessageTooLong)
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	key := testConversationKey(t)
	other := testConversationKey(t)

	payload, err := Encrypt("secret", key)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decrypt(payload, other); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("wrong-key error = %v, want %v", err, ErrAuthenticationFailed)
	}
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := testConversationKey(t)

	payload, err := Encrypt("tamper target", key)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatal(err)
	}

	// Flip one bit at a time across the nonce, ciphertext and tag. Every
	// position must fail authentication.
	for pos := 1; pos < len(decoded); pos++ {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(decoded))
			copy(mutated, decoded)
			mutated[pos] ^= 1 << bit

			_, err := Decrypt(base64.StdEncoding.EncodeToString(mutated), key)
			if !errors.Is(err, ErrAuthenticationFailed) {
				t.Fatalf("bit %d of byte %d flipped: error = %v, want %v",
					bit, pos, err, ErrAuthenticationFailed)
			}
		}
	}
}

func TestDecrypt_RejectsBadFrames(t *testing.T) {
	key := testConversationKey(t)

	valid, err := Encrypt("frame checks", key)
	if err != nil {
		t.Fatal(err)
	}
	decoded, _ := base64.StdEncoding.DecodeString(valid)

	wrongVersion := make([]byte, len(decoded))
	copy(wrongVersion, decoded)
	wrongVersion[0] = 0x01

	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{"not base64", "!!! not base64 !!!", ErrInvalidPayloadEncoding},
		{"empty", "", ErrPayloadTooShort},
		{"below minimum", base64.StdEncoding.EncodeToString(decoded[:MinPayloadSize-1]), ErrPayloadTooShort},
		{"unknown version", base64.StdEncoding.EncodeToString(wrongVersion), ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.payload, key)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decrypt() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecrypt_IsDeterministic(t *testing.T) {
	key := testConversationKey(t)

	payload, err := Encrypt("determinism", key)
	if err != nil {
		t.Fatal(err)
	}

	first, err := Decrypt(payload, key)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decrypt(payload, key)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("decryption is not deterministic")
	}
}

func TestEncrypt_EndToEndWithDerivedKeys(t *testing.T) {
	aPriv, aPub := testKeypair(t)
	bPriv, bPub := testKeypair(t)

	senderKey, err := DeriveConversationKey(aPriv, bPub)
	if err != nil {
		t.Fatal(err)
	}
	receiverKey, err := DeriveConversationKey(bPriv, aPub)
	if err != nil {
		t.Fatal(err)
	}

	payload, err := Encrypt("across the wire", senderKey)
	if err != nil {
		t.Fatal(err)
	}
	decrypted, err := Decrypt(payload, receiverKey)
	if err != nil {
		t.Fatal(err)
	}
	if decrypted != "across the wire" {
		t.Errorf("decrypted = %q", decrypted)
	}
}

func TestEncrypt_UsesInjectedRandomness(t *testing.T) {
	restore := SetRandReaderForTesting(bytes.NewReader(bytes.Repeat([]byte{0x42}, NonceSize)))
	defer restore()

	key := testConversationKey(t)
	payload, err := Encrypt("fixed nonce", key)
	if err != nil {
		t.Fatal(err)
	}

	decoded, _ := base64.StdEncoding.DecodeString(payload)
	for _, b := range decoded[1 : 1+NonceSize] {
		if b != 0x42 {
			t.Fatalf("payload nonce does not come from the injected reader: %x", decoded[1:1+NonceSize])
		}
	}
}

func TestMessageKeys_DependOnNonce(t *testing.T) {
	key := testConversationKey(t)

	nonceA := make([]byte, NonceSize)
	nonceB := make([]byte, NonceSize)
	nonceB[0] = 1

	keyA, cnA, err := messageKeys(key, nonceA)
	if err != nil {
		t.Fatal(err)
	}
	keyB, cnB, err := messageKeys(key, nonceB)
	if err != nil {
		t.Fatal(err)
	}

	if string(keyA) == string(keyB) {
		t.Error("different nonces derived the same cipher key")
	}
	if string(cnA) == string(cnB) {
		t.Error("different nonces derived the same cipher nonce")
	}
	if len(keyA) != CipherKeySize || len(cnA) != CipherNonceSize {
		t.Errorf("derived sizes = %d/%d, want %d/%d", len(keyA), len(cnA), CipherKeySize, CipherNonceSize)
	}

	if _, _, err := messageKeys(key, nonceA[:NonceSize-1]); err == nil {
		t.Error("expected error for short nonce")
	}
}
