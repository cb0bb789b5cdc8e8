package sealbox

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveConversationKey_SymmetricAcrossParties(t *testing.T) {
	alice := testKeys(t)
	bob := testKeys(t)

	fromAlice, err := DeriveConversationKey(alice, bob.PublicKeyHex())
	if err != nil {
		t.Fatalf("DeriveConversationKey() error = %v", err)
	}
	fromBob, err := DeriveConversationKey(bob, alice.PublicKeyHex())
	if err != nil {
		t.Fatal(err)
	}
	if fromAlice != fromBob {
		t.Fatal("conversation key is not symmetric")
	}
}

func TestDeriveConversationKey_BadPublicKey(t *testing.T) {
	alice := testKeys(t)

	tests := []struct {
		name string
		pub  string
	}{
		{"empty", ""},
		{"not hex", strings.Repeat("zz", 32)},
		{"too short", strings.Repeat("ab", 31)},
		{"too long", strings.Repeat("ab", 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveConversationKey(alice, tt.pub)
			if !errors.Is(err, ErrInvalidKeyLength) {
				t.Errorf("error = %v, want %v", err, ErrInvalidKeyLength)
			}
		})
	}
}

func TestEncrypt_DecryptPublicSurface(t *testing.T) {
	alice := testKeys(t)
	bob := testKeys(t)

	key, err := DeriveConversationKey(alice, bob.PublicKeyHex())
	if err != nil {
		t.Fatal(err)
	}

	payload, err := Encrypt("over the public API", key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	message, err := Decrypt(payload, key)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if message != "over the public API" {
		t.Errorf("round trip altered the message: %q", message)
	}
}

func TestPublicErrors_MapToSentinels(t *testing.T) {
	alice := testKeys(t)
	bob := testKeys(t)

	key, err := DeriveConversationKey(alice, bob.PublicKeyHex())
	if err != nil {
		t.Fatal(err)
	}
	wrongKey, err := DeriveConversationKey(alice, testKeys(t).PublicKeyHex())
	if err != nil {
		t.Fatal(err)
	}

	payload, err := Encrypt("mapped", key)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"empty message", func() error { _, err := Encrypt("", key); return err }, ErrMessageTooShort},
		{"oversized message", func() error { _, err := Encrypt(strings.Repeat("x", 65536), key); return err }, ErrMessageTooLong},
		{"wrong key", func() error { _, err := Decrypt(payload, wrongKey); return err }, ErrAuthenticationFailed},
		{"short payload", func() error { _, err := Decrypt("AAAA", key); return err }, ErrPayloadTooShort},
		{"bad encoding", func() error { _, err := Decrypt("%%%", key); return err }, ErrAuthenticationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWrapCryptoError_PassesUnknownThrough(t *testing.T) {
	sentinel := errors.New("unrelated")
	if got := wrapCryptoError(sentinel); got != sentinel {
		t.Errorf("wrapCryptoError() = %v, want pass-through", got)
	}
	if got := wrapCryptoError(nil); got != nil {
		t.Errorf("wrapCryptoError(nil) = %v", got)
	}
}
