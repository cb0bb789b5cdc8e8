package event

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Event is the generic signed envelope exchanged with relays, serialized on
// the wire as {id, pubkey, created_at, kind, tags, content, sig}.
type Event struct {
	ID        string `json:"id"`
	PubKey    string `json:"pubkey"`
	CreatedAt int64  `json:"created_at"`
	Kind      int    `json:"kind"`
	Tags      Tags   `json:"tags"`
	Content   string `json:"content"`
	Sig       string `json:"sig"`
}

// Serialize returns the canonical form the identifier is computed over:
// the JSON array [0, pubkey, created_at, kind, tags, content] without HTML
// escaping.
func (e *Event) Serialize() []byte {
	tags := e.Tags
	if tags == nil {
		tags = Tags{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding an array of JSON-encodable values cannot fail.
	_ = enc.Encode([]interface{}{0, e.PubKey, e.CreatedAt, e.Kind, tags, e.Content})

	return bytes.TrimRight(buf.Bytes(), "\n")
}

// ComputeID returns the hex-encoded SHA-256 hash of the canonical
// serialization. Identifiers arriving from the network are never trusted;
// they are always recomputed.
func (e *Event) ComputeID() string {
	hash := sha256.Sum256(e.Serialize())
	return hex.EncodeToString(hash[:])
}

// Sign computes the identifier, signs it with a BIP-340 Schnorr signature
// and fills in ID, PubKey and Sig.
func (e *Event) Sign(priv *btcec.PrivateKey) error {
	e.PubKey = hex.EncodeToString(schnorr.SerializePubKey(priv.PubKey()))
	e.ID = e.ComputeID()

	digest := sha256.Sum256(e.Serialize())
	sig, err := schnorr.Sign(priv, digest[:])
	if err != nil {
		return fmt.Errorf("sign event: %w", err)
	}
	e.Sig = hex.EncodeToString(sig.Serialize())

	return nil
}

// CheckSignature verifies the event's signature against its own claimed
// author key and its recomputed identifier. The constant-time comparison is
// delegated to the schnorr implementation.
func (e *Event) CheckSignature() (bool, error) {
	pubBytes, err := hex.DecodeString(e.PubKey)
	if err != nil {
		return false, fmt.Errorf("invalid pubkey hex: %w", err)
	}
	pub, err := schnorr.ParsePubKey(pubBytes)
	if err != nil {
		return false, fmt.Errorf("invalid pubkey: %w", err)
	}

	sigBytes, err := hex.DecodeString(e.Sig)
	if err != nil {
		return false, fmt.Errorf("invalid signature hex: %w", err)
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false, fmt.Errorf("invalid signature: %w", err)
	}

	if e.ID != e.ComputeID() {
		return false, nil
	}

	digest := sha256.Sum256(e.Serialize())
	return sig.Verify(digest[:], pub), nil
}

// MarshalWire returns the JSON wire form of the event.
func (e *Event) MarshalWire() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseWire parses an event from its JSON wire form.
func ParseWire(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}
	return &e, nil
}
