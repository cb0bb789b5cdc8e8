package sealbox

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/sealbox/client-go/event"
	"github.com/sealbox/client-go/internal/crypto"
)

// Envelope kinds of the two outer layers.
const (
	// KindSeal is the signed envelope authored by the true sender.
	KindSeal = 13
	// KindGiftWrap is the signed envelope authored by a single-use
	// ephemeral key.
	KindGiftWrap = 1059
)

// timestampWindow bounds the randomization applied to outer-layer
// timestamps: created_at = now + uniform(-window, +window).
const timestampWindow = 2 * 24 * time.Hour

// rumor is the unsigned innermost message. It never carries a signature
// field and is never transmitted on its own.
type rumor struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      event.Tags `json:"tags"`
	Content   string     `json:"content"`
}

// computeID returns the rumor's content identifier: the same canonical-hash
// scheme signed envelopes use, applied to an object that is never signed.
func (r *rumor) computeID() string {
	view := event.Event{
		PubKey:    r.PubKey,
		CreatedAt: r.CreatedAt,
		Kind:      r.Kind,
		Tags:      r.Tags,
		Content:   r.Content,
	}
	return view.ComputeID()
}

func (r *rumor) marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("marshal rumor: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// CreateGiftWrap wraps a chat message for a recipient.
//
// The content is placed in an unsigned rumor carrying the true timestamp,
// sealed under the sender's key, and gift wrapped under a freshly generated
// ephemeral key. The ephemeral private key is zeroized before returning,
// and the two outer timestamps are independently randomized so neither
// layer correlates with the send time.
func CreateGiftWrap(sender *Keys, recipientPubKeyHex string, content string, opts ...MessageOption) (*event.Event, error) {
	cfg := &messageConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	tags := event.Tags{{"p", recipientPubKeyHex}}
	if cfg.replyToEventID != "" {
		tags = append(tags, event.Tag{"e", cfg.replyToEventID, "", "reply"})
	}

	return wrapRumor(sender, recipientPubKeyHex, &rumor{
		CreatedAt: time.Now().Unix(),
		Kind:      KindChatMessage,
		Tags:      tags,
		Content:   content,
	})
}

// CreateReadReceipt wraps a read receipt for the message with the given
// identifier. Same pipeline as [CreateGiftWrap] with an empty content.
func CreateReadReceipt(sender *Keys, recipientPubKeyHex string, messageEventID string) (*event.Event, error) {
	return wrapRumor(sender, recipientPubKeyHex, &rumor{
		CreatedAt: time.Now().Unix(),
		Kind:      KindReadReceipt,
		Tags: event.Tags{
			{"p", recipientPubKeyHex},
			{"e", messageEventID},
		},
	})
}

// wrapRumor runs the two encryption layers: rumor -> seal -> gift wrap.
func wrapRumor(sender *Keys, recipientPubKeyHex string, r *rumor) (*event.Event, error) {
	r.PubKey = sender.PublicKeyHex()
	r.ID = r.computeID()

	rumorJSON, err := r.marshal()
	if err != nil {
		return nil, err
	}

	sealKey, err := DeriveConversationKey(sender, recipientPubKeyHex)
	if err != nil {
		return nil, err
	}
	sealContent, err := Encrypt(string(rumorJSON), sealKey)
	if err != nil {
		return nil, err
	}

	sealTime, err := randomizedTimestamp()
	if err != nil {
		return nil, err
	}
	seal := &event.Event{
		CreatedAt: sealTime,
		Kind:      KindSeal,
		Tags:      event.Tags{},
		Content:   sealContent,
	}
	if err := seal.Sign(sender.priv); err != nil {
		return nil, err
	}

	sealJSON, err := seal.MarshalWire()
	if err != nil {
		return nil, err
	}

	ephemeral, err := GenerateKeys()
	if err != nil {
		return nil, err
	}
	defer ephemeral.Wipe()

	wrapKey, err := DeriveConversationKey(ephemeral, recipientPubKeyHex)
	if err != nil {
		return nil, err
	}
	wrapContent, err := Encrypt(string(sealJSON), wrapKey)
	if err != nil {
		return nil, err
	}

	wrapTime, err := randomizedTimestamp()
	if err != nil {
		return nil, err
	}
	giftWrap := &event.Event{
		CreatedAt: wrapTime,
		Kind:      KindGiftWrap,
		Tags:      event.Tags{{"p", recipientPubKeyHex}},
		Content:   wrapContent,
	}
	if err := giftWrap.Sign(ephemeral.priv); err != nil {
		return nil, err
	}

	return giftWrap, nil
}

// Unwrap reverses both encryption layers of a gift wrap and returns the
// private message inside.
//
// The gift wrap's author key is the untrusted ephemeral key and only feeds
// the outer decryption. The sender's identity comes exclusively from the
// seal, whose signature is verified against its own claimed author key.
// Any failure at any stage aborts the whole operation; no partial message
// is ever returned.
func Unwrap(giftWrap *event.Event, recipient *Keys) (*PrivateMessage, error) {
	if giftWrap.Kind != KindGiftWrap {
		return nil, fmt.Errorf("%w: got kind %d, want %d", ErrWrongKind, giftWrap.Kind, KindGiftWrap)
	}

	outerKey, err := DeriveConversationKey(recipient, giftWrap.PubKey)
	if err != nil {
		return nil, err
	}
	sealJSON, err := Decrypt(giftWrap.Content, outerKey)
	if err != nil {
		return nil, err
	}

	seal, err := event.ParseWire([]byte(sealJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if seal.Kind != KindSeal {
		return nil, fmt.Errorf("%w: got kind %d, want %d", ErrWrongKind, seal.Kind, KindSeal)
	}

	// This is the step that authenticates the true sender. It must use the
	// seal's self-declared key, never anything derived from the gift wrap.
	ok, err := seal.CheckSignature()
	if err != nil || !ok {
		return nil, ErrSignatureInvalid
	}

	innerKey, err := DeriveConversationKey(recipient, seal.PubKey)
	if err != nil {
		return nil, err
	}
	rumorJSON, err := Decrypt(seal.Content, innerKey)
	if err != nil {
		return nil, err
	}

	r, err := parseRumor([]byte(rumorJSON))
	if err != nil {
		return nil, err
	}
	// A seal may only carry its own author's rumor. Anything else is an
	// impersonation attempt.
	if r.PubKey != seal.PubKey {
		return nil, ErrSignatureInvalid
	}

	recipientPub := r.Tags.Value("p")
	if recipientPub == "" {
		recipientPub = recipient.PublicKeyHex()
	}

	return &PrivateMessage{
		EventID:         giftWrap.ComputeID(),
		SenderPubKey:    seal.PubKey,
		RecipientPubKey: recipientPub,
		Content:         r.Content,
		Timestamp:       time.Unix(r.CreatedAt, 0),
		Kind:            r.Kind,
		ReplyToEventID:  r.Tags.Value("e"),
	}, nil
}

// parseRumor decodes a decrypted rumor blob with full field validation.
// The blob comes from an untrusted source; a successful JSON parse alone
// proves nothing about its shape.
func parseRumor(data []byte) (*rumor, error) {
	var r rumor
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	if _, err := decodePublicKeyHex(r.PubKey); err != nil {
		return nil, fmt.Errorf("%w: rumor pubkey", ErrMalformedJSON)
	}
	if r.CreatedAt <= 0 {
		return nil, fmt.Errorf("%w: rumor timestamp", ErrMalformedJSON)
	}
	if r.ID != r.computeID() {
		return nil, fmt.Errorf("%w: rumor identifier does not match content", ErrMalformedJSON)
	}

	return &r, nil
}

// randomizedTimestamp returns now + uniform(-window, +window) seconds from
// the same injectable random source the payload cipher draws its nonces
// from. Falling back to the true timestamp on a randomness failure would
// silently break unlinkability, so the error is surfaced instead.
func randomizedTimestamp() (int64, error) {
	window := int64(timestampWindow / time.Second)

	n, err := rand.Int(crypto.RandReader(), big.NewInt(2*window+1))
	if err != nil {
		return 0, fmt.Errorf("randomize timestamp: %w", err)
	}

	return time.Now().Unix() + n.Int64() - window, nil
}
