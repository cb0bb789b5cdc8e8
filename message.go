package sealbox

import "time"

// Message kinds carried by the innermost unsigned message.
const (
	// KindChatMessage is a plain chat message.
	KindChatMessage = 14
	// KindReadReceipt acknowledges that a message was read.
	KindReadReceipt = 15
)

// PrivateMessage is the result of a successful unwrap. It is never
// partially populated: unwrapping either fully succeeds or fails.
type PrivateMessage struct {
	// EventID is the gift wrap's identifier. Gift wraps are unique per
	// send, so this is a stable deduplication key.
	EventID string
	// SenderPubKey is the cryptographically authenticated sender: the
	// verified seal's author key, never the gift wrap's.
	SenderPubKey string
	// RecipientPubKey is the addressed recipient's public key.
	RecipientPubKey string
	// Content is the decrypted message text. Empty for read receipts.
	Content string
	// Timestamp is the message's true creation time. Unlike the outer
	// envelope timestamps it is not randomized, so conversation ordering
	// can rely on it.
	Timestamp time.Time
	// Kind is [KindChatMessage] or [KindReadReceipt].
	Kind int
	// ReplyToEventID is the replied-to message's identifier, if any. For
	// read receipts it is the acknowledged message's identifier.
	ReplyToEventID string
}

// IsReadReceipt reports whether the message is a read receipt.
func (m *PrivateMessage) IsReadReceipt() bool {
	return m.Kind == KindReadReceipt
}

// messageConfig holds configuration for an outgoing message.
type messageConfig struct {
	replyToEventID string
}

// MessageOption configures an outgoing message.
type MessageOption func(*messageConfig)

// WithReplyTo marks the outgoing message as a reply to an earlier message.
func WithReplyTo(eventID string) MessageOption {
	return func(c *messageConfig) {
		c.replyToEventID = eventID
	}
}
