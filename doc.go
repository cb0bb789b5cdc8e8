// Package sealbox provides a Go client SDK for sending and receiving
// sealed private messages over a relay-based, decentralized network.
//
// A message travels through three nested layers. The innermost rumor is an
// unsigned message carrying the true timestamp. It is encrypted into a
// seal signed by the real sender, and the seal is encrypted into a gift
// wrap signed by a single-use ephemeral key. A relay observer sees only
// the ephemeral author, a randomized timestamp and the recipient tag.
//
// Basic usage:
//
//	keys, err := sealbox.GenerateKeys()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := sealbox.NewClient(ctx, "wss://relay.example.com", keys)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Send a message
//	id, err := client.SendMessage(ctx, recipientPubKey, "hello")
//
//	// Receive messages
//	messages, err := client.Messages(ctx)
//	for msg := range messages {
//	    fmt.Println(msg.SenderPubKey, msg.Content)
//	}
//
// The wrap and unwrap primitives ([CreateGiftWrap], [CreateReadReceipt],
// [Unwrap]) and the underlying authenticated encryption
// ([DeriveConversationKey], [Encrypt], [Decrypt]) are also exposed
// directly for callers that manage their own transport.
//
// # Security Model
//
//   - Confidentiality: only the recipient's private key decrypts either
//     layer.
//   - Sender authenticity: the seal's signature is verified against its
//     own claimed author key; a verified seal's author IS the sender.
//   - Sender anonymity: the gift wrap's author key is ephemeral, used
//     once, and zeroized immediately after signing. It carries no sender
//     information and must never be treated as an identity.
//   - Timestamp unlinkability: both outer timestamps are independently
//     randomized within a two-day window; only the inner rumor keeps the
//     true time.
//   - Length hiding: plaintexts are padded to size buckets before
//     encryption.
package sealbox
