package sealbox

import (
	"context"

	"go.uber.org/zap"

	"github.com/sealbox/client-go/internal/relay"
)

// Messages subscribes to gift wraps addressed to the client's key and
// unwraps them as they arrive. Wraps that fail to unwrap, whether malformed
// or addressed to someone else, are logged and dropped;
// a single bad inbound message must never take the stream down.
//
// The returned channel closes when the context is cancelled or the client
// closes.
func (c *Client) Messages(ctx context.Context) (<-chan *PrivateMessage, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	events, err := c.conn.Subscribe(ctx, c.nextSubID(), relay.Filter{
		Kinds: []int{KindGiftWrap},
		PTags: []string{c.keys.PublicKeyHex()},
	})
	if err != nil {
		return nil, err
	}

	messages := make(chan *PrivateMessage)
	go func() {
		defer close(messages)
		seen := make(map[string]struct{})

		for ev := range events {
			msg, err := Unwrap(ev, c.keys)
			if err != nil {
				c.log.Debug("dropping wrap that failed to unwrap",
					zap.String("event", ev.ID), zap.Error(err))
				continue
			}

			// Relays may deliver the same wrap more than once; the gift
			// wrap identifier is the dedup key.
			if _, dup := seen[msg.EventID]; dup {
				continue
			}
			seen[msg.EventID] = struct{}{}

			select {
			case messages <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return messages, nil
}
