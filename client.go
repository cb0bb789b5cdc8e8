package sealbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sealbox/client-go/internal/relay"
)

// Client connects a local keypair to a relay for sending and receiving
// sealed private messages.
type Client struct {
	keys *Keys
	conn *relay.Conn
	log  *zap.Logger

	mu     sync.Mutex
	closed bool
	subSeq int
}

// NewClient dials the relay and returns a client bound to the given keys.
func NewClient(ctx context.Context, relayURL string, keys *Keys, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		log:         zap.NewNop(),
		dialTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	conn, err := relay.Dial(ctx, relayURL,
		relay.WithLogger(cfg.log),
		relay.WithDialTimeout(cfg.dialTimeout),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		keys: keys,
		conn: conn,
		log:  cfg.log,
	}, nil
}

// PublicKeyHex returns the client's own public key.
func (c *Client) PublicKeyHex() string {
	return c.keys.PublicKeyHex()
}

// SendMessage gift wraps a chat message and publishes it. It returns the
// gift wrap's event identifier, which the recipient sees as the message's
// deduplication key.
func (c *Client) SendMessage(ctx context.Context, recipientPubKeyHex, content string, opts ...MessageOption) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}

	gw, err := CreateGiftWrap(c.keys, recipientPubKeyHex, content, opts...)
	if err != nil {
		return "", err
	}

	if err := c.conn.Publish(ctx, gw); err != nil {
		return "", wrapRelayError(err)
	}

	c.log.Debug("message published", zap.String("event", gw.ID))
	return gw.ID, nil
}

// SendReadReceipt gift wraps a read receipt for the given message and
// publishes it.
func (c *Client) SendReadReceipt(ctx context.Context, recipientPubKeyHex, messageEventID string) error {
	if err := c.check(); err != nil {
		return err
	}

	gw, err := CreateReadReceipt(c.keys, recipientPubKeyHex, messageEventID)
	if err != nil {
		return err
	}

	if err := c.conn.Publish(ctx, gw); err != nil {
		return wrapRelayError(err)
	}
	return nil
}

// Close tears down the relay connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.conn.Close()
}

func (c *Client) check() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

func (c *Client) nextSubID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subSeq++
	return fmt.Sprintf("sealbox-%d", c.subSeq)
}

// wrapRelayError converts relay errors to public sentinel errors.
func wrapRelayError(err error) error {
	if err == nil {
		return nil
	}

	var pubErr *relay.PublishError
	if errors.As(err, &pubErr) {
		return fmt.Errorf("%w: %s", ErrPublishRejected, pubErr.Reason)
	}
	if errors.Is(err, relay.ErrConnClosed) {
		return ErrClientClosed
	}
	return err
}
