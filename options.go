package sealbox

import (
	"time"

	"go.uber.org/zap"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	log         *zap.Logger
	dialTimeout time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WithLogger sets the logger for relay traffic and unwrap failures. The
// client is silent by default.
func WithLogger(log *zap.Logger) Option {
	return func(c *clientConfig) {
		c.log = log
	}
}

// WithDialTimeout bounds the relay websocket handshake.
func WithDialTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.dialTimeout = d
	}
}
