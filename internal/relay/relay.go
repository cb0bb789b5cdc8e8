package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sealbox/client-go/event"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrConnClosed is returned when the connection has been closed.
	ErrConnClosed = errors.New("relay connection closed")

	// ErrSubscriptionExists is returned when a subscription id is reused.
	ErrSubscriptionExists = errors.New("subscription id already in use")
)

// PublishError is returned when the relay refuses a published event.
type PublishError struct {
	EventID string
	Reason  string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("relay rejected event %s: %s", e.EventID, e.Reason)
}

// Filter selects which events a subscription receives.
type Filter struct {
	IDs     []string `json:"ids,omitempty"`
	Kinds   []int    `json:"kinds,omitempty"`
	Authors []string `json:"authors,omitempty"`
	PTags   []string `json:"#p,omitempty"`
	Since   *int64   `json:"since,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// okResult is the relay's acknowledgement of a published event.
type okResult struct {
	accepted bool
	reason   string
}

// subscription routes matching events to its channel.
type subscription struct {
	events chan *event.Event
}

// Conn is a single relay connection. All methods are safe for concurrent
// use; writes are serialized over one websocket.
type Conn struct {
	ws  *websocket.Conn
	log *zap.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	subs    map[string]*subscription
	pending map[string]chan okResult
	closed  bool

	done chan struct{}
}

// config holds dial configuration.
type config struct {
	log         *zap.Logger
	dialTimeout time.Duration
}

// Option configures a relay connection.
type Option func(*config)

// WithLogger sets the logger. The connection is silent by default.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithDialTimeout bounds the websocket handshake.
func WithDialTimeout(d time.Duration) Option {
	return func(c *config) {
		c.dialTimeout = d
	}
}

// Dial connects to a relay websocket endpoint and starts the read loop.
func Dial(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	cfg := &config{
		log:         zap.NewNop(),
		dialTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.dialTimeout}
	ws, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", url, err)
	}

	c := &Conn{
		ws:      ws,
		log:     cfg.log.With(zap.String("relay", url)),
		subs:    make(map[string]*subscription),
		pending: make(map[string]chan okResult),
		done:    make(chan struct{}),
	}
	go c.readLoop()

	c.log.Debug("connected")
	return c, nil
}

// Publish sends an event and waits for the relay's acknowledgement.
func (c *Conn) Publish(ctx context.Context, ev *event.Event) error {
	ack := make(chan okResult, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrConnClosed
	}
	c.pending[ev.ID] = ack
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, ev.ID)
		c.mu.Unlock()
	}()

	if err := c.writeFrame("EVENT", ev); err != nil {
		return err
	}

	select {
	case res := <-ack:
		if !res.accepted {
			return &PublishError{EventID: ev.ID, Reason: res.reason}
		}
		return nil
	case <-c.done:
		return ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe opens a subscription. Events arrive on the returned channel
// until the context is cancelled or the connection closes.
func (c *Conn) Subscribe(ctx context.Context, id string, f Filter) (<-chan *event.Event, error) {
	sub := &subscription{events: make(chan *event.Event, 64)}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnClosed
	}
	if _, exists := c.subs[id]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionExists, id)
	}
	c.subs[id] = sub
	c.mu.Unlock()

	if err := c.writeFrame("REQ", id, f); err != nil {
		c.removeSub(id)
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			c.Unsubscribe(id)
		case <-c.done:
		}
	}()

	return sub.events, nil
}

// Unsubscribe closes a subscription and its channel. The sub leaves the map
// under mu before the close, and dispatch only sends while holding mu, so
// the close cannot race an in-flight send.
func (c *Conn) Unsubscribe(id string) {
	if sub := c.removeSub(id); sub != nil {
		_ = c.writeFrame("CLOSE", id)
		close(sub.events)
	}
}

// Close tears down the connection. Subscription channels are closed by the
// read loop on exit.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.ws.Close()
}

func (c *Conn) removeSub(id string) *subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := c.subs[id]
	delete(c.subs, id)
	return sub
}

// writeFrame sends a JSON array frame ["LABEL", args...].
func (c *Conn) writeFrame(label string, args ...interface{}) error {
	frame := append([]interface{}{label}, args...)
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", label, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s frame: %w", label, err)
	}
	return nil
}

// readLoop dispatches inbound frames until the connection errors or closes.
func (c *Conn) readLoop() {
	defer c.shutdown()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				c.log.Debug("read loop ended", zap.Error(err))
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Conn) dispatch(data []byte) {
	var frame []json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil || len(frame) == 0 {
		c.log.Debug("unparseable frame", zap.Error(err))
		return
	}

	var label string
	if err := json.Unmarshal(frame[0], &label); err != nil {
		return
	}

	switch label {
	case "EVENT":
		c.handleEvent(frame)
	case "OK":
		c.handleOK(frame)
	case "EOSE":
		c.handleEOSE(frame)
	case "NOTICE":
		var notice string
		if len(frame) > 1 {
			_ = json.Unmarshal(frame[1], &notice)
		}
		c.log.Info("relay notice", zap.String("notice", notice))
	case "CLOSED":
		if len(frame) > 1 {
			var id string
			if json.Unmarshal(frame[1], &id) == nil {
				if sub := c.removeSub(id); sub != nil {
					close(sub.events)
				}
			}
		}
	}
}

func (c *Conn) handleEvent(frame []json.RawMessage) {
	if len(frame) < 3 {
		return
	}
	var id string
	if err := json.Unmarshal(frame[1], &id); err != nil {
		return
	}
	ev, err := event.ParseWire(frame[2])
	if err != nil {
		c.log.Debug("unparseable event", zap.Error(err))
		return
	}

	// The send happens under mu, never blocking thanks to the default
	// branch. Unsubscribe removes the sub from the map under the same lock
	// before closing its channel, so a close can never land between the
	// lookup and the send.
	c.mu.Lock()
	sub := c.subs[id]
	if sub == nil {
		c.mu.Unlock()
		return
	}
	delivered := true
	select {
	case sub.events <- ev:
	default:
		delivered = false
	}
	c.mu.Unlock()

	if !delivered {
		// Slow consumer; dropping is preferable to stalling the whole
		// connection.
		c.log.Warn("subscription buffer full, dropping event",
			zap.String("subscription", id), zap.String("event", ev.ID))
	}
}

func (c *Conn) handleOK(frame []json.RawMessage) {
	if len(frame) < 3 {
		return
	}
	var id string
	var accepted bool
	if json.Unmarshal(frame[1], &id) != nil || json.Unmarshal(frame[2], &accepted) != nil {
		return
	}
	var reason string
	if len(frame) > 3 {
		_ = json.Unmarshal(frame[3], &reason)
	}

	c.mu.Lock()
	ack := c.pending[id]
	c.mu.Unlock()
	if ack != nil {
		ack <- okResult{accepted: accepted, reason: reason}
	}
}

func (c *Conn) handleEOSE(frame []json.RawMessage) {
	if len(frame) < 2 {
		return
	}
	var id string
	if json.Unmarshal(frame[1], &id) != nil {
		return
	}
	c.log.Debug("end of stored events", zap.String("subscription", id))
}

// shutdown closes all subscription channels and marks the connection dead.
func (c *Conn) shutdown() {
	c.mu.Lock()
	c.closed = true
	subs := c.subs
	c.subs = make(map[string]*subscription)
	c.mu.Unlock()

	close(c.done)
	for _, sub := range subs {
		close(sub.events)
	}
	_ = c.ws.Close()
}
