package push

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	defaultMaxRetries  = 5
	defaultBaseBackoff = time.Second
)

// State is the connection state of the push channel.
type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StateConnecting   State = "CONNECTING"
	StateConnected    State = "CONNECTED"

	// StateAuthFailed means the server rejected the auth handshake.
	// It is surfaced distinctly so the caller can decide what to do;
	// it does not end the session by itself.
	StateAuthFailed State = "AUTH_FAILED"
)

// ErrAuthRejected is returned by Connect when the handshake is refused.
var ErrAuthRejected = errors.New("push: auth handshake rejected")

// TokenFunc returns the current auth token. It is consulted on every
// connect attempt so rotated tokens are picked up on reconnect.
type TokenFunc func() string

// Handler receives the raw payload of a subscribed event.
type Handler func(data json.RawMessage)

// Client maintains a persistent bidirectional connection to the push
// server with authentication, bounded auto-reconnect, and typed event
// subscription/emission.
type Client struct {
	url         string
	token       TokenFunc
	dialer      *websocket.Dialer
	maxRetries  int
	baseBackoff time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	state     State
	handlers  map[string][]Handler
	stateSubs []func(State)
	closed    bool

	wmu sync.Mutex // gorilla conns allow a single concurrent writer
}

// NewClient creates a push channel client for the given ws:// URL.
func NewClient(url string, token TokenFunc) *Client {
	return &Client{
		url:         url,
		token:       token,
		dialer:      websocket.DefaultDialer,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
		state:       StateDisconnected,
		handlers:    make(map[string][]Handler),
	}
}

// SetRetryPolicy overrides the reconnect bound and base backoff.
func (c *Client) SetRetryPolicy(maxRetries int, baseBackoff time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxRetries = maxRetries
	c.baseBackoff = baseBackoff
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnStateChange registers a callback invoked on every state change.
func (c *Client) OnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateSubs = append(c.stateSubs, fn)
}

// Subscribe registers a handler for an event name. Multiple handlers
// per event are supported; handlers run on the read loop goroutine.
func (c *Client) Subscribe(event string, handler Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// Connect establishes the connection and authenticates. On transport
// failure after a successful Connect, the client reconnects on its own
// with bounded retries, re-reading the token each attempt.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	c.closed = false
	c.mu.Unlock()
	return c.connectOnce(ctx)
}

// connectOnce performs a single dial + auth handshake.
func (c *Client) connectOnce(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.setState(StateDisconnected)
		return err
	}

	// Auth-first frame: the server expects the token before anything
	// else and answers with an ack or an error.
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(map[string]string{"token": c.token()}); err != nil {
		_ = conn.Close()
		c.setState(StateDisconnected)
		return err
	}

	var ack struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	if err := conn.ReadJSON(&ack); err != nil {
		_ = conn.Close()
		c.setState(StateDisconnected)
		return err
	}
	if ack.Error != "" {
		_ = conn.Close()
		c.setState(StateAuthFailed)
		return ErrAuthRejected
	}

	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setState(StateConnected)

	connID := uuid.New().String()
	go c.readPump(conn, connID)
	go c.pinger(conn)
	return nil
}

// Emit sends an event to the server. Emitting while disconnected drops
// the message with a log line; it never panics and never blocks on a
// dead connection.
func (c *Client) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn := c.conn
	state := c.state
	c.mu.Unlock()

	if conn == nil || state != StateConnected {
		log.Printf("push: dropping %s emit, channel %s", event, state)
		return nil
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(Envelope{Type: event, Data: data})
}

// Disconnect closes the connection and releases all handlers. It is
// idempotent and suppresses auto-reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.handlers = make(map[string][]Handler)
	c.mu.Unlock()

	if conn != nil {
		c.wmu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wmu.Unlock()
		_ = conn.Close()
	}
	c.setState(StateDisconnected)
}

// readPump reads envelopes and dispatches them to subscribed handlers.
func (c *Client) readPump(conn *websocket.Conn, connID string) {
	defer func() { _ = conn.Close() }()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed || c.conn != conn
			c.mu.Unlock()
			if closed {
				return
			}
			log.Printf("push: connection %s lost: %v", connID, err)
			c.setState(StateDisconnected)
			go c.reconnect()
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("push: discarding malformed frame on %s: %v", connID, err)
			continue
		}

		c.mu.Lock()
		handlers := make([]Handler, len(c.handlers[env.Type]))
		copy(handlers, c.handlers[env.Type])
		c.mu.Unlock()

		for _, h := range handlers {
			h(env.Data)
		}
	}
}

// pinger keeps the connection alive; it exits when the write fails,
// which also wakes the read pump.
func (c *Client) pinger(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		stale := c.closed || c.conn != conn
		c.mu.Unlock()
		if stale {
			return
		}
		c.wmu.Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteMessage(websocket.PingMessage, nil)
		c.wmu.Unlock()
		if err != nil {
			return
		}
	}
}

// reconnect retries with doubling backoff up to the configured bound,
// re-reading the token on every attempt. Beyond the bound the client
// stays disconnected until an explicit Connect.
func (c *Client) reconnect() {
	c.mu.Lock()
	maxRetries, base := c.maxRetries, c.baseBackoff
	c.mu.Unlock()

	for attempt := 1; attempt <= maxRetries; attempt++ {
		time.Sleep(Backoff(base, attempt))

		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		log.Printf("push: reconnect attempt %d/%d", attempt, maxRetries)
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.connectOnce(ctx)
		cancel()
		if err == nil {
			return
		}
		if errors.Is(err, ErrAuthRejected) {
			// The server refused the token; retrying with the same
			// token will not help.
			return
		}
	}
	log.Printf("push: reconnect attempts exhausted")
}

// setState updates the state and notifies subscribers.
func (c *Client) setState(s State) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	subs := make([]func(State), len(c.stateSubs))
	copy(subs, c.stateSubs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Backoff returns the delay before the given 1-based attempt.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}
