// Package ws is the client side of the table connection: one websocket to
// the authority, JSON envelopes in both directions.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/holdem-client/pkg/types"
)

var ErrAlreadyRunning = errors.New("client already running")

const (
	defaultWriteTimeout = 3 * time.Second
	defaultReadLimit    = 1 << 20
	writeBuffer         = 16
)

type Client struct {
	url          string
	log          *zap.Logger
	writeTimeout time.Duration

	onMessage func(types.ServerMessage)
	onOpen    func()
	onClose   func(error)

	mu      sync.Mutex
	running bool
	out     chan []byte // nil unless the socket is open
}

func NewClient(url string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		url:          url,
		log:          log.Named("ws").With(zap.String("url", url)),
		writeTimeout: defaultWriteTimeout,
	}
}

// Callbacks must be registered before Run. They run on the reader
// goroutine, one at a time, in arrival order.

func (c *Client) OnMessage(fn func(types.ServerMessage)) { c.onMessage = fn }
func (c *Client) OnOpen(fn func())                        { c.onOpen = fn }
func (c *Client) OnClose(fn func(error))                  { c.onClose = fn }

// Connected reports whether Send would currently reach the socket.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out != nil
}

// Send is fire-and-forget. While the socket is not open the command is
// dropped; nothing is queued for later.
func (c *Client) Send(t types.CommandType, payload any) {
	c.SendWithID(t, payload, "")
}

func (c *Client) SendWithID(t types.CommandType, payload any, requestID string) {
	data, err := json.Marshal(types.ClientMessage{Type: t, Payload: payload, RequestID: requestID})
	if err != nil {
		c.log.Error("encode command", zap.String("type", string(t)), zap.Error(err))
		return
	}

	c.mu.Lock()
	out := c.out
	c.mu.Unlock()
	if out == nil {
		c.log.Debug("not connected, dropping command", zap.String("type", string(t)))
		return
	}

	select {
	case out <- data:
	default:
		c.log.Warn("write buffer full, dropping command", zap.String("type", string(t)))
	}
}

// Run dials the authority and reads until the connection ends or ctx is
// cancelled. A normal close returns nil. There is no reconnect.
func (c *Client) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	conn, _, err := websocket.Dial(ctx, c.url, nil)
	if err != nil {
		err = fmt.Errorf("dial %s: %w", c.url, err)
		if c.onClose != nil {
			c.onClose(err)
		}
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(defaultReadLimit)

	out := make(chan []byte, writeBuffer)
	c.mu.Lock()
	c.out = out
	c.mu.Unlock()
	c.log.Info("connected")

	// Writer goroutine
	writeCtx, writeCancel := context.WithCancel(ctx)
	defer writeCancel()
	go c.writeLoop(writeCtx, conn, out)

	if c.onOpen != nil {
		c.onOpen()
	}

	err = c.readLoop(ctx, conn)

	c.mu.Lock()
	c.out = nil
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("connection lost", zap.Error(err))
	} else {
		c.log.Info("closed")
	}
	if c.onClose != nil {
		c.onClose(err)
	}
	return err
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Treat clean close/going-away and our own shutdown as normal.
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg types.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("bad message", zap.Error(err), zap.Int("bytes", len(data)))
			continue
		}
		if c.onMessage != nil {
			c.onMessage(msg)
		}
	}
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-out:
			wctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				c.log.Warn("write failed", zap.Error(err))
				return
			}
		}
	}
}
