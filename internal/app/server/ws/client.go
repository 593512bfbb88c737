package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrClientClosed  = errors.New("client closed")
	ErrSendQueueFull = errors.New("client send queue full")
)

// RuntimeClient is the registry-facing handle of one live connection:
// a buffered send queue drained by a dedicated write pump, so callers
// never block on a slow peer's socket.
type RuntimeClient struct {
	ctx      context.Context
	cancel   context.CancelFunc
	ws       *WebSocket
	userID   uuid.UUID
	endpoint string
	out      chan []byte
	once     sync.Once
}

func NewClient(
	parent context.Context,
	ws *WebSocket,
	userID uuid.UUID,
	endpoint string,
) *RuntimeClient {
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:      ctx,
		cancel:   cancel,
		ws:       ws,
		userID:   userID,
		endpoint: endpoint,
		out:      make(chan []byte, 256),
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) UserID() uuid.UUID { return c.userID }
func (c *RuntimeClient) Endpoint() string  { return c.endpoint }

// Send queues data for the write pump. It never blocks: a stalled peer
// fills the queue and subsequent sends fail until the read loop notices
// the disconnect and the registry drops the handle.
func (c *RuntimeClient) Send(_ context.Context, data []byte) error {
	if c.ctx.Err() != nil {
		return ErrClientClosed
	}
	select {
	case c.out <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientClosed
	default:
		return ErrSendQueueFull
	}
}

func (c *RuntimeClient) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			_ = c.ws.WriteMessage(data)
		}
	}
}
