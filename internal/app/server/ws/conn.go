package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	maxMessageSize = 512 * 1024
)

type WebSocket struct {
	*websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWebSocket(parent context.Context, conn *websocket.Conn) *WebSocket {
	ctx, cancel := context.WithCancel(parent)
	return &WebSocket{Conn: conn, ctx: ctx, cancel: cancel}
}

func (w *WebSocket) WriteMessage(data []byte) error {
	w.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return w.Conn.WriteMessage(websocket.TextMessage, data)
}

// ReadLoop blocks on inbound frames until the transport closes. Each
// frame is decoded as opaque JSON and handed to onMsg; a malformed
// payload is logged and skipped, never fatal to the connection.
func (w *WebSocket) ReadLoop(log *slog.Logger, onMsg func(v any)) {
	defer w.Close()

	w.Conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := w.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Warn("ws - read loop - unexpected close", "err", err)
			}
			break
		}
		if len(data) == 0 {
			continue
		}

		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			log.Warn("ws - read loop - malformed client payload", "err", err)
			continue
		}
		if onMsg != nil {
			onMsg(v)
		}
	}
}

func (w *WebSocket) Close() {
	w.cancel()
	_ = w.Conn.Close()
}
