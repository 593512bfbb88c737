package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// dialTestSocket upgrades against a throwaway server and returns the
// client-side conn plus a channel of frames the server receives.
func dialTestSocket(t *testing.T) (*websocket.Conn, <-chan []byte) {
	t.Helper()
	received := make(chan []byte, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("server upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- data
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, received
}

func TestClientSendDeliversFrames(t *testing.T) {
	conn, received := dialTestSocket(t)

	socket := NewWebSocket(context.Background(), conn)
	client := NewClient(context.Background(), socket, uuid.New(), "endpoint-1")
	defer client.Close()

	payload := []byte(`{"announcement_type":"message/put"}`)
	if err := client.Send(context.Background(), payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case got := <-received:
		if string(got) != string(payload) {
			t.Errorf("server received %q, want %q", got, payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("frame never reached the server")
	}
}

func TestClientSendAfterCloseFails(t *testing.T) {
	conn, _ := dialTestSocket(t)

	socket := NewWebSocket(context.Background(), conn)
	client := NewClient(context.Background(), socket, uuid.New(), "endpoint-1")

	client.Close()
	client.Close() // double close is a no-op

	err := client.Send(context.Background(), []byte("late"))
	if !errors.Is(err, ErrClientClosed) {
		t.Errorf("err = %v, want ErrClientClosed", err)
	}
}

func TestClientIdentity(t *testing.T) {
	conn, _ := dialTestSocket(t)
	socket := NewWebSocket(context.Background(), conn)

	userID := uuid.New()
	client := NewClient(context.Background(), socket, userID, "10.0.0.1:52114")
	defer client.Close()

	if client.UserID() != userID {
		t.Errorf("UserID = %s, want %s", client.UserID(), userID)
	}
	if client.Endpoint() != "10.0.0.1:52114" {
		t.Errorf("Endpoint = %s", client.Endpoint())
	}
}
