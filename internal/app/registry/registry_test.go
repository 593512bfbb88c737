package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient satisfies contracts.Client for registry and announcer tests.
type fakeClient struct {
	user     uuid.UUID
	endpoint string
	failSend bool

	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func newFakeClient(user uuid.UUID, endpoint string) *fakeClient {
	return &fakeClient{user: user, endpoint: endpoint}
}

func (c *fakeClient) UserID() uuid.UUID { return c.user }
func (c *fakeClient) Endpoint() string  { return c.endpoint }

func (c *fakeClient) Send(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend || c.closed {
		return errors.New("connection closed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.sent = append(c.sent, cp)
	return nil
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeClient) lastSent() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return nil
	}
	return c.sent[len(c.sent)-1]
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegisterAndConnectionsOf(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()

	if r.IsUserConnected(user) {
		t.Fatal("user reported connected before any register")
	}

	a := newFakeClient(user, "10.0.0.1:1111")
	b := newFakeClient(user, "10.0.0.1:2222")
	r.Register(a)
	r.Register(b)

	if !r.IsUserConnected(user) {
		t.Fatal("user not reported connected after register")
	}
	conns := r.ConnectionsOf(user)
	if len(conns) != 2 {
		t.Fatalf("ConnectionsOf returned %d clients, want 2", len(conns))
	}
}

func TestDeregisterPrunesEmptyUser(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()
	a := newFakeClient(user, "10.0.0.1:1111")
	b := newFakeClient(user, "10.0.0.1:2222")
	r.Register(a)
	r.Register(b)

	r.Deregister(user, a.endpoint)
	if !r.IsUserConnected(user) {
		t.Fatal("user must stay connected while one endpoint remains")
	}
	if got := len(r.ConnectionsOf(user)); got != 1 {
		t.Fatalf("ConnectionsOf returned %d clients, want 1", got)
	}

	r.Deregister(user, b.endpoint)
	if r.IsUserConnected(user) {
		t.Fatal("user reported connected after last endpoint was removed")
	}
	if conns := r.ConnectionsOf(user); conns != nil {
		t.Fatalf("ConnectionsOf returned %v for a fully-deregistered user", conns)
	}
	if !a.isClosed() || !b.isClosed() {
		t.Fatal("registry must close handles it removes")
	}
}

func TestDeregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()

	// Never registered: must be a safe no-op.
	r.Deregister(user, "10.0.0.1:1111")

	c := newFakeClient(user, "10.0.0.1:1111")
	r.Register(c)
	r.Deregister(user, c.endpoint)
	r.Deregister(user, c.endpoint)

	if r.IsUserConnected(user) {
		t.Fatal("user still connected after deregister")
	}
}

func TestRegisterReplacesCollidingEndpoint(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()
	old := newFakeClient(user, "10.0.0.1:1111")
	r.Register(old)

	replacement := newFakeClient(user, "10.0.0.1:1111")
	r.Register(replacement)

	if !old.isClosed() {
		t.Fatal("replaced handle was not closed")
	}
	conns := r.ConnectionsOf(user)
	if len(conns) != 1 {
		t.Fatalf("ConnectionsOf returned %d clients, want 1", len(conns))
	}
	if conns[0] != replacement {
		t.Fatal("registry kept the stale handle instead of the replacement")
	}
}

func TestSendToUserReachesEveryEndpoint(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()
	a := newFakeClient(user, "10.0.0.1:1111")
	b := newFakeClient(user, "10.0.0.2:2222")
	r.Register(a)
	r.Register(b)

	msg := []byte(`{"announcement_type":"message/put"}`)
	r.SendToUser(context.Background(), user, msg)

	if a.sentCount() != 1 || b.sentCount() != 1 {
		t.Fatalf("send counts a=%d b=%d, want 1 and 1", a.sentCount(), b.sentCount())
	}
	if string(a.lastSent()) != string(msg) || string(b.lastSent()) != string(msg) {
		t.Fatal("endpoints received different payloads")
	}
}

func TestSendFailureDoesNotAbortFanOut(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()
	dead := newFakeClient(user, "10.0.0.1:1111")
	dead.failSend = true
	live := newFakeClient(user, "10.0.0.2:2222")
	r.Register(dead)
	r.Register(live)

	r.SendToUser(context.Background(), user, []byte("hello"))

	if live.sentCount() != 1 {
		t.Fatalf("live handle received %d sends, want 1", live.sentCount())
	}
}

func TestConnectionsOfReturnsSnapshot(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()
	a := newFakeClient(user, "10.0.0.1:1111")
	b := newFakeClient(user, "10.0.0.2:2222")
	r.Register(a)
	r.Register(b)

	snapshot := r.ConnectionsOf(user)
	r.Deregister(user, a.endpoint)
	r.Deregister(user, b.endpoint)

	if len(snapshot) != 2 {
		t.Fatalf("snapshot shrank to %d entries after deregister", len(snapshot))
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	r := NewRegistry(testLogger())
	user := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c := newFakeClient(user, uuid.NewString())
				r.Register(c)
				r.SendToUser(context.Background(), user, []byte("x"))
				r.Deregister(user, c.endpoint)
			}
		}(i)
	}
	wg.Wait()

	if r.IsUserConnected(user) {
		t.Fatal("registry leaked connections after churn")
	}
}
