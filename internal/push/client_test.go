package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeServer is a minimal push server: auth-first frame, then echoes
// or broadcasts test envelopes.
type fakeServer struct {
	t        *testing.T
	upgrader websocket.Upgrader

	mu        sync.Mutex
	conns     []*websocket.Conn
	received  []Envelope
	rejectAll bool
	tokens    []string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	fs := &fakeServer{t: t}
	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)
	return fs, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func (fs *fakeServer) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := fs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&auth); err != nil {
		_ = conn.Close()
		return
	}

	fs.mu.Lock()
	fs.tokens = append(fs.tokens, auth.Token)
	reject := fs.rejectAll
	fs.mu.Unlock()

	if reject || auth.Token == "" {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		return
	}
	_ = conn.WriteJSON(map[string]string{"status": "authenticated"})

	fs.mu.Lock()
	fs.conns = append(fs.conns, conn)
	fs.mu.Unlock()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		fs.mu.Lock()
		fs.received = append(fs.received, env)
		fs.mu.Unlock()
	}
}

func (fs *fakeServer) push(env Envelope) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, conn := range fs.conns {
		_ = conn.WriteJSON(env)
	}
}

func (fs *fakeServer) dropConnections() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, conn := range fs.conns {
		_ = conn.Close()
	}
	fs.conns = nil
}

func (fs *fakeServer) seenTokens() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]string, len(fs.tokens))
	copy(out, fs.tokens)
	return out
}

func (fs *fakeServer) emitted() []Envelope {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]Envelope, len(fs.received))
	copy(out, fs.received)
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestConnect_DispatchesSubscribedEvents(t *testing.T) {
	fs, srv := newFakeServer(t)

	client := NewClient(wsURL(srv), func() string { return "token-1" })
	defer client.Disconnect()

	var mu sync.Mutex
	var got []string
	client.Subscribe(EventNewMessage, func(data json.RawMessage) {
		var p NewMessagePayload
		_ = json.Unmarshal(data, &p)
		mu.Lock()
		got = append(got, p.Text)
		mu.Unlock()
	})
	// Second handler on the same event.
	var second int
	client.Subscribe(EventNewMessage, func(json.RawMessage) {
		mu.Lock()
		second++
		mu.Unlock()
	})

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if client.State() != StateConnected {
		t.Fatalf("expected CONNECTED, got %s", client.State())
	}

	data, _ := json.Marshal(NewMessagePayload{ID: "m1", Text: "hello"})
	fs.push(Envelope{Type: EventNewMessage, Data: data})

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && second == 1
	})
	mu.Lock()
	if got[0] != "hello" {
		t.Errorf("expected payload text hello, got %q", got[0])
	}
	mu.Unlock()
}

func TestEmit_ReachesServer(t *testing.T) {
	fs, srv := newFakeServer(t)

	client := NewClient(wsURL(srv), func() string { return "token-1" })
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	err := client.Emit(EventJoinShipmentChat, JoinShipmentChatPayload{ShipmentID: "s1"})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return len(fs.emitted()) == 1 })
	if fs.emitted()[0].Type != EventJoinShipmentChat {
		t.Errorf("unexpected event type %s", fs.emitted()[0].Type)
	}
}

func TestEmit_BeforeConnectDropsWithoutError(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/ws", func() string { return "t" })
	if err := client.Emit(EventSendMessage, SendMessagePayload{Text: "x"}); err != nil {
		t.Fatalf("emit before connect should drop silently, got %v", err)
	}
}

func TestConnect_AuthRejectionSurfaced(t *testing.T) {
	fs, srv := newFakeServer(t)
	fs.rejectAll = true

	client := NewClient(wsURL(srv), func() string { return "bad" })
	err := client.Connect(context.Background())
	if err == nil || err != ErrAuthRejected {
		t.Fatalf("expected ErrAuthRejected, got %v", err)
	}
	if client.State() != StateAuthFailed {
		t.Errorf("expected AUTH_FAILED state, got %s", client.State())
	}
}

func TestReconnect_UsesLatestToken(t *testing.T) {
	fs, srv := newFakeServer(t)

	var mu sync.Mutex
	token := "token-old"
	client := NewClient(wsURL(srv), func() string {
		mu.Lock()
		defer mu.Unlock()
		return token
	})
	client.SetRetryPolicy(3, 20*time.Millisecond)
	defer client.Disconnect()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	// Token rotates, then the connection drops.
	mu.Lock()
	token = "token-new"
	mu.Unlock()
	fs.dropConnections()

	waitFor(t, 3*time.Second, func() bool { return client.State() == StateConnected })

	tokens := fs.seenTokens()
	if tokens[len(tokens)-1] != "token-new" {
		t.Errorf("reconnect used cached token %q", tokens[len(tokens)-1])
	}
}

func TestDisconnect_Idempotent(t *testing.T) {
	_, srv := newFakeServer(t)

	client := NewClient(wsURL(srv), func() string { return "token-1" })
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	client.Disconnect()
	client.Disconnect()
	if client.State() != StateDisconnected {
		t.Errorf("expected DISCONNECTED, got %s", client.State())
	}
}

func TestBackoff_DoublesPerAttempt(t *testing.T) {
	t.Parallel()

	base := time.Second
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, w := range want {
		if got := Backoff(base, i+1); got != w {
			t.Errorf("attempt %d: got %v, want %v", i+1, got, w)
		}
	}
}

func TestStateChange_Notified(t *testing.T) {
	_, srv := newFakeServer(t)

	client := NewClient(wsURL(srv), func() string { return "token-1" })
	defer client.Disconnect()

	var mu sync.Mutex
	var states []State
	client.OnStateChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, s := range states {
			if s == StateConnected {
				return true
			}
		}
		return false
	})
}
