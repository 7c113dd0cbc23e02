package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/ocean/renderer"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestHubSendsConfigThenFrames(t *testing.T) {
	h := NewHub(2, 3, 4)
	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)

	msg := read(t, conn)
	if msg.Type != TypeConfig || msg.Rows != 2 || msg.Cols != 3 {
		t.Fatalf("first message = %+v, want config 2x3", msg)
	}

	h.Publish(renderer.Frame{Iteration: 1, Predators: 2, Prey: 3, Rows: []string{"-f-", "S--"}})

	msg = read(t, conn)
	if msg.Type != TypeFrame || msg.Frame == nil {
		t.Fatalf("second message = %+v, want frame", msg)
	}
	if msg.Frame.Iteration != 1 || msg.Frame.Prey != 3 || msg.Frame.Rows[1] != "S--" {
		t.Errorf("frame = %+v", *msg.Frame)
	}
	if h.Clients() != 1 {
		t.Errorf("Clients = %d, want 1", h.Clients())
	}
}

func TestHubReplaysLatestFrame(t *testing.T) {
	h := NewHub(1, 1, 4)
	h.Publish(renderer.Frame{Iteration: 7, Rows: []string{"-"}})

	srv := httptest.NewServer(h)
	defer srv.Close()
	conn := dial(t, srv)

	if msg := read(t, conn); msg.Type != TypeConfig {
		t.Fatalf("first message = %+v, want config", msg)
	}
	msg := read(t, conn)
	if msg.Type != TypeFrame || msg.Frame.Iteration != 7 {
		t.Errorf("replayed = %+v, want frame 7", msg)
	}
}

func TestHubCloseSendsEnd(t *testing.T) {
	h := NewHub(1, 1, 4)
	srv := httptest.NewServer(h)
	defer srv.Close()
	conn := dial(t, srv)
	read(t, conn)

	h.Close()

	if msg := read(t, conn); msg.Type != TypeEnd {
		t.Errorf("message = %+v, want end", msg)
	}
	if h.Clients() != 0 {
		t.Errorf("Clients = %d after Close, want 0", h.Clients())
	}
	h.Close()
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	h := NewHub(1, 1, 1)
	for i := 0; i < 100; i++ {
		h.Publish(renderer.Frame{Iteration: i})
	}
	if h.Dropped() != 0 {
		t.Errorf("Dropped = %d, want 0 with no clients", h.Dropped())
	}
}

func TestSlowClientDropsFrames(t *testing.T) {
	h := NewHub(1, 1, 1)
	c := &client{send: make(chan Message, 1)}
	h.clients[c] = struct{}{}

	h.Publish(renderer.Frame{Iteration: 1})
	h.Publish(renderer.Frame{Iteration: 2})
	h.Publish(renderer.Frame{Iteration: 3})

	if h.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", h.Dropped())
	}
	if msg := <-c.send; msg.Frame.Iteration != 1 {
		t.Errorf("queued frame = %d, want 1", msg.Frame.Iteration)
	}
}
