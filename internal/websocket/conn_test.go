package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// dialTestConn upgrades against a throwaway server that drains inbound
// frames, and returns the wrapped client side.
func dialTestConn(t *testing.T) *Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer serverConn.Close()
		for {
			if _, _, err := serverConn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	raw, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	return NewConn(raw)
}

// One goroutine answers pings while another pushes progress events, the
// same split the organizer stream runs with. All writes must serialize
// through the connection's lock without error.
func TestConn_ConcurrentWriters(t *testing.T) {
	conn := dialTestConn(t)

	const rounds = 200
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := conn.WriteTyped(PongResponse{Event: EventPong}); err != nil {
				errs <- err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := conn.WriteTyped(ProgressResponse{Event: EventProgress}); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}
}

func TestConn_WriteError(t *testing.T) {
	conn := dialTestConn(t)

	if err := conn.WriteError("boom"); err != nil {
		t.Fatalf("WriteError: %v", err)
	}
}
