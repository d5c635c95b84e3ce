package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/flip/fluid"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubPublish(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	defer h.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(t, func() bool { return h.Clients() == 1 })

	frame := &Frame{Tick: 7, Radius: 0.01, X: []float32{0.5}, Y: []float32{0.25}, Color: []uint32{0x0000ff}}
	if err := h.Publish(frame); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Frame
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Tick != 7 || len(got.X) != 1 || got.X[0] != 0.5 || got.Color[0] != 0x0000ff {
		t.Errorf("unexpected frame %+v", got)
	}

	conn.Close()
	waitFor(t, func() bool { return h.Clients() == 0 })
}

func TestHubDropsForSlowClient(t *testing.T) {
	h := NewHub(nil)
	slow := &client{send: make(chan []byte, 1)}
	h.clients[slow] = struct{}{}

	for i := 0; i < 3; i++ {
		if err := h.Publish(&Frame{Tick: int32(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if h.Published() != 1 || h.Dropped() != 2 {
		t.Errorf("published %d dropped %d, want 1 and 2", h.Published(), h.Dropped())
	}

	h.Close()
	if h.Clients() != 0 {
		t.Error("clients remain after close")
	}
	// Removing an already closed client is a no-op.
	h.remove(slow)
}

func TestListenAndServeShutdown(t *testing.T) {
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestFrameFromSnapshot(t *testing.T) {
	snap := fluid.Snapshot{
		Step:           3,
		SimTime:        0.05,
		ParticleRadius: 0.02,
		PosX:           []float64{0.1, 0.2},
		PosY:           []float64{0.3, 0.4},
		Color:          []fluid.RGB{{R: 1}, {B: 1}},
		Obstacles:      []fluid.Obstacle{{X: 1, Y: 1, Radius: 0.1}},
	}

	var f Frame
	FrameFromSnapshot(&f, 9, &snap)
	if f.Tick != 9 || len(f.X) != 2 || len(f.Obstacles) != 1 {
		t.Fatalf("unexpected frame %+v", f)
	}
	if f.Color[0] != 0xff0000 || f.Color[1] != 0x0000ff {
		t.Errorf("colors = %06x %06x", f.Color[0], f.Color[1])
	}

	// Buffers are reused and trimmed.
	snap.PosX, snap.PosY, snap.Color = snap.PosX[:1], snap.PosY[:1], snap.Color[:1]
	FrameFromSnapshot(&f, 10, &snap)
	if len(f.X) != 1 || len(f.Color) != 1 {
		t.Errorf("frame not trimmed: %d particles", len(f.X))
	}
}

func TestPackRGB(t *testing.T) {
	tests := []struct {
		name string
		c    fluid.RGB
		want uint32
	}{
		{"black", fluid.RGB{}, 0},
		{"white", fluid.RGB{R: 1, G: 1, B: 1}, 0xffffff},
		{"clamped", fluid.RGB{R: 2, G: -1, B: 0.5}, 0xff0080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackRGB(tt.c); got != tt.want {
				t.Errorf("PackRGB(%+v) = %06x, want %06x", tt.c, got, tt.want)
			}
		})
	}
}
