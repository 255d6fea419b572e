package ptyhost

import (
	"strings"
	"testing"
	"time"
)

func TestHostEchoRoundTrip(t *testing.T) {
	h, err := New(Options{Shell: "/bin/sh", Cols: 80, Rows: 24})
	if err != nil {
		t.Skipf("cannot allocate a pty in this environment: %v", err)
	}
	defer h.Shutdown()

	h.Write([]byte("echo marker-hello\n"))

	deadline := time.Now().Add(2 * time.Second)
	var got []byte
	for time.Now().Before(deadline) {
		h.Tick()
		data, eof := h.ReadAvailable()
		got = append(got, data...)
		if eof {
			break
		}
		if strings.Contains(string(got), "marker-hello") {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !strings.Contains(string(got), "marker-hello") {
		t.Fatalf("did not observe command output, got %q", string(got))
	}
}

func TestPendingBufferQueuesUnderBackpressure(t *testing.T) {
	h := &Host{}
	h.pending = append(h.pending, []byte("already-queued")...)
	h.Write([]byte("more"))
	if string(h.pending) != "already-queuedmore" {
		t.Fatalf("Write did not append to pending buffer when one was already queued: %q", h.pending)
	}
}
