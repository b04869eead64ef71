package websocket

import "testing"

func TestSendNeverBlocksOnAFullBuffer(t *testing.T) {
	cl := &WSClient{
		Message: make(chan outbound, 1),
		ID:      "sess-a",
		done:    make(chan struct{}),
	}

	if !cl.Send("chat-message", "first") {
		t.Fatal("send into empty buffer refused")
	}
	// No pump is draining; the second send must be refused, not block.
	if cl.Send("chat-message", "second") {
		t.Fatal("send into full buffer accepted")
	}
}

func TestSendRefusedAfterShutdown(t *testing.T) {
	cl := &WSClient{
		Message: make(chan outbound, 4),
		ID:      "sess-a",
		done:    make(chan struct{}),
	}
	close(cl.done)

	if cl.Send("chat-message", "late") {
		t.Fatal("send accepted after the session finished")
	}
}
