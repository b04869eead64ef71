package room

import (
	"fmt"
	"reflect"
	"testing"
)

// canvas replays a whiteboard event stream the way a client would: a
// whiteboard-state snapshot resets it, draw events append, clear wipes.
type canvas struct {
	strokes []Stroke
}

func (c *canvas) apply(e recordedEvent) {
	switch e.event {
	case EventWhiteboardState:
		c.strokes = append([]Stroke(nil), e.data.([]Stroke)...)
	case EventWhiteboardDraw:
		c.strokes = append(c.strokes, e.data.(Stroke))
	case EventWhiteboardClear:
		c.strokes = nil
	}
}

func replay(s *fakeSender) []Stroke {
	c := &canvas{}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		c.apply(e)
	}
	return c.strokes
}

func stroke(i int) Stroke {
	return Stroke{
		X1: float64(i), Y1: float64(i), X2: float64(i + 10), Y2: float64(i + 10),
		Color: fmt.Sprintf("#%06x", i), Width: 3, Tool: "pen",
	}
}

func TestStrokeBroadcastSkipsTheDrawer(t *testing.T) {
	r := newTestRegistry(t)
	roomID := r.CreateRoom()

	alice := &fakeSender{}
	bob := &fakeSender{}
	r.Join(roomID, "sess-a", "Alice", alice)
	r.Join(roomID, "sess-b", "Bob", bob)

	s := stroke(1)
	if err := r.AppendStroke(roomID, "sess-a", s); err != nil {
		t.Fatalf("draw: %v", err)
	}

	got, ok := bob.last(EventWhiteboardDraw)
	if !ok {
		t.Fatal("bob did not receive the stroke")
	}
	if !reflect.DeepEqual(got.data.(Stroke), s) {
		t.Fatalf("stroke mutated in transit: %+v", got.data)
	}
	if _, ok := alice.last(EventWhiteboardDraw); ok {
		t.Fatal("the drawer received their own stroke back")
	}
}

func TestLateJoinerReconstructsTheSameDrawing(t *testing.T) {
	r := newTestRegistry(t)
	roomID := r.CreateRoom()

	alice := &fakeSender{}
	r.Join(roomID, "sess-a", "Alice", alice)

	r.AppendStroke(roomID, "sess-a", stroke(1))
	r.AppendStroke(roomID, "sess-a", stroke(2))

	bob := &fakeSender{}
	r.Join(roomID, "sess-b", "Bob", bob)

	r.AppendStroke(roomID, "sess-a", stroke(3))
	r.AppendStroke(roomID, "sess-b", stroke(4))

	carol := &fakeSender{}
	r.Join(roomID, "sess-c", "Carol", carol)

	r.AppendStroke(roomID, "sess-c", stroke(5))

	want := []Stroke{stroke(1), stroke(2), stroke(3), stroke(4), stroke(5)}
	for name, s := range map[string]*fakeSender{"bob": bob, "carol": carol} {
		if got := replay(s); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s reconstructed %v, want %v", name, got, want)
		}
	}
	// Alice drew 1-3 locally; her received stream holds only the others'.
	if got := replay(alice); !reflect.DeepEqual(got, []Stroke{stroke(4), stroke(5)}) {
		t.Fatalf("alice's incremental stream wrong: %v", got)
	}
}

func TestClearTruncatesInsteadOfMarking(t *testing.T) {
	r := newTestRegistry(t)
	roomID := r.CreateRoom()

	alice := &fakeSender{}
	bob := &fakeSender{}
	r.Join(roomID, "sess-a", "Alice", alice)
	r.Join(roomID, "sess-b", "Bob", bob)

	r.AppendStroke(roomID, "sess-a", stroke(1))
	r.AppendStroke(roomID, "sess-a", stroke(2))
	if err := r.ClearBoard(roomID, "sess-a"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	r.AppendStroke(roomID, "sess-a", stroke(3))

	if _, ok := bob.last(EventWhiteboardClear); !ok {
		t.Fatal("bob did not receive whiteboard-clear")
	}

	// A post-clear joiner must never see the cleared strokes.
	carol := &fakeSender{}
	r.Join(roomID, "sess-c", "Carol", carol)
	state, _ := carol.last(EventWhiteboardState)
	if got := state.data.([]Stroke); !reflect.DeepEqual(got, []Stroke{stroke(3)}) {
		t.Fatalf("snapshot after clear = %v, want only stroke 3", got)
	}

	want := []Stroke{stroke(3)}
	for name, s := range map[string]*fakeSender{"bob": bob, "carol": carol} {
		if got := replay(s); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s reconstructed %v, want %v", name, got, want)
		}
	}
}

func TestSnapshotIsIsolatedFromLaterDraws(t *testing.T) {
	r := newTestRegistry(t)
	roomID := r.CreateRoom()

	alice := &fakeSender{}
	r.Join(roomID, "sess-a", "Alice", alice)
	r.AppendStroke(roomID, "sess-a", stroke(1))

	bob := &fakeSender{}
	r.Join(roomID, "sess-b", "Bob", bob)
	state, _ := bob.last(EventWhiteboardState)
	snapshot := state.data.([]Stroke)

	r.AppendStroke(roomID, "sess-a", stroke(2))

	if len(snapshot) != 1 {
		t.Fatalf("handed-out snapshot grew to %d strokes", len(snapshot))
	}
}
