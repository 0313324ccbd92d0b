package session

import (
	"testing"
	"time"
)

func TestEnqueueDropsOldestPerceptionUnderBackpressure(t *testing.T) {
	s := &Session{ID: "s1", ResidentID: 1}
	for i := 0; i < outboundBound; i++ {
		s.Enqueue(Frame{Type: "perception", Seq: uint64(i)})
	}
	s.Enqueue(Frame{Type: "perception", Seq: 9999})

	frames := s.Drain()
	if len(frames) != outboundBound {
		t.Fatalf("queue length = %d, want %d (oldest dropped, not grown)", len(frames), outboundBound)
	}
	if frames[0].Seq == 0 {
		t.Fatal("the oldest perception frame should have been evicted")
	}
}

func TestEnqueueNeverDropsSpeechOrEvent(t *testing.T) {
	s := &Session{ID: "s1", ResidentID: 1}
	for i := 0; i < outboundBound; i++ {
		s.Enqueue(Frame{Type: "event", Seq: uint64(i)})
	}
	s.Enqueue(Frame{Type: "event", Seq: 9999})

	frames := s.Drain()
	if len(frames) != outboundBound+1 {
		t.Fatalf("queue length = %d, want %d (non-perception frames are never dropped)", len(frames), outboundBound+1)
	}
}

func TestHubReconnectWithinGraceWindow(t *testing.T) {
	h := NewHub(30 * time.Millisecond)
	s := &Session{ID: "a", ResidentID: 42, Kind: KindPlayer}
	h.Register(s)
	h.Unregister(s)

	if !h.WithinGraceWindow(42) {
		t.Fatal("resident should be reattachable immediately after disconnect")
	}
	time.Sleep(40 * time.Millisecond)
	if h.WithinGraceWindow(42) {
		t.Fatal("resident should no longer be reattachable after the grace window elapses")
	}
}

func TestBroadcastReachesSpectators(t *testing.T) {
	h := NewHub(time.Second)
	player := &Session{ID: "p", ResidentID: 7, Kind: KindPlayer}
	spectator := &Session{ID: "s", ResidentID: 7, Kind: KindSpectator}
	h.Register(player)
	h.Register(spectator)

	h.Broadcast(7, Frame{Type: "perception"})

	if len(player.Drain()) != 1 || len(spectator.Drain()) != 1 {
		t.Fatal("both the player and its spectators should receive the broadcast frame")
	}
}
