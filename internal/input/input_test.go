package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestProcessMapsKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		want  []Key
	}{
		{"letters", "adq", []Key{KeyLeft, KeyRight, KeyQuit}},
		{"arrows", "\x1b[D\x1b[C", []Key{KeyLeft, KeyRight}},
		{"ignored arrows", "\x1b[A\x1b[B", nil},
		{"fire and enter", " \r", []Key{KeyFire, KeyEnter}},
		{"menu", "M", []Key{KeyMenu}},
		{"bare escape", "\x1b", []Key{KeyEscape}},
		{"ctrl-c", "\x03", []Key{KeyQuit}},
		{"unknown", "zx9", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStream()
			events := s.process([]byte(tt.bytes), time.Unix(0, 0))
			if len(events) != len(tt.want) {
				t.Fatalf("events = %+v, want presses of %v", events, tt.want)
			}
			for i, k := range tt.want {
				if events[i] != (KeyEvent{Key: k, Pressed: true}) {
					t.Errorf("event %d = %+v, want press of %v", i, events[i], k)
				}
			}
		})
	}
}

func TestHeldKeyReleasesAfterHold(t *testing.T) {
	s := newStream()
	s.SetHoldDuration(100 * time.Millisecond)
	start := time.Unix(100, 0)

	s.process([]byte("a"), start)
	if evs := s.process(nil, start.Add(50*time.Millisecond)); len(evs) != 0 {
		t.Fatalf("released too early: %+v", evs)
	}

	// Auto-repeat extends the hold.
	s.process([]byte("a"), start.Add(90*time.Millisecond))
	if evs := s.process(nil, start.Add(150*time.Millisecond)); len(evs) != 0 {
		t.Fatalf("repeat did not extend the hold: %+v", evs)
	}

	evs := s.process(nil, start.Add(190*time.Millisecond))
	if len(evs) != 1 || evs[0] != (KeyEvent{Key: KeyLeft, Pressed: false}) {
		t.Fatalf("events = %+v, want one release of left", evs)
	}
	if evs := s.process(nil, start.Add(time.Second)); len(evs) != 0 {
		t.Fatalf("released twice: %+v", evs)
	}
}

func TestResetDropsHeldKeys(t *testing.T) {
	s := newStream()
	now := time.Unix(0, 0)
	s.process([]byte(" "), now)
	s.Reset()
	if evs := s.process(nil, now.Add(time.Hour)); len(evs) != 0 {
		t.Fatalf("events after reset = %+v", evs)
	}
}

func TestClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("d")))

	deadline := time.Now().Add(2 * time.Second)
	var sawRight, sawQuit bool
	for !s.Closed() && time.Now().Before(deadline) {
		for _, ev := range s.Poll(time.Now()) {
			sawRight = sawRight || (ev.Key == KeyRight && ev.Pressed)
			sawQuit = sawQuit || (ev.Key == KeyQuit && ev.Pressed)
		}
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("stream never noticed EOF")
	}
	if !sawRight || !sawQuit {
		t.Fatalf("sawRight=%v sawQuit=%v", sawRight, sawQuit)
	}
}
