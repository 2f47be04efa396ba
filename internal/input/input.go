// Package input turns the raw byte stream of a terminal into key press and
// release events.
//
// Terminals only report presses (and auto-repeats), never releases, so a key
// counts as held until no byte for it has arrived for the hold duration.
package input

import (
	"bufio"
	"time"
)

// DefaultHoldDuration bridges the gap between the first press and the
// terminal's auto-repeat.
const DefaultHoldDuration = 120 * time.Millisecond

// Key is a recognized terminal key.
type Key int

const (
	KeyLeft   Key = iota // Left arrow, a, A
	KeyRight             // Right arrow, d, D
	KeyFire              // Space
	KeyEnter             // Enter
	KeyQuit              // q, Q, Ctrl+C
	KeyMenu              // m, M
	KeyEscape            // Bare escape

	keyCount
)

// KeyEvent is a press or release of a key.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

// Stream delivers input bytes via a channel and tracks which keys are held.
type Stream struct {
	ch     chan byte
	hold   time.Duration
	last   [keyCount]time.Time
	held   [keyCount]bool
	events []KeyEvent
	buf    []byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:   make(chan byte, 128),
		hold: DefaultHoldDuration,
	}
}

// SetHoldDuration changes how long a key stays held after its last byte.
func (s *Stream) SetHoldDuration(d time.Duration) {
	s.hold = d
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Poll drains all available bytes (non-blocking) and returns the key events
// they produce, followed by releases of keys whose hold expired. Every byte
// of a key produces a press event, so auto-repeat re-presses a held key.
// The returned slice is reused by the next call.
func (s *Stream) Poll(now time.Time) []KeyEvent {
	s.buf = s.buf[:0]
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			s.buf = append(s.buf, b)
		default:
			break drain
		}
	}
	return s.process(s.buf, now)
}

func (s *Stream) process(buf []byte, now time.Time) []KeyEvent {
	s.events = s.events[:0]

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				s.press(KeyRight, now)
			case 'D':
				s.press(KeyLeft, now)
			}
			i += 2
			continue
		}

		if k, ok := keyForByte(b); ok {
			s.press(k, now)
		}
	}

	if s.closed {
		s.press(KeyQuit, now)
	}

	for k := Key(0); k < keyCount; k++ {
		if s.held[k] && now.Sub(s.last[k]) >= s.hold {
			s.held[k] = false
			s.events = append(s.events, KeyEvent{Key: k, Pressed: false})
		}
	}
	return s.events
}

func (s *Stream) press(k Key, now time.Time) {
	s.last[k] = now
	s.held[k] = true
	s.events = append(s.events, KeyEvent{Key: k, Pressed: true})
}

// Reset forgets every held key without emitting releases.
func (s *Stream) Reset() {
	s.held = [keyCount]bool{}
}

func keyForByte(b byte) (Key, bool) {
	switch b {
	case 'a', 'A':
		return KeyLeft, true
	case 'd', 'D':
		return KeyRight, true
	case ' ':
		return KeyFire, true
	case '\n', '\r':
		return KeyEnter, true
	case 'q', 'Q', 0x03:
		return KeyQuit, true
	case 'm', 'M':
		return KeyMenu, true
	case '\x1b':
		return KeyEscape, true
	}
	return 0, false
}
