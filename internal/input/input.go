// Package input turns a raw terminal byte stream into per-frame shooter
// controls. Terminals report key presses but never releases, so each key
// counts as held for a short window after its last byte arrived; holding a
// key auto-repeats fast enough to keep the window alive.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered held after its last
// press.
const keyHoldDuration = 40 * time.Millisecond

// Input is the current frame's control state.
type Input struct {
	Quit  bool
	Left  bool
	Right bool
	Up    bool
	Down  bool
	Focus bool // slow precise movement
	Fire  bool
	Bomb  bool
	Enter bool
}

type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	focus time.Time
	fire  time.Time
	bomb  time.Time
	enter time.Time
}

// Stream delivers input bytes via a channel and tracks key state so
// simultaneous holds (move + fire) are detected across frames.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and feeds the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
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

// Read drains all buffered bytes without blocking and returns the frame's
// control state. Arrow-key CSI sequences and letter keys both steer.
func (s *Stream) Read() Input {
	now := time.Now()
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				// Stream ended (stdin or session closed).
				in := s.parse(buf, now)
				in.Quit = true
				return in
			}
			buf = append(buf, b)
		default:
			return s.parse(buf, now)
		}
	}
}

func (s *Stream) parse(buf []byte, now time.Time) Input {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}
		s.apply(b, now)
	}
	return s.snapshot(now)
}

func (s *Stream) apply(b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // q or ctrl-c
		s.state.quit = now
	case 'a', 'A', 'h', 'H':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case 'w', 'W', 'k', 'K':
		s.state.up = now
	case 's', 'S', 'j', 'J':
		s.state.down = now
	case 'f', 'F':
		s.state.focus = now
	case 'z', 'Z', ' ':
		s.state.fire = now
	case 'x', 'X':
		s.state.bomb = now
	case '\n', '\r':
		s.state.enter = now
	}
}

func (s *Stream) snapshot(now time.Time) Input {
	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	return Input{
		Quit:  held(s.state.quit),
		Left:  held(s.state.left),
		Right: held(s.state.right),
		Up:    held(s.state.up),
		Down:  held(s.state.down),
		Focus: held(s.state.focus),
		Fire:  held(s.state.fire),
		Bomb:  held(s.state.bomb),
		Enter: held(s.state.enter),
	}
}
