package stage

import (
	"github.com/tomz197/barrage/internal/collide"
)

// LaserState is the lifecycle of a laser hazard. A charging laser is
// visible but harmless; only active lasers collide.
type LaserState uint8

const (
	LaserCharging LaserState = iota
	LaserActive
	LaserDone
)

// Laser is a straight beam hazard with a telegraphed charge-up.
type Laser struct {
	Beam collide.StraightLaser

	charge int
	active int
	age    int
	state  LaserState
}

// State returns the laser's lifecycle state.
func (l *Laser) State() LaserState { return l.state }

// BentLaser is a trail hazard: its owner pushes the head position every
// frame and the last Cap points form the colliding polyline.
type BentLaser struct {
	Width float64

	xs, ys []float64
	cap    int
	state  LaserState
	charge int
	age    int
}

// Push appends the current head position, dropping the oldest point once
// the trail is full.
func (b *BentLaser) Push(x, y float64) {
	if len(b.xs) == b.cap {
		copy(b.xs, b.xs[1:])
		copy(b.ys, b.ys[1:])
		b.xs = b.xs[:len(b.xs)-1]
		b.ys = b.ys[:len(b.ys)-1]
	}
	b.xs = append(b.xs, x)
	b.ys = append(b.ys, y)
}

// State returns the trail's lifecycle state.
func (b *BentLaser) State() LaserState { return b.state }

// Points returns the trail vertices, oldest first. Read-only.
func (b *BentLaser) Points() (xs, ys []float64) { return b.xs, b.ys }

// Off ends the trail; it stops colliding and is swept on the next update.
func (b *BentLaser) Off() { b.state = LaserDone }

// LaserList owns every laser hazard in play.
type LaserList struct {
	straight []*Laser
	bent     []*BentLaser
}

// NewLaserList returns an empty list.
func NewLaserList() *LaserList {
	return &LaserList{}
}

// SpawnStraight adds a straight laser that charges for charge frames,
// stays active for active frames, then expires.
func (l *LaserList) SpawnStraight(beam collide.StraightLaser, charge, active int) *Laser {
	s := &Laser{Beam: beam, charge: charge, active: active}
	l.straight = append(l.straight, s)
	return s
}

// SpawnBent adds a trail laser holding at most capPoints points, harmless
// for the first charge frames. The owner pushes points and calls Off when
// done.
func (l *LaserList) SpawnBent(width float64, capPoints, charge int) *BentLaser {
	if capPoints < 2 {
		capPoints = 2
	}
	b := &BentLaser{Width: width, cap: capPoints, charge: charge}
	l.bent = append(l.bent, b)
	return b
}

// Update ages every laser one frame and sweeps expired ones.
func (l *LaserList) Update() {
	liveS := l.straight[:0]
	for _, s := range l.straight {
		s.age++
		switch {
		case s.age <= s.charge:
			s.state = LaserCharging
		case s.age <= s.charge+s.active:
			s.state = LaserActive
		default:
			s.state = LaserDone
		}
		if s.state != LaserDone {
			liveS = append(liveS, s)
		}
	}
	l.straight = liveS

	liveB := l.bent[:0]
	for _, b := range l.bent {
		b.age++
		if b.state != LaserDone && b.age > b.charge {
			b.state = LaserActive
		}
		if b.state != LaserDone {
			liveB = append(liveB, b)
		}
	}
	l.bent = liveB
}

// HitsPlayer reports whether any active laser touches the player.
func (l *LaserList) HitsPlayer(px, py, r float64) bool {
	for _, s := range l.straight {
		if s.state == LaserActive && s.Beam.Hits(px, py, r) {
			return true
		}
	}
	for _, b := range l.bent {
		if b.state != LaserActive {
			continue
		}
		if collide.PolylineHits(b.xs, b.ys, b.Width/2, px, py, r) != collide.None {
			return true
		}
	}
	return false
}

// Clear removes every laser immediately.
func (l *LaserList) Clear() {
	l.straight = l.straight[:0]
	l.bent = l.bent[:0]
}

// ForEachStraight visits live straight lasers for rendering.
func (l *LaserList) ForEachStraight(fn func(s *Laser)) {
	for _, s := range l.straight {
		fn(s)
	}
}

// ForEachBent visits live trail lasers for rendering.
func (l *LaserList) ForEachBent(fn func(b *BentLaser)) {
	for _, b := range l.bent {
		fn(b)
	}
}
