package collide

import (
	"math"

	"github.com/tomz197/barrage/internal/physics"
)

// StraightLaser is a fixed-angle beam with three segments along its length:
// a head that tapers in, a constant-width body and a tail that tapers out.
// Width is the full width of the body. A zero-length head or tail simply
// starts or ends the beam at body width.
type StraightLaser struct {
	X, Y  float64
	Angle float64
	Head  float64
	Body  float64
	Tail  float64
	Width float64
}

// Length returns the total beam length.
func (l StraightLaser) Length() float64 {
	return l.Head + l.Body + l.Tail
}

// WidthAt returns the collision half-width at distance d from the origin.
// Inside the head and tail the width tapers linearly to zero at the tip.
func (l StraightLaser) WidthAt(d float64) float64 {
	if d < 0 || d > l.Length() {
		return 0
	}
	half := l.Width / 2
	if d < l.Head {
		return half * d / l.Head
	}
	if rem := l.Length() - d; rem < l.Tail {
		return half * rem / l.Tail
	}
	return half
}

// Hits reports whether a circle at (px, py) with radius r touches the beam.
// The point is projected onto the beam axis, clamped to the beam extent,
// and compared against the tapered width at that distance.
func (l StraightLaser) Hits(px, py, r float64) bool {
	dirX, dirY := math.Cos(l.Angle), math.Sin(l.Angle)
	along := (px-l.X)*dirX + (py-l.Y)*dirY
	along = physics.Clamp(along, 0, l.Length())
	cx := l.X + dirX*along
	cy := l.Y + dirY*along
	reach := l.WidthAt(along) + r
	return physics.DistanceSquared(px, py, cx, cy) < reach*reach
}

// SegmentHits reports whether a circle at (px, py) with radius r comes
// within w of the segment (x1, y1)-(x2, y2). The projection parameter is
// clamped so degenerate zero-length segments degrade to a point test.
func SegmentHits(x1, y1, x2, y2, w, px, py, r float64) bool {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = physics.Clamp(((px-x1)*dx+(py-y1)*dy)/lenSq, 0, 1)
	}
	cx := x1 + dx*t
	cy := y1 + dy*t
	reach := w + r
	return physics.DistanceSquared(px, py, cx, cy) < reach*reach
}

// PolylineHits tests a circle against a laser made of connected segments
// through the given points, all at half-width w. Returns the index of the
// first segment hit, or None.
func PolylineHits(xs, ys []float64, w, px, py, r float64) int {
	for i := 0; i+1 < len(xs); i++ {
		if SegmentHits(xs[i], ys[i], xs[i+1], ys[i+1], w, px, py, r) {
			return i
		}
	}
	return None
}
