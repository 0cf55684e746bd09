// Package collide implements the per-frame collision queries of the
// simulation: player vs enemy bullets, graze detection, player shots vs
// enemies, laser hit-tests and pickup collection.
//
// All queries are read-mostly linear scans in stable index order over the
// pool arenas; entity counts are bounded, so no spatial index is kept and
// query results are deterministic for a given pool state.
package collide

import (
	"github.com/tomz197/barrage/internal/physics"
	"github.com/tomz197/barrage/internal/pool"
)

// None indicates that a query found no colliding slot.
const None = -1

// Target is one enemy row for the shots-vs-enemies query.
type Target struct {
	X, Y   float64
	Radius float64
	Alive  bool
}

// Hit is one shot-enemy contact. Transient: valid only for the frame that
// produced it.
type Hit struct {
	Shot   int
	Target int
	Damage float64
	X, Y   float64
}

// PlayerVsBullets returns the index of the first alive bullet whose radius
// overlaps the player hitbox, scanning in slot order and stopping at the
// first hit. Returns None when nothing collides.
func PlayerVsBullets(px, py, playerRadius float64, v pool.View) int {
	for i := range v.Alive {
		if !v.Alive[i] {
			continue
		}
		if physics.CirclesOverlap(px, py, playerRadius, v.X[i], v.Y[i], v.Radius[i]) {
			return i
		}
	}
	return None
}

// PlayerGraze marks every alive, not-yet-grazed bullet within grazeRadius
// and returns how many were newly marked. The marker lives in the pool and
// is cleared on respawn, so each bullet grazes at most once per lifetime.
func PlayerGraze(px, py, grazeRadius float64, v pool.View) int {
	count := 0
	rr := grazeRadius * grazeRadius
	for i := range v.Alive {
		if !v.Alive[i] || v.Grazed[i] {
			continue
		}
		if physics.DistanceSquared(px, py, v.X[i], v.Y[i]) < rr {
			v.Grazed[i] = true
			count++
		}
	}
	return count
}

// ShotsVsEnemies tests every alive player shot against every alive target.
// Each contact is appended to out; the shot then either spends one
// penetration charge and continues to the remaining targets, or dies and is
// not tested again this frame. Returns out for reuse across frames.
func ShotsVsEnemies(shots *pool.ShotPool, targets []Target, hitRadius float64, out []Hit) []Hit {
	sv := shots.View()
	for si := range sv.Alive {
		if !sv.Alive[si] {
			continue
		}
		sx, sy := sv.X[si], sv.Y[si]
		for ti := range targets {
			t := &targets[ti]
			if !t.Alive {
				continue
			}
			if !physics.CirclesOverlap(sx, sy, hitRadius, t.X, t.Y, t.Radius) {
				continue
			}
			out = append(out, Hit{Shot: si, Target: ti, Damage: sv.Damage[si], X: sx, Y: sy})
			if !shots.ConsumePenetration(si) {
				break
			}
		}
	}
	return out
}

// CollectPickups returns the indices of all alive pickups within
// collectRadius of the player. The scan never exits early: any number of
// pickups can be collected in one frame.
func CollectPickups(px, py, collectRadius float64, xs, ys []float64, alive []bool, out []int) []int {
	rr := collectRadius * collectRadius
	for i := range alive {
		if !alive[i] {
			continue
		}
		if physics.DistanceSquared(px, py, xs[i], ys[i]) < rr {
			out = append(out, i)
		}
	}
	return out
}
