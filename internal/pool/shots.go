package pool

import "math"

// AimFunc resolves a homing target for a shot at (x, y). ok is false when no
// target is available; the shot then flies straight.
type AimFunc func(x, y float64) (tx, ty float64, ok bool)

// ShotOpts carries the optional parameters of a player shot.
type ShotOpts struct {
	Damage      float64
	Penetrate   int     // extra enemy contacts survived before dying
	Homing      float64 // max turn rate in rad/s; 0 disables homing
	MaxLifetime float64 // seconds; 0 means unbounded
}

// ShotPool is the arena for player-owned bullets. It follows the same
// free-list/index discipline as Pool but carries damage, penetration and
// homing state instead of death handlers and deferred spawns.
type ShotPool struct {
	capacity int
	bounds   Bounds

	x, y        []float64
	vx, vy      []float64
	angle       []float64
	speed       []float64
	damage      []float64
	penetrate   []int
	homing      []float64
	lifetime    []float64
	maxLifetime []float64
	visual      []uint16
	alive       []bool

	free       []int
	aliveCount int
}

// NewShotPool creates a player-shot arena.
func NewShotPool(capacity int, bounds Bounds) *ShotPool {
	if capacity < 0 {
		capacity = 0
	}
	s := &ShotPool{
		capacity:    capacity,
		bounds:      bounds,
		x:           make([]float64, capacity),
		y:           make([]float64, capacity),
		vx:          make([]float64, capacity),
		vy:          make([]float64, capacity),
		angle:       make([]float64, capacity),
		speed:       make([]float64, capacity),
		damage:      make([]float64, capacity),
		penetrate:   make([]int, capacity),
		homing:      make([]float64, capacity),
		lifetime:    make([]float64, capacity),
		maxLifetime: make([]float64, capacity),
		visual:      make([]uint16, capacity),
		alive:       make([]bool, capacity),
		free:        make([]int, capacity),
	}
	for i := 0; i < capacity; i++ {
		s.free[i] = capacity - 1 - i
	}
	return s
}

// Capacity returns the slot count.
func (s *ShotPool) Capacity() int { return s.capacity }

// AliveCount returns how many shots are currently alive.
func (s *ShotPool) AliveCount() int { return s.aliveCount }

// IsAlive reports whether slot i is alive.
func (s *ShotPool) IsAlive(i int) bool {
	return i >= 0 && i < s.capacity && s.alive[i]
}

// Position returns the shot's current position. Stale for dead slots.
func (s *ShotPool) Position(i int) (x, y float64) {
	return s.x[i], s.y[i]
}

// Damage returns the shot's damage value.
func (s *ShotPool) Damage(i int) float64 { return s.damage[i] }

// Penetration returns the shot's remaining penetration count.
func (s *ShotPool) Penetration(i int) int { return s.penetrate[i] }

// Spawn allocates a shot. Returns None when the pool is full.
func (s *ShotPool) Spawn(x, y, angle, speed float64, visual uint16, opts ShotOpts) int {
	n := len(s.free)
	if n == 0 {
		return None
	}
	i := s.free[n-1]
	s.free = s.free[:n-1]

	s.x[i] = x
	s.y[i] = y
	s.vx[i] = math.Cos(angle) * speed
	s.vy[i] = math.Sin(angle) * speed
	s.angle[i] = angle
	s.speed[i] = speed
	s.damage[i] = opts.Damage
	s.penetrate[i] = opts.Penetrate
	s.homing[i] = opts.Homing
	s.lifetime[i] = 0
	s.maxLifetime[i] = opts.MaxLifetime
	s.visual[i] = visual
	s.alive[i] = true
	s.aliveCount++
	return i
}

// Kill deactivates slot i and returns it to the free list. Player shots have
// no death events; hit feedback is the collision engine's result list.
func (s *ShotPool) Kill(i int) {
	if i < 0 || i >= s.capacity || !s.alive[i] {
		return
	}
	s.alive[i] = false
	s.aliveCount--
	s.free = append(s.free, i)
}

// ConsumePenetration decrements the shot's penetration counter and reports
// whether the shot survives the contact. At zero the shot is killed.
func (s *ShotPool) ConsumePenetration(i int) bool {
	if !s.IsAlive(i) {
		return false
	}
	if s.penetrate[i] > 0 {
		s.penetrate[i]--
		return true
	}
	s.Kill(i)
	return false
}

// Update advances every alive shot by dt in stable index order. Shots with a
// homing rate re-aim toward the target supplied by aim, limited to
// homing*dt radians of turn per tick, before integrating.
func (s *ShotPool) Update(dt float64, aim AimFunc) {
	for i := 0; i < s.capacity; i++ {
		if !s.alive[i] {
			continue
		}

		s.lifetime[i] += dt
		if s.maxLifetime[i] > 0 && s.lifetime[i] >= s.maxLifetime[i] {
			s.Kill(i)
			continue
		}

		if s.homing[i] > 0 && aim != nil {
			if tx, ty, ok := aim(s.x[i], s.y[i]); ok {
				want := math.Atan2(ty-s.y[i], tx-s.x[i])
				diff := normalize(want - s.angle[i])
				maxTurn := s.homing[i] * dt
				if diff > maxTurn {
					diff = maxTurn
				} else if diff < -maxTurn {
					diff = -maxTurn
				}
				s.angle[i] += diff
				s.vx[i] = s.speed[i] * math.Cos(s.angle[i])
				s.vy[i] = s.speed[i] * math.Sin(s.angle[i])
			}
		}

		s.x[i] += s.vx[i] * dt
		s.y[i] += s.vy[i] * dt

		if !s.bounds.Contains(s.x[i], s.y[i]) {
			s.Kill(i)
		}
	}
}

// Clear kills every alive shot.
func (s *ShotPool) Clear() {
	for i := 0; i < s.capacity; i++ {
		if s.alive[i] {
			s.alive[i] = false
			s.aliveCount--
			s.free = append(s.free, i)
		}
	}
}

// ShotView exposes the shot arrays without copying; read-only.
type ShotView struct {
	X, Y   []float64
	Angle  []float64
	Damage []float64
	Visual []uint16
	Alive  []bool
}

// View returns a non-owning view of the shot arrays.
func (s *ShotPool) View() ShotView {
	return ShotView{X: s.x, Y: s.y, Angle: s.angle, Damage: s.damage, Visual: s.visual, Alive: s.alive}
}

// normalize wraps an angle into (-pi, pi].
func normalize(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
