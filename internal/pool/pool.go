// Package pool implements fixed-capacity slot arenas for projectiles.
//
// The enemy-bullet Pool and the player ShotPool both use the same discipline:
// structure-of-arrays storage owned exclusively by the pool, free-list
// allocation, and integer indices as the only external reference. Every index
// space is partitioned into exactly {free, alive} at all times. A slot's
// fields are stale the moment its alive flag drops; callers that need to hold
// a reference across frames should capture a Handle and revalidate it.
package pool

import "math"

// None is returned by spawn calls when no free slot is available.
// Pool exhaustion is an expected condition under heavy bursts, not an error.
const None = -1

// DeathHandler runs when a killed projectile's death event is dispatched.
// Handlers run after the batch update, so spawning from a handler is safe.
type DeathHandler func(p *Pool, e DeathEvent)

// DeathEvent records where a projectile died. Events are queued on kill and
// dispatched in order at the end of the frame.
type DeathEvent struct {
	Index int
	X, Y  float64
}

// Handle is a generation-checked reference to a slot. A Handle taken from a
// live slot stops validating as soon as the slot is killed, even if the index
// has been recycled by a later spawn.
type Handle struct {
	Index int
	Gen   uint32
}

// NoHandle is the zero Handle; it never validates against a live slot.
var NoHandle = Handle{Index: None}

// Bounds is the despawn rectangle. Projectiles that leave it are killed
// during the batch update.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// FieldBounds returns the playfield despawn rectangle: the unit field plus
// the given margin on every side.
func FieldBounds(margin float64) Bounds {
	return Bounds{MinX: -1 - margin, MinY: -1 - margin, MaxX: 1 + margin, MaxY: 1 + margin}
}

// Contains reports whether the point lies inside the rectangle.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// SpawnOpts carries the optional per-projectile parameters of a spawn.
type SpawnOpts struct {
	AccelX, AccelY float64 // constant acceleration
	AngularAccel   float64 // rad/s^2, recomputes velocity from angle each tick
	Radius         float64 // collision radius
	MaxLifetime    float64 // seconds; 0 means unbounded
	OnDeath        DeathHandler
}

// SpawnRequest is a deferred spawn: it materializes after Delay ticks.
// No slot is reserved at enqueue time, so a request due in a crowded frame
// may find the pool full and be dropped silently.
type SpawnRequest struct {
	Delay  int
	X, Y   float64
	Angle  float64
	Speed  float64
	Visual uint16
	Opts   SpawnOpts
}

// View exposes the pool's slot arrays without copying. The slices alias pool
// storage and stay valid for the pool's lifetime; treat everything except
// Grazed as read-only.
type View struct {
	X, Y   []float64
	Angle  []float64
	Radius []float64
	Visual []uint16
	Alive  []bool
	Grazed []bool
}

// RenderItem is one alive projectile in a compacted frame copy.
type RenderItem struct {
	X, Y   float64
	Angle  float64
	Visual uint16
}

// Pool is the enemy-projectile arena.
type Pool struct {
	capacity int
	bounds   Bounds

	x, y        []float64
	vx, vy      []float64
	ax, ay      []float64
	angle       []float64
	speed       []float64
	angAccel    []float64
	radius      []float64
	lifetime    []float64
	maxLifetime []float64
	visual      []uint16
	alive       []bool
	grazed      []bool
	gen         []uint32

	free       []int
	aliveCount int

	handlers      map[int]DeathHandler
	deaths        []DeathEvent
	deathHandlers []DeathHandler
	pending       []SpawnRequest

	// scratch buffers reused across calls to avoid per-frame allocations
	patternAngles []float64
}

// New creates a pool with the given slot capacity and despawn bounds.
func New(capacity int, bounds Bounds) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool{
		capacity:    capacity,
		bounds:      bounds,
		x:           make([]float64, capacity),
		y:           make([]float64, capacity),
		vx:          make([]float64, capacity),
		vy:          make([]float64, capacity),
		ax:          make([]float64, capacity),
		ay:          make([]float64, capacity),
		angle:       make([]float64, capacity),
		speed:       make([]float64, capacity),
		angAccel:    make([]float64, capacity),
		radius:      make([]float64, capacity),
		lifetime:    make([]float64, capacity),
		maxLifetime: make([]float64, capacity),
		visual:      make([]uint16, capacity),
		alive:       make([]bool, capacity),
		grazed:      make([]bool, capacity),
		gen:         make([]uint32, capacity),
		free:        make([]int, capacity),
		handlers:    make(map[int]DeathHandler),
	}
	for i := 0; i < capacity; i++ {
		p.free[i] = capacity - 1 - i // pop order: 0, 1, 2, ...
	}
	return p
}

// Capacity returns the slot count.
func (p *Pool) Capacity() int { return p.capacity }

// AliveCount returns how many slots are currently alive.
func (p *Pool) AliveCount() int { return p.aliveCount }

// FreeCount returns how many slots are currently free.
func (p *Pool) FreeCount() int { return len(p.free) }

// IsAlive reports whether slot i is alive.
func (p *Pool) IsAlive(i int) bool {
	return i >= 0 && i < p.capacity && p.alive[i]
}

// Position returns the slot's current position. Stale for dead slots.
func (p *Pool) Position(i int) (x, y float64) {
	return p.x[i], p.y[i]
}

// Speed returns the slot's scalar speed. Stale for dead slots.
func (p *Pool) Speed(i int) float64 {
	return p.speed[i]
}

// HandleOf returns a generation-checked reference to slot i.
func (p *Pool) HandleOf(i int) Handle {
	if i < 0 || i >= p.capacity {
		return NoHandle
	}
	return Handle{Index: i, Gen: p.gen[i]}
}

// Live reports whether h still refers to the same logical projectile.
func (p *Pool) Live(h Handle) bool {
	return h.Index >= 0 && h.Index < p.capacity && p.alive[h.Index] && p.gen[h.Index] == h.Gen
}

// Spawn allocates one free slot and initializes every field from the
// arguments. Returns the slot index, or None if the pool is full.
func (p *Pool) Spawn(x, y, angle, speed float64, visual uint16, opts SpawnOpts) int {
	n := len(p.free)
	if n == 0 {
		return None
	}
	i := p.free[n-1]
	p.free = p.free[:n-1]
	p.initSlot(i, x, y, angle, speed, visual, opts)
	return i
}

// initSlot fully overwrites slot i. Every field is written so nothing leaks
// from the slot's previous occupant.
func (p *Pool) initSlot(i int, x, y, angle, speed float64, visual uint16, opts SpawnOpts) {
	p.x[i] = x
	p.y[i] = y
	p.vx[i] = math.Cos(angle) * speed
	p.vy[i] = math.Sin(angle) * speed
	p.ax[i] = opts.AccelX
	p.ay[i] = opts.AccelY
	p.angle[i] = angle
	p.speed[i] = speed
	p.angAccel[i] = opts.AngularAccel
	p.radius[i] = opts.Radius
	p.lifetime[i] = 0
	p.maxLifetime[i] = opts.MaxLifetime
	p.visual[i] = visual
	p.grazed[i] = false
	p.alive[i] = true
	p.aliveCount++
	if opts.OnDeath != nil {
		p.handlers[i] = opts.OnDeath
	} else {
		delete(p.handlers, i)
	}
}

// SpawnPattern spawns count projectiles fanned across spread radians starting
// at baseAngle, all sharing position, speed and opts. Angles are precomputed
// before any slot is taken, and allocation happens in a single pass over the
// free list: if fewer than count slots are free the remainder is dropped
// silently. A non-positive count is a no-op.
func (p *Pool) SpawnPattern(x, y, baseAngle, speed float64, count int, spread float64, visual uint16, opts SpawnOpts) {
	if count <= 0 {
		return
	}
	if cap(p.patternAngles) < count {
		p.patternAngles = make([]float64, count)
	}
	angles := p.patternAngles[:count]
	step := spread / float64(count)
	for i := range angles {
		angles[i] = baseAngle + float64(i)*step
	}

	avail := min(count, len(p.free))
	for k := 0; k < avail; k++ {
		n := len(p.free)
		i := p.free[n-1]
		p.free = p.free[:n-1]
		p.initSlot(i, x, y, angles[k], speed, visual, opts)
	}
}

// QueueSpawn enqueues a deferred spawn request. Requests with Delay <= 0
// materialize immediately. No slot is reserved until materialization.
func (p *Pool) QueueSpawn(req SpawnRequest) {
	if req.Delay <= 0 {
		p.Spawn(req.X, req.Y, req.Angle, req.Speed, req.Visual, req.Opts)
		return
	}
	p.pending = append(p.pending, req)
}

// Kill deactivates slot i immediately, returns it to the free list, and
// enqueues a death event for dispatch at the end of the current frame.
// handler overrides the slot's registered OnDeath when non-nil. Killing a
// dead or out-of-range index is a no-op.
func (p *Pool) Kill(i int, handler DeathHandler) {
	if i < 0 || i >= p.capacity || !p.alive[i] {
		return
	}
	if handler == nil {
		handler = p.handlers[i]
	}
	p.killSlot(i)
	p.deaths = append(p.deaths, DeathEvent{Index: i, X: p.x[i], Y: p.y[i]})
	p.deathHandlers = append(p.deathHandlers, handler)
}

// KillSilent deactivates slot i without enqueueing a death event; the
// slot's death handler never runs. Used when sweeping or converting
// bullets wholesale. Killing a dead or out-of-range index is a no-op.
func (p *Pool) KillSilent(i int) {
	if i < 0 || i >= p.capacity || !p.alive[i] {
		return
	}
	p.killSlot(i)
}

// killSlot flips the slot dead and returns it to the free list.
func (p *Pool) killSlot(i int) {
	p.alive[i] = false
	p.gen[i]++
	p.aliveCount--
	delete(p.handlers, i)
	p.free = append(p.free, i)
}

// Update advances every alive slot by dt seconds in stable index order:
// angular acceleration recomputes velocity from the stored angle, constant
// acceleration integrates into velocity, velocity integrates into position,
// speed and angle are recomputed from the resulting velocity, and finally
// lifetime expiry and out-of-bounds despawn are evaluated.
//
// Deaths detected here are queued; the owner dispatches them with
// DispatchDeaths after its collision queries, then ticks the deferred spawn
// queue with AdvancePending.
func (p *Pool) Update(dt float64) {
	for i := 0; i < p.capacity; i++ {
		if !p.alive[i] {
			continue
		}

		if p.angAccel[i] != 0 {
			p.angle[i] += p.angAccel[i] * dt
			p.vx[i] = p.speed[i] * math.Cos(p.angle[i])
			p.vy[i] = p.speed[i] * math.Sin(p.angle[i])
		}

		p.vx[i] += p.ax[i] * dt
		p.vy[i] += p.ay[i] * dt
		p.x[i] += p.vx[i] * dt
		p.y[i] += p.vy[i] * dt

		p.speed[i] = math.Hypot(p.vx[i], p.vy[i])
		p.angle[i] = math.Atan2(p.vy[i], p.vx[i])

		p.lifetime[i] += dt
		if p.maxLifetime[i] > 0 && p.lifetime[i] >= p.maxLifetime[i] {
			p.queueDeath(i)
			continue
		}
		if !p.bounds.Contains(p.x[i], p.y[i]) {
			p.queueDeath(i)
		}
	}
}

// queueDeath kills slot i during the update pass, preserving its registered
// handler for dispatch.
func (p *Pool) queueDeath(i int) {
	handler := p.handlers[i]
	p.killSlot(i)
	p.deaths = append(p.deaths, DeathEvent{Index: i, X: p.x[i], Y: p.y[i]})
	p.deathHandlers = append(p.deathHandlers, handler)
}

// DispatchDeaths invokes the handlers of all queued death events in order.
// Handlers may spawn or kill projectiles; kills issued by a handler are
// dispatched within the same call.
func (p *Pool) DispatchDeaths() {
	// The queues can grow while handlers run, so index instead of ranging.
	for n := 0; n < len(p.deaths); n++ {
		h := p.deathHandlers[n]
		if h != nil {
			h(p, p.deaths[n])
		}
	}
	p.deaths = p.deaths[:0]
	p.deathHandlers = p.deathHandlers[:0]
}

// AdvancePending decrements the delay of every queued spawn request and
// materializes the ones that reach zero. Run once per frame, after death
// dispatch.
func (p *Pool) AdvancePending() {
	kept := p.pending[:0]
	for _, req := range p.pending {
		req.Delay--
		if req.Delay <= 0 {
			p.Spawn(req.X, req.Y, req.Angle, req.Speed, req.Visual, req.Opts)
		} else {
			kept = append(kept, req)
		}
	}
	p.pending = kept
}

// PendingCount returns how many deferred spawn requests are queued.
func (p *Pool) PendingCount() int { return len(p.pending) }

// Step runs one full pool frame: Update, DispatchDeaths, AdvancePending.
// Owners that interleave collision queries call the three phases directly.
func (p *Pool) Step(dt float64) {
	p.Update(dt)
	p.DispatchDeaths()
	p.AdvancePending()
}

// Clear kills every alive slot without dispatching death events and drops
// all queued requests. Used by the orchestrator for bomb / phase-end sweeps
// where death effects are not wanted.
func (p *Pool) Clear() {
	for i := 0; i < p.capacity; i++ {
		if p.alive[i] {
			p.killSlot(i)
		}
	}
	p.deaths = p.deaths[:0]
	p.deathHandlers = p.deathHandlers[:0]
	p.pending = p.pending[:0]
}

// ForEachAlive calls fn for every alive slot in index order.
func (p *Pool) ForEachAlive(fn func(i int)) {
	for i := 0; i < p.capacity; i++ {
		if p.alive[i] {
			fn(i)
		}
	}
}

// View returns a non-owning view of the slot arrays for collision queries
// and rendering. No copy is made.
func (p *Pool) View() View {
	return View{
		X:      p.x,
		Y:      p.y,
		Angle:  p.angle,
		Radius: p.radius,
		Visual: p.visual,
		Alive:  p.alive,
		Grazed: p.grazed,
	}
}

// Compact appends every alive slot to dst and returns it. This is the
// explicit-copy path for renderers that want a dense frame snapshot.
func (p *Pool) Compact(dst []RenderItem) []RenderItem {
	for i := 0; i < p.capacity; i++ {
		if !p.alive[i] {
			continue
		}
		dst = append(dst, RenderItem{X: p.x[i], Y: p.y[i], Angle: p.angle[i], Visual: p.visual[i]})
	}
	return dst
}
