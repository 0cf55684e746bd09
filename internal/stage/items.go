// Package stage holds everything between the raw pools and a playable
// level: the context bridge scripts fire through, enemies, pickups, boss
// phase orchestration and stage flow.
package stage

import (
	"github.com/tomz197/barrage/internal/collide"
	"github.com/tomz197/barrage/internal/physics"
)

// ItemKind selects what a pickup grants on collection.
type ItemKind uint8

const (
	ItemPower ItemKind = iota
	ItemPoint
	ItemLifeChip
	ItemBombChip
)

// String returns the item's registry visual name.
func (k ItemKind) String() string {
	switch k {
	case ItemPower:
		return "item_power"
	case ItemPoint:
		return "item_point"
	case ItemLifeChip:
		return "item_life"
	case ItemBombChip:
		return "item_bomb"
	}
	return "item_point"
}

// Collected is one pickup granted to the player this frame.
type Collected struct {
	Kind   ItemKind
	Amount int
}

const (
	itemPopSpeed  = 0.5
	itemGravity   = 1.5
	itemFallSpeed = 0.4
	itemSeekSpeed = 1.6
	itemRadius    = 0.02
	// Items above this player height auto-collect, as does everything
	// after AttractAll.
	pocLine = 0.4
)

// ItemPool is a fixed-capacity arena of falling pickups. Same slot
// discipline as the projectile pool: alive flag authoritative, indices
// recycled through a free list.
type ItemPool struct {
	capacity int
	kind     []ItemKind
	amount   []int
	x, y     []float64
	vy       []float64
	seeking  []bool
	alive    []bool
	free     []int

	collected []int // query scratch
}

// NewItemPool returns an empty pool with the given capacity.
func NewItemPool(capacity int) *ItemPool {
	p := &ItemPool{
		capacity: capacity,
		kind:     make([]ItemKind, capacity),
		amount:   make([]int, capacity),
		x:        make([]float64, capacity),
		y:        make([]float64, capacity),
		vy:       make([]float64, capacity),
		seeking:  make([]bool, capacity),
		alive:    make([]bool, capacity),
		free:     make([]int, capacity),
	}
	for i := range p.free {
		p.free[i] = capacity - 1 - i
	}
	return p
}

// AliveCount returns the number of live pickups.
func (p *ItemPool) AliveCount() int { return p.capacity - len(p.free) }

// Spawn drops a pickup at (x, y) with a small upward pop. Returns false
// when the pool is full; the drop is silently lost.
func (p *ItemPool) Spawn(kind ItemKind, amount int, x, y float64) bool {
	if len(p.free) == 0 {
		return false
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.kind[i] = kind
	p.amount[i] = amount
	p.x[i], p.y[i] = x, y
	p.vy[i] = itemPopSpeed
	p.seeking[i] = false
	p.alive[i] = true
	return true
}

// AttractAll sends every live pickup homing to the player. Called on boss
// defeat and bomb use.
func (p *ItemPool) AttractAll() {
	for i := range p.alive {
		if p.alive[i] {
			p.seeking[i] = true
		}
	}
}

// Update advances pickups one step. Non-seeking items decelerate their pop
// and fall at terminal speed; seeking items fly straight at the player.
// When the player is above the collection line everything seeks. Items
// leaving the bottom of the field despawn.
func (p *ItemPool) Update(dt, px, py float64) {
	seekAll := py >= pocLine
	for i := range p.alive {
		if !p.alive[i] {
			continue
		}
		if seekAll {
			p.seeking[i] = true
		}
		if p.seeking[i] {
			d := physics.Distance(p.x[i], p.y[i], px, py)
			if d > 0 {
				step := itemSeekSpeed * dt
				if step > d {
					step = d
				}
				p.x[i] += (px - p.x[i]) / d * step
				p.y[i] += (py - p.y[i]) / d * step
			}
			continue
		}
		p.vy[i] -= itemGravity * dt
		if p.vy[i] < -itemFallSpeed {
			p.vy[i] = -itemFallSpeed
		}
		p.y[i] += p.vy[i] * dt
		if p.y[i] < -1.2 {
			p.kill(i)
		}
	}
}

func (p *ItemPool) kill(i int) {
	p.alive[i] = false
	p.free = append(p.free, i)
}

// Collect removes every pickup within reach of the player and returns what
// was granted.
func (p *ItemPool) Collect(px, py, playerRadius float64) []Collected {
	p.collected = collide.CollectPickups(px, py, playerRadius+itemRadius, p.x, p.y, p.alive, p.collected[:0])
	var out []Collected
	for _, i := range p.collected {
		out = append(out, Collected{Kind: p.kind[i], Amount: p.amount[i]})
		p.kill(i)
	}
	return out
}

// ForEachAlive visits live pickups for rendering.
func (p *ItemPool) ForEachAlive(fn func(kind ItemKind, x, y float64)) {
	for i := range p.alive {
		if p.alive[i] {
			fn(p.kind[i], p.x[i], p.y[i])
		}
	}
}
