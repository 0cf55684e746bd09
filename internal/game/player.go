// Package game owns the per-frame simulation loop: input, scripted
// content, pools, collision and the player's state, advanced in a fixed
// order at a fixed tick rate on a single goroutine.
package game

import (
	"github.com/tomz197/barrage/internal/physics"
)

const (
	playerSpeed  = 1.1
	focusSpeed   = 0.45
	PlayerRadius = 0.008
	GrazeRadius  = 0.045

	startX, startY = 0, -0.75

	// Frames of post-death and post-bomb invulnerability.
	deathInvuln = 180
	bombInvuln  = 120

	maxPower = 4.0
)

// Player is the player's position and run state. Movement clamps to the
// field; the hitbox is far smaller than the visible ship.
type Player struct {
	x, y float64

	Lives int
	Bombs int
	Power float64
	Graze int
	Score int64

	invuln    int
	Misses    int
	BombsUsed int
}

// NewPlayer returns a player at the start position with the given stock.
func NewPlayer(lives, bombs int) *Player {
	return &Player{x: startX, y: startY, Lives: lives, Bombs: bombs}
}

// Position implements script.Mover and the env player query.
func (p *Player) Position() (float64, float64) { return p.x, p.y }

// SetPosition implements script.Mover.
func (p *Player) SetPosition(x, y float64) { p.x, p.y = x, y }

// Invulnerable reports whether hits currently pass through the player.
func (p *Player) Invulnerable() bool { return p.invuln > 0 }

// Move steers the player by the unit direction (dx, dy) for dt seconds,
// at focus speed when focused, clamped inside the field.
func (p *Player) Move(dx, dy, dt float64, focus bool) {
	speed := playerSpeed
	if focus {
		speed = focusSpeed
	}
	if dx != 0 && dy != 0 {
		// Diagonal movement keeps the same speed.
		dx *= 0.7071
		dy *= 0.7071
	}
	p.x = physics.Clamp(p.x+dx*speed*dt, -0.95, 0.95)
	p.y = physics.Clamp(p.y+dy*speed*dt, -0.95, 0.95)
}

// AddPower raises power toward the cap and reports whether it was already
// maxed (excess power scores instead).
func (p *Player) AddPower(amount float64) bool {
	if p.Power >= maxPower {
		return true
	}
	p.Power += amount
	if p.Power > maxPower {
		p.Power = maxPower
	}
	return false
}

// Hit applies one death: a life is spent, power bleeds off, and the player
// respawns at the start with brief invulnerability. Returns false when no
// lives remain.
func (p *Player) Hit() bool {
	if p.invuln > 0 {
		return true
	}
	p.Lives--
	p.Misses++
	p.Power *= 0.5
	p.x, p.y = startX, startY
	p.invuln = deathInvuln
	return p.Lives >= 0
}

// UseBomb spends a bomb and grants a shorter invulnerability window.
// Returns false when out of stock or one is already shielding.
func (p *Player) UseBomb() bool {
	if p.Bombs <= 0 || p.invuln > bombInvuln {
		return false
	}
	p.Bombs--
	p.BombsUsed++
	if p.invuln < bombInvuln {
		p.invuln = bombInvuln
	}
	return true
}

// TickDown advances per-frame counters.
func (p *Player) TickDown() {
	if p.invuln > 0 {
		p.invuln--
	}
}
