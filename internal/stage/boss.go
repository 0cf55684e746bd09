package stage

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/barrage/internal/script"
)

// PhaseScript is the authored behavior of one boss phase, run as a script
// task bound to the boss and the phase's own context.
type PhaseScript func(t *script.Task, b *Boss, ctx *Context)

// Phase is one attack segment of a boss. Exactly one script task backs it
// while it runs.
type Phase struct {
	Name      string
	Key       string // behavior key resolved through the library; ignored when Script is set
	Script    PhaseScript
	HP        float64
	TimeLimit float64 // seconds; 0 means no timeout
	Bonus     int64
	// Damageable is false for pure survival phases; Damage is a no-op
	// while one runs.
	Damageable bool
	// Spellcard phases convert their surviving bullets into point items
	// when won and announce themselves with a sound.
	Spellcard bool
	// Restore scales the phase's starting HP; 0 means full.
	Restore float64
	// Drops are placed at the boss position when the phase ends.
	Drops []Drop
}

// Boss sequences an ordered list of phases. A phase ends when its HP
// budget is exhausted or its time limit passes; lethal damage landing on
// the same tick as the timeout wins. When the list is exhausted the boss
// is defeated.
type Boss struct {
	x, y float64

	env    *Env
	sched  *script.Scheduler
	lib    *Library
	logger *log.Logger

	phases   []Phase
	idx      int
	hp       float64
	elapsed  float64
	clean    bool // no miss or bomb during the current phase
	active   bool
	defeated bool
	task     *script.Task
	ctx      *Context

	// OnBonus receives the decayed spellcard bonus for a clean capture.
	OnBonus func(amount int64)
}

// NewBoss returns an inactive boss at (x, y). Start begins the first
// phase.
func NewBoss(env *Env, sched *script.Scheduler, lib *Library, logger *log.Logger, x, y float64, phases []Phase) *Boss {
	if logger == nil {
		logger = log.Default()
	}
	return &Boss{x: x, y: y, env: env, sched: sched, lib: lib, logger: logger, phases: phases}
}

// Position implements script.Mover.
func (b *Boss) Position() (float64, float64) { return b.x, b.y }

// SetPosition implements script.Mover.
func (b *Boss) SetPosition(x, y float64) { b.x, b.y = x, y }

// IsActive reports whether a phase is currently running.
func (b *Boss) IsActive() bool { return b.active }

// Defeated reports whether every phase has ended.
func (b *Boss) Defeated() bool { return b.defeated }

// HPFrac returns the current phase's remaining HP fraction for the HUD.
func (b *Boss) HPFrac() float64 {
	if !b.active || b.phases[b.idx].HP == 0 {
		return 0
	}
	return b.hp / b.phases[b.idx].HP
}

// TimeLeft returns the seconds remaining in the current phase, or 0 when
// the phase has no limit.
func (b *Boss) TimeLeft() float64 {
	if !b.active {
		return 0
	}
	if limit := b.phases[b.idx].TimeLimit; limit > 0 && limit > b.elapsed {
		return limit - b.elapsed
	}
	return 0
}

// PhaseName returns the running phase's name, or empty.
func (b *Boss) PhaseName() string {
	if !b.active {
		return ""
	}
	return b.phases[b.idx].Name
}

// Start begins the first phase. Starting an empty phase list defeats the
// boss immediately.
func (b *Boss) Start() {
	if b.active || b.defeated {
		return
	}
	if len(b.phases) == 0 {
		b.defeated = true
		return
	}
	b.idx = 0
	b.startPhase()
}

func (b *Boss) startPhase() {
	ph := &b.phases[b.idx]
	restore := ph.Restore
	if restore <= 0 || restore > 1 {
		restore = 1
	}
	b.hp = ph.HP * restore
	b.elapsed = 0
	b.clean = true
	b.active = true
	b.ctx = b.env.Bind(b)
	b.ctx.Record()

	fn := ph.Script
	if fn == nil {
		var ok bool
		fn, ok = b.lib.Phase(ph.Key)
		if !ok {
			b.logger.Error("unknown phase key", "key", ph.Key, "phase", ph.Name)
			fn = func(t *script.Task, b *Boss, ctx *Context) {}
		}
	}
	b.task = b.sched.Spawn("phase:"+ph.Name, func(t *script.Task) {
		fn(t, b, b.ctx)
	})
	if ph.Spellcard {
		b.env.Audio.Play("spellcard")
	}
	b.logger.Info("phase start", "phase", ph.Name, "hp", b.hp)
}

// Damage applies player shot damage. It only lands while a damageable
// phase is active; the resulting transition happens on the next Update.
func (b *Boss) Damage(amount float64) {
	if !b.active || !b.phases[b.idx].Damageable {
		return
	}
	b.hp -= amount
}

// NotifyMiss voids the current phase's bonus. Called when the player dies.
func (b *Boss) NotifyMiss() { b.clean = false }

// NotifyBomb voids the current phase's bonus. Called when the player
// bombs.
func (b *Boss) NotifyBomb() { b.clean = false }

// Update advances the running phase by dt seconds and performs at most one
// phase transition. HP exhaustion is checked before the timeout so lethal
// damage on the timeout tick still counts as a capture.
func (b *Boss) Update(dt float64) {
	if !b.active {
		return
	}
	b.elapsed += dt
	ph := &b.phases[b.idx]
	switch {
	case ph.Damageable && b.hp <= 0:
		b.endPhase(true)
	case ph.TimeLimit > 0 && b.elapsed >= ph.TimeLimit:
		b.endPhase(false)
	}
}

// bonus returns the phase bonus decayed linearly to half across the time
// limit.
func (b *Boss) bonus() int64 {
	ph := &b.phases[b.idx]
	if ph.TimeLimit <= 0 {
		return ph.Bonus
	}
	t := b.elapsed / ph.TimeLimit
	if t > 1 {
		t = 1
	}
	return int64(math.Round(float64(ph.Bonus) * (1 - 0.5*t)))
}

func (b *Boss) endPhase(captured bool) {
	ph := &b.phases[b.idx]
	b.task.Cancel()
	if captured {
		if ph.Spellcard {
			b.ctx.ConvertFired(ItemPoint)
		} else {
			b.ctx.ClearFired()
		}
		if b.clean && ph.Bonus > 0 && b.OnBonus != nil {
			b.OnBonus(b.bonus())
		}
	} else {
		b.ctx.ClearFired()
	}
	for _, d := range ph.Drops {
		b.env.Items.Spawn(d.Kind, d.Amount, b.x, b.y)
	}
	b.logger.Info("phase end", "phase", ph.Name, "captured", captured)

	b.idx++
	if b.idx >= len(b.phases) {
		b.active = false
		b.defeated = true
		b.env.Items.AttractAll()
		b.env.Audio.Play("boss_die")
		return
	}
	b.startPhase()
}

// Cancel force-ends the boss without defeat credit: the running task is
// unwound and its bullets swept.
func (b *Boss) Cancel() {
	if !b.active {
		return
	}
	b.task.Cancel()
	b.ctx.ClearFired()
	b.active = false
}
