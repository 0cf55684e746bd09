package stage

import (
	"github.com/tomz197/barrage/internal/collide"
	"github.com/tomz197/barrage/internal/script"
)

// Drop is a pickup an enemy leaves behind on death.
type Drop struct {
	Kind   ItemKind
	Amount int
}

// EnemyFn is the authored behavior of one enemy, run as a script task
// bound to the enemy and its own context.
type EnemyFn func(t *script.Task, e *Enemy, ctx *Context)

// Enemy is a scripted shooting entity. Its position is steered by its
// task; the stage queries it for shot collision and sweeps it on death.
type Enemy struct {
	x, y   float64
	HP     float64
	Radius float64
	Score  int64
	Drops  []Drop

	alive bool
	task  *script.Task
	ctx   *Context
}

// Position implements script.Mover.
func (e *Enemy) Position() (float64, float64) { return e.x, e.y }

// SetPosition implements script.Mover.
func (e *Enemy) SetPosition(x, y float64) { e.x, e.y = x, y }

// Alive reports whether the enemy is still in play.
func (e *Enemy) Alive() bool { return e.alive }

// Ctx returns the enemy's bound context.
func (e *Enemy) Ctx() *Context { return e.ctx }

// EnemyList owns every scripted enemy of a stage run.
type EnemyList struct {
	env     *Env
	sched   *script.Scheduler
	enemies []*Enemy

	targets []collide.Target // query scratch
}

// NewEnemyList returns an empty list backed by the given env and
// scheduler.
func NewEnemyList(env *Env, sched *script.Scheduler) *EnemyList {
	return &EnemyList{env: env, sched: sched}
}

// Spawn creates an enemy at (x, y) and starts its behavior task. The
// enemy's context records its bullets so they can be swept on death.
func (l *EnemyList) Spawn(name string, x, y, hp, radius float64, score int64, drops []Drop, fn EnemyFn) *Enemy {
	e := &Enemy{
		x: x, y: y,
		HP:     hp,
		Radius: radius,
		Score:  score,
		Drops:  drops,
		alive:  true,
	}
	e.ctx = l.env.Bind(e)
	e.ctx.Record()
	e.task = l.sched.Spawn(name, func(t *script.Task) {
		fn(t, e, e.ctx)
	})
	l.enemies = append(l.enemies, e)
	return e
}

// AliveCount returns how many enemies are in play.
func (l *EnemyList) AliveCount() int {
	n := 0
	for _, e := range l.enemies {
		if e.alive {
			n++
		}
	}
	return n
}

// Targets fills the shot-collision view. Row order matches the internal
// list, so indices in hits map back through ApplyHits.
func (l *EnemyList) Targets() []collide.Target {
	l.targets = l.targets[:0]
	for _, e := range l.enemies {
		l.targets = append(l.targets, collide.Target{X: e.x, Y: e.y, Radius: e.Radius, Alive: e.alive})
	}
	return l.targets
}

// ApplyHits routes shot damage into enemies. A killed enemy has its task
// cancelled, its live bullets swept, and its drops placed; the score of
// every kill is summed into the return value.
func (l *EnemyList) ApplyHits(hits []collide.Hit) int64 {
	var score int64
	for _, h := range hits {
		e := l.enemies[h.Target]
		if !e.alive {
			continue
		}
		e.HP -= h.Damage
		if e.HP > 0 {
			l.env.Audio.Play("enemy_hit")
			continue
		}
		l.kill(e)
		score += e.Score
	}
	return score
}

func (l *EnemyList) kill(e *Enemy) {
	e.alive = false
	e.task.Cancel()
	e.ctx.ClearFired()
	for _, d := range e.Drops {
		l.env.Items.Spawn(d.Kind, d.Amount, e.x, e.y)
	}
	l.env.Audio.Play("enemy_die")
}

// Sweep drops enemies whose own script finished or walked them off the
// field, and compacts the list. Finished enemies leave no drops.
func (l *EnemyList) Sweep() {
	live := l.enemies[:0]
	for _, e := range l.enemies {
		if e.alive && e.task.Done() {
			e.alive = false
			e.ctx.fired = e.ctx.fired[:0]
		}
		if e.alive {
			live = append(live, e)
		}
	}
	l.enemies = live
}

// CancelAll force-ends every live enemy without drops or effects.
func (l *EnemyList) CancelAll() {
	for _, e := range l.enemies {
		if e.alive {
			e.alive = false
			e.task.Cancel()
			e.ctx.ClearFired()
		}
	}
	l.enemies = l.enemies[:0]
}

// ForEachAlive visits live enemies for rendering.
func (l *EnemyList) ForEachAlive(fn func(e *Enemy)) {
	for _, e := range l.enemies {
		if e.alive {
			fn(e)
		}
	}
}
