package game

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/barrage/internal/audio"
	"github.com/tomz197/barrage/internal/collide"
	"github.com/tomz197/barrage/internal/config"
	"github.com/tomz197/barrage/internal/input"
	"github.com/tomz197/barrage/internal/physics"
	"github.com/tomz197/barrage/internal/pool"
	"github.com/tomz197/barrage/internal/script"
	"github.com/tomz197/barrage/internal/sprite"
	"github.com/tomz197/barrage/internal/stage"
)

// despawn margin beyond the field edge, in field units.
const fieldMargin = 0.5

const (
	shotDamage   = 1.0
	shotSpeed    = 2.2
	shotCooldown = 5 // frames between volleys
	pointValue   = 10
	grazeValue   = 50
	powerPerItem = 0.05
)

// State is the run's coarse outcome.
type State uint8

const (
	Playing State = iota
	Cleared
	GameOver
)

// Game is one run of the simulation: pools, scheduler, stage content and
// the player, advanced one tick per Step on a single goroutine.
type Game struct {
	cfg    config.Config
	logger *log.Logger
	dt     float64

	Pool    *pool.Pool
	Shots   *pool.ShotPool
	Sprites *sprite.Registry
	Lasers  *stage.LaserList
	Env     *stage.Env
	Sched   *script.Scheduler
	Stage   *stage.Stage
	Player  *Player
	Audio   audio.Player

	tick     uint64
	state    State
	cooldown int
	shotTag  uint16

	hits []collide.Hit // query scratch
}

// New wires a run over the given content library.
func New(cfg config.Config, logger *log.Logger, snd audio.Player, lib *stage.Library) *Game {
	if logger == nil {
		logger = log.Default()
	}
	if snd == nil {
		snd = audio.Null{}
	}
	bounds := pool.FieldBounds(fieldMargin)
	g := &Game{
		cfg:     cfg,
		logger:  logger,
		dt:      1.0 / float64(cfg.TickRate),
		Pool:    pool.New(cfg.PoolCapacity, bounds),
		Shots:   pool.NewShotPool(cfg.ShotCapacity, bounds),
		Sprites: sprite.RegisterDefaults(sprite.NewRegistry()),
		Lasers:  stage.NewLaserList(),
		Player:  NewPlayer(cfg.Lives, cfg.Bombs),
		Audio:   snd,
	}
	g.Env = &stage.Env{
		Pool:      g.Pool,
		Items:     stage.NewItemPool(cfg.ItemCapacity),
		Sprites:   g.Sprites,
		Lasers:    g.Lasers,
		Audio:     snd,
		PlayerPos: g.Player.Position,
	}
	g.Sched = script.NewScheduler(logger)
	g.Stage = stage.NewStage(g.Env, g.Sched, lib, logger)
	g.Stage.OnBonus = func(amount int64) {
		g.Player.Score += amount
		g.logger.Info("spellcard bonus", "amount", amount)
	}
	g.shotTag, _ = g.Sprites.Tag("player_shot")
	return g
}

// Start launches the stage task.
func (g *Game) Start(name string, sections []stage.Section) {
	g.Stage.Run(name, sections)
}

// State returns the run outcome so far.
func (g *Game) State() State { return g.state }

// Tick returns the number of completed steps.
func (g *Game) Tick() uint64 { return g.tick }

// Step advances the simulation one tick. Order within the tick is fixed:
// input, script tasks, batched pool updates, collision queries, death
// dispatch, then the deferred spawn queue.
func (g *Game) Step(in input.Input) {
	if g.state != Playing {
		return
	}

	g.applyInput(in)
	g.Sched.Tick()
	g.Pool.Update(g.dt)
	g.Shots.Update(g.dt, g.aim)
	g.Lasers.Update()
	g.Env.Items.Update(g.dt, g.Player.x, g.Player.y)
	g.collide()
	g.Pool.DispatchDeaths()
	g.Pool.AdvancePending()

	if b := g.Stage.Boss(); b != nil {
		b.Update(g.dt)
	}
	g.Stage.Enemies().Sweep()
	g.Player.TickDown()
	if g.cooldown > 0 {
		g.cooldown--
	}
	g.tick++

	if g.Stage.Done() && g.state == Playing {
		g.state = Cleared
		g.logger.Info("stage clear", "score", g.Player.Score)
	}
}

func (g *Game) applyInput(in input.Input) {
	var dx, dy float64
	if in.Left {
		dx -= 1
	}
	if in.Right {
		dx += 1
	}
	if in.Up {
		dy += 1
	}
	if in.Down {
		dy -= 1
	}
	g.Player.Move(dx, dy, g.dt, in.Focus)

	if in.Fire && g.cooldown == 0 {
		g.fireVolley()
		g.cooldown = shotCooldown
	}
	if in.Bomb && g.Player.UseBomb() {
		g.bomb()
	}
}

// fireVolley spawns the player's forward shots; power widens the volley.
func (g *Game) fireVolley() {
	px, py := g.Player.x, g.Player.y
	up := math.Pi / 2
	opts := pool.ShotOpts{Damage: shotDamage, MaxLifetime: 2}
	g.Shots.Spawn(px-0.01, py, up, shotSpeed, g.shotTag, opts)
	g.Shots.Spawn(px+0.01, py, up, shotSpeed, g.shotTag, opts)
	if g.Player.Power >= 2 {
		side := pool.ShotOpts{Damage: shotDamage * 0.6, Homing: 4, MaxLifetime: 2}
		g.Shots.Spawn(px-0.03, py, up+0.25, shotSpeed, g.shotTag, side)
		g.Shots.Spawn(px+0.03, py, up-0.25, shotSpeed, g.shotTag, side)
	}
	g.Audio.Play("shot")
}

// bomb clears the screen: every enemy bullet dies silently, lasers drop,
// pickups race to the player, and the boss bonus is voided.
func (g *Game) bomb() {
	g.Pool.Clear()
	g.Lasers.Clear()
	g.Env.Items.AttractAll()
	if b := g.Stage.Boss(); b != nil {
		b.NotifyBomb()
		b.Damage(8)
	}
	g.Audio.Play("bomb")
	g.logger.Info("bomb", "remaining", g.Player.Bombs)
}

// aim feeds homing shots the nearest live target.
func (g *Game) aim(x, y float64) (float64, float64, bool) {
	best := math.MaxFloat64
	var tx, ty float64
	found := false
	g.Stage.Enemies().ForEachAlive(func(e *stage.Enemy) {
		ex, ey := e.Position()
		if d := physics.DistanceSquared(x, y, ex, ey); d < best {
			best, tx, ty, found = d, ex, ey, true
		}
	})
	if b := g.Stage.Boss(); b != nil && b.IsActive() {
		bx, by := b.Position()
		if d := physics.DistanceSquared(x, y, bx, by); d < best {
			tx, ty, found = bx, by, true
		}
	}
	return tx, ty, found
}

func (g *Game) collide() {
	px, py := g.Player.x, g.Player.y

	// Player shots against enemies, then the boss.
	enemies := g.Stage.Enemies()
	g.hits = collide.ShotsVsEnemies(g.Shots, enemies.Targets(), 0.02, g.hits[:0])
	g.Player.Score += enemies.ApplyHits(g.hits)
	if b := g.Stage.Boss(); b != nil && b.IsActive() {
		bx, by := b.Position()
		bossTarget := []collide.Target{{X: bx, Y: by, Radius: 0.06, Alive: true}}
		g.hits = collide.ShotsVsEnemies(g.Shots, bossTarget, 0.02, g.hits[:0])
		for _, h := range g.hits {
			b.Damage(h.Damage)
		}
	}

	// Enemy fire against the player.
	if !g.Player.Invulnerable() {
		hit := collide.PlayerVsBullets(px, py, PlayerRadius, g.Pool.View()) != collide.None
		if !hit {
			hit = g.Lasers.HitsPlayer(px, py, PlayerRadius)
		}
		if hit {
			g.playerHit()
		}
	}
	if grazed := collide.PlayerGraze(px, py, GrazeRadius, g.Pool.View()); grazed > 0 {
		g.Player.Graze += grazed
		g.Player.Score += int64(grazed * grazeValue)
		g.Audio.Play("graze")
	}

	for _, c := range g.Env.Items.Collect(px, py, PlayerRadius+0.02) {
		g.collectItem(c)
	}
}

func (g *Game) playerHit() {
	if b := g.Stage.Boss(); b != nil {
		b.NotifyMiss()
	}
	g.Pool.Clear()
	g.Lasers.Clear()
	g.Audio.Play("player_die")
	if !g.Player.Hit() {
		g.state = GameOver
		g.Stage.Cancel()
		// Stage.Cancel does not know about wave tasks; sweep the whole
		// scheduler so no fiber stays parked after the run ends.
		g.Sched.CancelAll()
		g.logger.Info("game over", "score", g.Player.Score, "tick", g.tick)
	}
}

func (g *Game) collectItem(c stage.Collected) {
	switch c.Kind {
	case stage.ItemPower:
		if g.Player.AddPower(powerPerItem * float64(c.Amount)) {
			g.Player.Score += int64(c.Amount * pointValue)
		}
	case stage.ItemPoint:
		g.Player.Score += int64(c.Amount * pointValue)
	case stage.ItemLifeChip:
		g.Player.Lives += c.Amount
		g.Audio.Play("extend")
		return
	case stage.ItemBombChip:
		g.Player.Bombs += c.Amount
	}
	g.Audio.Play("item")
}
