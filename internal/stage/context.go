package stage

import (
	"math"

	"github.com/tomz197/barrage/internal/audio"
	"github.com/tomz197/barrage/internal/collide"
	"github.com/tomz197/barrage/internal/pool"
	"github.com/tomz197/barrage/internal/script"
	"github.com/tomz197/barrage/internal/sprite"
)

// Env bundles the simulation services a context exposes to scripts. One
// Env per simulation; contexts bound to individual owners share it.
type Env struct {
	Pool      *pool.Pool
	Items     *ItemPool
	Sprites   *sprite.Registry
	Lasers    *LaserList
	Audio     audio.Player
	PlayerPos func() (x, y float64)
}

// Bind returns a context firing from the given owner. A nil owner (stage
// and wave tasks) fires from the field origin.
func (e *Env) Bind(owner script.Mover) *Context {
	return &Context{env: e, owner: owner}
}

// Context is the only surface authored scripts touch. Angles cross this
// boundary in degrees and are converted to radians exactly once, here.
// Bullet identity is a type and color name pair resolved through the
// visual registry; scripts never see pool indices, only opaque handles.
type Context struct {
	env   *Env
	owner script.Mover

	recording bool
	fired     []pool.Handle
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func (c *Context) origin() (float64, float64) {
	if c.owner == nil {
		return 0, 0
	}
	return c.owner.Position()
}

func (c *Context) resolve(typ, color string) (uint16, float64) {
	tag, ok := c.env.Sprites.Tag(sprite.BulletName(typ, color))
	if !ok {
		tag, _ = c.env.Sprites.Tag(sprite.BulletName(sprite.BallS, "white"))
	}
	return tag, c.env.Sprites.Info(tag).Radius
}

// Fire spawns one bullet from the owner at angleDeg degrees. Extra
// kinematics (acceleration, lifetime, death handler) ride in opts; the
// collision radius comes from the visual unless opts overrides it.
func (c *Context) Fire(typ, color string, angleDeg, speed float64, opts pool.SpawnOpts) pool.Handle {
	tag, radius := c.resolve(typ, color)
	if opts.Radius == 0 {
		opts.Radius = radius
	}
	x, y := c.origin()
	i := c.env.Pool.Spawn(x, y, deg2rad(angleDeg), speed, tag, opts)
	if i == pool.None {
		return pool.NoHandle
	}
	h := c.env.Pool.HandleOf(i)
	if c.recording {
		c.fired = append(c.fired, h)
	}
	return h
}

// FireCircle spawns an evenly spaced ring of count bullets starting at
// baseAngleDeg. Non-positive counts are a no-op. When no recorder is
// attached the ring goes through the pool's batch pattern path.
func (c *Context) FireCircle(typ, color string, baseAngleDeg, speed float64, count int) {
	if count <= 0 {
		return
	}
	if !c.recording {
		tag, radius := c.resolve(typ, color)
		x, y := c.origin()
		c.env.Pool.SpawnPattern(x, y, deg2rad(baseAngleDeg), speed, count, 2*math.Pi, tag, pool.SpawnOpts{Radius: radius})
		return
	}
	step := 360.0 / float64(count)
	for i := 0; i < count; i++ {
		c.Fire(typ, color, baseAngleDeg+float64(i)*step, speed, pool.SpawnOpts{})
	}
}

// FireArc spawns count bullets spread symmetrically across arcDeg degrees
// around centerDeg. A single bullet fires straight down the center.
// Non-positive counts are a no-op.
func (c *Context) FireArc(typ, color string, centerDeg, arcDeg, speed float64, count int) {
	if count <= 0 {
		return
	}
	if count == 1 {
		c.Fire(typ, color, centerDeg, speed, pool.SpawnOpts{})
		return
	}
	start := centerDeg - arcDeg/2
	step := arcDeg / float64(count-1)
	for i := 0; i < count; i++ {
		c.Fire(typ, color, start+float64(i)*step, speed, pool.SpawnOpts{})
	}
}

// FireAtPlayer spawns one bullet aimed at the player's current position,
// rotated by offsetDeg.
func (c *Context) FireAtPlayer(typ, color string, offsetDeg, speed float64) pool.Handle {
	x, y := c.origin()
	px, py := c.env.PlayerPos()
	aim := math.Atan2(py-y, px-x)
	return c.Fire(typ, color, aim*180/math.Pi+offsetDeg, speed, pool.SpawnOpts{})
}

// FireLaser anchors a straight beam at the owner, pointing at angleDeg.
// The beam telegraphs for charge frames, then turns lethal for active
// frames. Tapered end caps take a tenth of the length each.
func (c *Context) FireLaser(angleDeg, length, width float64, charge, active int) *Laser {
	x, y := c.origin()
	end := length * 0.1
	return c.env.Lasers.SpawnStraight(collide.StraightLaser{
		X: x, Y: y,
		Angle: deg2rad(angleDeg),
		Head:  end, Body: length - 2*end, Tail: end,
		Width: width,
	}, charge, active)
}

// FireBentLaser starts a trail hazard owned by the calling script, which
// extends it by pushing head positions. Lethal once charge frames pass.
func (c *Context) FireBentLaser(width float64, points, charge int) *BentLaser {
	return c.env.Lasers.SpawnBent(width, points, charge)
}

// SpawnDrop places a pickup at the owner's position.
func (c *Context) SpawnDrop(kind ItemKind, amount int) {
	if amount <= 0 {
		return
	}
	x, y := c.origin()
	c.env.Items.Spawn(kind, amount, x, y)
}

// Player returns the player's position, read-only.
func (c *Context) Player() (x, y float64) {
	return c.env.PlayerPos()
}

// PlaySound forwards a fire-and-forget effect request.
func (c *Context) PlaySound(name string) {
	c.env.Audio.Play(name)
}

// Record begins tracking every bullet subsequently fired through this
// context, so the orchestrator can sweep them when the owner dies.
func (c *Context) Record() {
	c.recording = true
	c.fired = c.fired[:0]
}

// FiredAlive returns the handles of recorded bullets that are still live.
func (c *Context) FiredAlive() []pool.Handle {
	live := c.fired[:0]
	for _, h := range c.fired {
		if c.env.Pool.Live(h) {
			live = append(live, h)
		}
	}
	c.fired = live
	return live
}

// ClearFired kills every live recorded bullet without death effects and
// forgets them.
func (c *Context) ClearFired() {
	for _, h := range c.FiredAlive() {
		c.env.Pool.KillSilent(h.Index)
	}
	c.fired = c.fired[:0]
}

// ConvertFired turns every live recorded bullet into a pickup of the given
// kind at the bullet's position, then forgets them. Used when a spellcard
// ends.
func (c *Context) ConvertFired(kind ItemKind) {
	for _, h := range c.FiredAlive() {
		x, y := c.env.Pool.Position(h.Index)
		c.env.Items.Spawn(kind, 1, x, y)
		c.env.Pool.KillSilent(h.Index)
	}
	c.fired = c.fired[:0]
}
