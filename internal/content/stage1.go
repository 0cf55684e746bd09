// Package content holds the authored behavior of the playable stages:
// enemy scripts, waves, boss phases and the section lists tying them
// together. Everything here talks to the simulation exclusively through
// the stage context.
package content

import (
	"math"

	"github.com/tomz197/barrage/internal/pool"
	"github.com/tomz197/barrage/internal/script"
	"github.com/tomz197/barrage/internal/sprite"
	"github.com/tomz197/barrage/internal/stage"
)

// Stage1 registers all stage 1 content into lib and returns the section
// list to run.
func Stage1(lib *stage.Library) []stage.Section {
	lib.RegisterEnemy("s1.popcorn", popcorn)
	lib.RegisterEnemy("s1.streamer", streamer)
	lib.RegisterWave("s1.opening", openingWave(lib))
	lib.RegisterWave("s1.crossfire", crossfireWave(lib))
	lib.RegisterPhase("s1.mid.nonspell", midNonspell)
	lib.RegisterPhase("s1.mid.spell", midSpell)
	lib.RegisterPhase("s1.boss.nonspell1", bossNonspell1)
	lib.RegisterPhase("s1.boss.spell1", bossSpellRings)
	lib.RegisterPhase("s1.boss.nonspell2", bossNonspell2)
	lib.RegisterPhase("s1.boss.spell2", bossSpellLasers)

	return []stage.Section{
		{Wave: "s1.opening", WaitClear: true, Wait: 60},
		{Wave: "s1.crossfire", WaitClear: true, Wait: 90},
		{
			Boss: []stage.Phase{
				{Name: "Midboss Pressure", Key: "s1.mid.nonspell", HP: 60, TimeLimit: 25, Damageable: true,
					Drops: []stage.Drop{{Kind: stage.ItemPower, Amount: 4}}},
				{Name: "Scatter Sign", Key: "s1.mid.spell", HP: 80, TimeLimit: 30, Bonus: 100000, Damageable: true, Spellcard: true,
					Drops: []stage.Drop{{Kind: stage.ItemPoint, Amount: 6}, {Kind: stage.ItemBombChip, Amount: 1}}},
			},
			BossY: 0.55,
		},
		{Wait: 120},
		{Wave: "s1.crossfire", WaitClear: true, Wait: 60},
		{
			Boss: []stage.Phase{
				{Name: "Opening Volley", Key: "s1.boss.nonspell1", HP: 90, TimeLimit: 30, Damageable: true,
					Drops: []stage.Drop{{Kind: stage.ItemPower, Amount: 4}}},
				{Name: "Ring Sign - Full Bloom", Key: "s1.boss.spell1", HP: 120, TimeLimit: 40, Bonus: 200000, Damageable: true, Spellcard: true,
					Drops: []stage.Drop{{Kind: stage.ItemPoint, Amount: 8}}},
				{Name: "Second Volley", Key: "s1.boss.nonspell2", HP: 90, TimeLimit: 30, Damageable: true, Restore: 0.9,
					Drops: []stage.Drop{{Kind: stage.ItemPower, Amount: 4}}},
				{Name: "Light Sign - Crossing Beams", Key: "s1.boss.spell2", HP: 150, TimeLimit: 45, Bonus: 300000, Damageable: true, Spellcard: true,
					Drops: []stage.Drop{{Kind: stage.ItemPoint, Amount: 10}, {Kind: stage.ItemLifeChip, Amount: 1}}},
			},
			BossY: 0.55,
		},
	}
}

// popcorn drifts in from the top, fires a short aimed burst and leaves.
func popcorn(t *script.Task, e *stage.Enemy, ctx *stage.Context) {
	_, startY := e.Position()
	t.MoveTo(e, enemyX(e), startY-0.35, 45)
	t.Wait(20)
	for burst := 0; burst < 3; burst++ {
		ctx.FireAtPlayer(sprite.Rice, "blue", 0, 0.55)
		ctx.PlaySound("shot")
		t.Wait(12)
	}
	t.Wait(20)
	t.MoveTo(e, enemyX(e), 1.3, 90)
}

// streamer sweeps across the field leaving a trail of slow fans.
func streamer(t *script.Task, e *stage.Enemy, ctx *stage.Context) {
	x, y := e.Position()
	dir := 1.0
	if x > 0 {
		dir = -1
	}
	for step := 0; step < 8; step++ {
		t.MoveLinear(e, x+dir*float64(step+1)*0.22, y, 18)
		ctx.FireArc(sprite.Kunai, "red", -90, 50, 0.45, 3)
		ctx.PlaySound("shot")
	}
}

func enemyX(e *stage.Enemy) float64 {
	x, _ := e.Position()
	return x
}

func openingWave(lib *stage.Library) stage.WaveFn {
	return func(t *script.Task, ctx *stage.Context, enemies *stage.EnemyList) {
		fn, _ := lib.Enemy("s1.popcorn")
		for i := 0; i < 5; i++ {
			x := -0.6 + float64(i)*0.3
			enemies.Spawn("popcorn", x, 1.1, 4, 0.035, 300,
				[]stage.Drop{{Kind: stage.ItemPower, Amount: 1}}, fn)
			t.Wait(30)
		}
	}
}

func crossfireWave(lib *stage.Library) stage.WaveFn {
	return func(t *script.Task, ctx *stage.Context, enemies *stage.EnemyList) {
		stream, _ := lib.Enemy("s1.streamer")
		pop, _ := lib.Enemy("s1.popcorn")
		streamDrops := []stage.Drop{{Kind: stage.ItemPower, Amount: 2}, {Kind: stage.ItemPoint, Amount: 3}}
		enemies.Spawn("streamer", -1.05, 0.7, 10, 0.04, 800, streamDrops, stream)
		t.Wait(90)
		enemies.Spawn("streamer", 1.05, 0.5, 10, 0.04, 800, streamDrops, stream)
		t.Wait(60)
		for i := 0; i < 4; i++ {
			enemies.Spawn("popcorn", -0.45+float64(i)*0.3, 1.1, 4, 0.035, 300,
				[]stage.Drop{{Kind: stage.ItemPoint, Amount: 2}}, pop)
			t.Wait(24)
		}
	}
}

func midNonspell(t *script.Task, b *stage.Boss, ctx *stage.Context) {
	t.MoveTo(b, 0, 0.55, 30)
	for {
		for vol := 0; vol < 3; vol++ {
			ctx.FireArc(sprite.BallM, "red", -90, 70, 0.5, 5)
			ctx.PlaySound("shot")
			t.Wait(15)
		}
		t.Wait(40)
		side := 0.3
		if px, _ := ctx.Player(); px > 0 {
			side = -0.3
		}
		t.MoveTo(b, side, 0.55, 40)
	}
}

func midSpell(t *script.Task, b *stage.Boss, ctx *stage.Context) {
	t.MoveTo(b, 0, 0.6, 30)
	spin := 0.0
	for {
		ctx.FireCircle(sprite.BallS, "purple", spin, 0.35, 12)
		spin += 13
		ctx.PlaySound("shot")
		t.Wait(9)
	}
}

func bossNonspell1(t *script.Task, b *stage.Boss, ctx *stage.Context) {
	t.MoveTo(b, 0, 0.55, 30)
	for {
		for vol := 0; vol < 4; vol++ {
			ctx.FireAtPlayer(sprite.Kunai, "aqua", -10, 0.65)
			ctx.FireAtPlayer(sprite.Kunai, "aqua", 10, 0.65)
			ctx.PlaySound("shot")
			t.Wait(10)
		}
		t.Wait(50)
	}
}

// bossSpellRings alternates expanding rings with slow gravity petals.
func bossSpellRings(t *script.Task, b *stage.Boss, ctx *stage.Context) {
	t.MoveTo(b, 0, 0.6, 30)
	base := 0.0
	for {
		for ring := 0; ring < 3; ring++ {
			ctx.FireCircle(sprite.BallM, "yellow", base, 0.3+0.08*float64(ring), 16)
			base += 7.5
			ctx.PlaySound("shot")
			t.Wait(20)
		}
		// Petals that sag under downward pull.
		for i := 0; i < 8; i++ {
			ctx.Fire(sprite.BallL, "red", -90+float64(i-4)*18, 0.25,
				pool.SpawnOpts{AccelY: -0.15, MaxLifetime: 6})
		}
		ctx.PlaySound("shot")
		t.Wait(70)
	}
}

func bossNonspell2(t *script.Task, b *stage.Boss, ctx *stage.Context) {
	t.MoveTo(b, 0, 0.55, 30)
	for {
		ctx.FireCircle(sprite.Rice, "green", 0, 0.5, 20)
		t.Wait(25)
		ctx.FireAtPlayer(sprite.BallM, "white", 0, 0.7)
		ctx.PlaySound("shot")
		t.Wait(25)
	}
}

// bossSpellLasers pins the player with a pair of crossing beams while a
// curving star stream sweeps the gap between them.
func bossSpellLasers(t *script.Task, b *stage.Boss, ctx *stage.Context) {
	t.MoveTo(b, 0, 0.6, 30)
	tilt := 35.0
	for {
		ctx.PlaySound("laser")
		ctx.FireLaser(-90-tilt, 2.2, 0.05, 45, 120)
		ctx.FireLaser(-90+tilt, 2.2, 0.05, 45, 120)
		sweep := 0.0
		for i := 0; i < 24; i++ {
			a := -90 + 60*math.Sin(sweep)
			ctx.Fire(sprite.Star, "aqua", a-25, 0.45, pool.SpawnOpts{AngularAccel: 0.6})
			ctx.Fire(sprite.Star, "purple", a+25, 0.45, pool.SpawnOpts{AngularAccel: -0.6})
			sweep += 0.26
			if i%6 == 0 {
				ctx.PlaySound("shot")
			}
			t.Wait(7)
		}
		t.Wait(45)
		if tilt == 35 {
			tilt = 20
		} else {
			tilt = 35
		}
	}
}
