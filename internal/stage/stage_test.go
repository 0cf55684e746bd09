package stage

import (
	"testing"

	"github.com/tomz197/barrage/internal/collide"
	"github.com/tomz197/barrage/internal/script"
)

func idleEnemy(t *script.Task, e *Enemy, ctx *Context) {
	for {
		t.Yield()
	}
}

func TestEnemyDeathDropsAndSweepsBullets(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	list := NewEnemyList(env, sched)

	list.Spawn("popcorn", 0, 0.5, 3, 0.05, 100, []Drop{{Kind: ItemPower, Amount: 1}},
		func(t *script.Task, e *Enemy, ctx *Context) {
			ctx.FireCircle("ball_s", "red", 0, 0.2, 4)
			for {
				t.Yield()
			}
		})
	sched.Tick()
	if env.Pool.AliveCount() != 4 {
		t.Fatalf("bullets = %d, want 4", env.Pool.AliveCount())
	}

	score := list.ApplyHits([]collide.Hit{{Target: 0, Damage: 3, X: 0, Y: 0.5}})
	if score != 100 {
		t.Fatalf("score = %d, want 100", score)
	}
	if env.Pool.AliveCount() != 0 {
		t.Fatal("enemy bullets not swept on death")
	}
	if env.Items.AliveCount() != 1 {
		t.Fatal("enemy drop not placed")
	}
	list.Sweep()
	if list.AliveCount() != 0 {
		t.Fatal("dead enemy still listed")
	}
}

func TestEnemySurvivesPartialDamage(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	list := NewEnemyList(env, sched)
	e := list.Spawn("tough", 0, 0.5, 10, 0.05, 100, nil, idleEnemy)

	score := list.ApplyHits([]collide.Hit{{Target: 0, Damage: 4}})
	if score != 0 || !e.Alive() {
		t.Fatal("enemy died early")
	}
	if e.HP != 6 {
		t.Fatalf("hp = %v, want 6", e.HP)
	}
}

func TestTargetsMirrorEnemies(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	list := NewEnemyList(env, sched)
	list.Spawn("a", -0.3, 0.5, 1, 0.04, 10, nil, idleEnemy)
	list.Spawn("b", 0.3, 0.6, 1, 0.05, 10, nil, idleEnemy)

	ts := list.Targets()
	if len(ts) != 2 {
		t.Fatalf("targets = %d, want 2", len(ts))
	}
	if ts[1].X != 0.3 || ts[1].Y != 0.6 || ts[1].Radius != 0.05 || !ts[1].Alive {
		t.Fatalf("target[1] = %+v", ts[1])
	}
}

func TestStageSectionsRunInOrder(t *testing.T) {
	env := testEnv(64)
	sched := script.NewScheduler(quiet())
	lib := NewLibrary()
	lib.RegisterWave("wave.one", func(t *script.Task, ctx *Context, enemies *EnemyList) {
		enemies.Spawn("popcorn", 0, 0.5, 1, 0.05, 10, nil, func(t *script.Task, e *Enemy, ctx *Context) {
			t.Wait(2) // finishes, then gets swept
		})
	})
	lib.RegisterPhase("boss.spell", func(t *script.Task, b *Boss, ctx *Context) {
		for {
			t.Yield()
		}
	})
	st := NewStage(env, sched, lib, quiet())
	st.Run("one", []Section{
		{Wave: "wave.one", WaitClear: true},
		{Wait: 2},
		{Boss: []Phase{{Name: "spell", Key: "boss.spell", HP: 1, Damageable: true}}, BossY: 0.5},
	})

	for i := 0; i < 20; i++ {
		sched.Tick()
		if b := st.Boss(); b != nil {
			b.Update(dt)
		}
	}
	b := st.Boss()
	if b == nil {
		t.Fatal("boss fight never started")
	}
	b.Damage(1)
	b.Update(dt)
	sched.Tick()
	sched.Tick()
	if !st.Done() {
		t.Fatal("stage not done after boss defeat")
	}
}

func TestLaserLifecycle(t *testing.T) {
	lasers := NewLaserList()
	beam := collide.StraightLaser{X: 0, Y: 0, Angle: 0, Body: 1, Width: 0.1}
	l := lasers.SpawnStraight(beam, 2, 3)

	if lasers.HitsPlayer(0.5, 0, 0.01) {
		t.Fatal("laser collided before its first update")
	}
	lasers.Update()
	if l.State() != LaserCharging || lasers.HitsPlayer(0.5, 0, 0.01) {
		t.Fatal("charging laser collided")
	}
	lasers.Update()
	lasers.Update()
	if l.State() != LaserActive || !lasers.HitsPlayer(0.5, 0, 0.01) {
		t.Fatal("active laser did not collide")
	}
	lasers.Update()
	lasers.Update()
	lasers.Update()
	if lasers.HitsPlayer(0.5, 0, 0.01) {
		t.Fatal("expired laser still collided")
	}
}

func TestBentLaserTrail(t *testing.T) {
	lasers := NewLaserList()
	b := lasers.SpawnBent(0.1, 3, 0)
	b.Push(0, 0)
	b.Push(0.5, 0)
	lasers.Update()
	if !lasers.HitsPlayer(0.25, 0.02, 0.01) {
		t.Fatal("trail did not collide")
	}

	// Capacity 3: pushing past it drops the oldest point.
	b.Push(1, 0)
	b.Push(1.5, 0)
	xs, _ := b.Points()
	if len(xs) != 3 || xs[0] != 0.5 {
		t.Fatalf("trail points = %v", xs)
	}
	b.Off()
	lasers.Update()
	if lasers.HitsPlayer(1, 0.02, 0.01) {
		t.Fatal("ended trail still collided")
	}
}
