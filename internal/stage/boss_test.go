package stage

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/barrage/internal/script"
)

const dt = 1.0 / 60

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func idlePhase(t *script.Task, b *Boss, ctx *Context) {
	for {
		t.Yield()
	}
}

func newTestBoss(env *Env, sched *script.Scheduler, phases []Phase) *Boss {
	return NewBoss(env, sched, NewLibrary(), quiet(), 0, 0.5, phases)
}

func TestDamageEndsPhaseAndStartsNext(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	b := newTestBoss(env, sched, []Phase{
		{Name: "one", Script: idlePhase, HP: 10, Damageable: true},
		{Name: "two", Script: idlePhase, HP: 20, Damageable: true},
	})
	b.Start()
	if !b.IsActive() || b.PhaseName() != "one" {
		t.Fatal("boss did not start phase one")
	}

	sched.Tick()
	b.Damage(10)
	b.Update(dt)
	if b.PhaseName() != "two" {
		t.Fatalf("phase = %q, want two", b.PhaseName())
	}
	if b.HPFrac() != 1 {
		t.Fatalf("phase two HP fraction = %v, want 1", b.HPFrac())
	}

	sched.Tick()
	b.Damage(25)
	b.Update(dt)
	if !b.Defeated() || b.IsActive() {
		t.Fatal("boss not defeated after last phase")
	}
	sched.Tick()
	if sched.Len() != 0 {
		t.Fatalf("live tasks after defeat = %d, want 0", sched.Len())
	}
}

func TestLethalDamageBeatsTimeout(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	captured := []int64{}
	b := newTestBoss(env, sched, []Phase{
		{Name: "spell", Script: idlePhase, HP: 5, TimeLimit: dt, Bonus: 1000, Damageable: true, Spellcard: true},
	})
	b.OnBonus = func(amount int64) { captured = append(captured, amount) }
	b.Start()

	sched.Tick()
	b.Damage(5)
	b.Update(dt) // both lethal damage and timeout land this tick
	if !b.Defeated() {
		t.Fatal("boss not defeated")
	}
	if len(captured) != 1 {
		t.Fatal("capture bonus not awarded; timeout won over lethal damage")
	}
}

func TestTimeoutEndsPhaseWithoutBonus(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	bonuses := 0
	b := newTestBoss(env, sched, []Phase{
		{Name: "spell", Script: idlePhase, HP: 100, TimeLimit: 3 * dt, Bonus: 1000, Damageable: true},
	})
	b.OnBonus = func(int64) { bonuses++ }
	b.Start()

	for i := 0; i < 3; i++ {
		sched.Tick()
		b.Update(dt)
	}
	if !b.Defeated() {
		t.Fatal("phase did not time out")
	}
	if bonuses != 0 {
		t.Fatal("bonus awarded on timeout")
	}
}

func TestSurvivalPhaseIgnoresDamage(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	b := newTestBoss(env, sched, []Phase{
		{Name: "survival", Script: idlePhase, HP: 1, TimeLimit: 2 * dt, Damageable: false},
	})
	b.Start()

	sched.Tick()
	b.Damage(100)
	b.Update(dt)
	if !b.IsActive() {
		t.Fatal("survival phase ended by damage")
	}
	sched.Tick()
	b.Update(dt)
	if !b.Defeated() {
		t.Fatal("survival phase did not end on its timeout")
	}
}

func TestBonusDecaysLinearlyToHalf(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	var got int64
	limit := 100 * dt
	b := newTestBoss(env, sched, []Phase{
		{Name: "spell", Script: idlePhase, HP: 1, TimeLimit: limit, Bonus: 1000, Damageable: true},
	})
	b.OnBonus = func(amount int64) { got = amount }
	b.Start()

	// Half the time limit elapses before the kill.
	for i := 0; i < 50; i++ {
		sched.Tick()
		b.Update(dt)
	}
	b.Damage(1)
	b.Update(dt)
	if !b.Defeated() {
		t.Fatal("boss not defeated")
	}
	// 51 of 100 ticks elapsed: 1000 * (1 - 0.5*0.51) = 745.
	if got != 745 {
		t.Fatalf("bonus = %d, want 745", got)
	}
}

func TestMissVoidsBonus(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	bonuses := 0
	b := newTestBoss(env, sched, []Phase{
		{Name: "spell", Script: idlePhase, HP: 1, TimeLimit: 100 * dt, Bonus: 1000, Damageable: true},
	})
	b.OnBonus = func(int64) { bonuses++ }
	b.Start()

	sched.Tick()
	b.NotifyMiss()
	b.Damage(1)
	b.Update(dt)
	if !b.Defeated() {
		t.Fatal("boss not defeated")
	}
	if bonuses != 0 {
		t.Fatal("bonus awarded despite a miss")
	}
}

func TestSpellcardCaptureConvertsBullets(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	b := newTestBoss(env, sched, []Phase{
		{
			Name: "spell",
			Script: func(t *script.Task, b *Boss, ctx *Context) {
				ctx.FireCircle("ball_s", "red", 0, 0.2, 6)
				for {
					t.Yield()
				}
			},
			HP: 1, Damageable: true, Spellcard: true,
		},
	})
	b.Start()

	sched.Tick()
	if env.Pool.AliveCount() != 6 {
		t.Fatalf("bullets = %d, want 6", env.Pool.AliveCount())
	}
	b.Damage(1)
	b.Update(dt)
	if env.Pool.AliveCount() != 0 {
		t.Fatalf("bullets after capture = %d, want 0", env.Pool.AliveCount())
	}
	if env.Items.AliveCount() != 6 {
		t.Fatalf("items after capture = %d, want 6", env.Items.AliveCount())
	}
}

func TestPhaseDropsPlacedOnEnd(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	b := newTestBoss(env, sched, []Phase{
		{Name: "one", Script: idlePhase, HP: 1, Damageable: true,
			Drops: []Drop{{Kind: ItemPower, Amount: 3}, {Kind: ItemPoint, Amount: 2}}},
	})
	b.Start()

	sched.Tick()
	b.Damage(1)
	b.Update(dt)
	if !b.Defeated() {
		t.Fatal("boss not defeated")
	}
	if n := env.Items.AliveCount(); n != 2 {
		t.Fatalf("drops = %d, want 2", n)
	}
}

func TestPhaseKeyResolvesThroughLibrary(t *testing.T) {
	env := testEnv(32)
	sched := script.NewScheduler(quiet())
	lib := NewLibrary()
	ran := false
	lib.RegisterPhase("demo.spell", func(t *script.Task, b *Boss, ctx *Context) {
		ran = true
		for {
			t.Yield()
		}
	})
	b := NewBoss(env, sched, lib, quiet(), 0, 0.5, []Phase{
		{Name: "keyed", Key: "demo.spell", HP: 1, Damageable: true},
	})
	b.Start()
	sched.Tick()
	if !ran {
		t.Fatal("library phase did not run")
	}
	b.Cancel()
	if b.IsActive() {
		t.Fatal("cancel left boss active")
	}
}
