package pool

import (
	"math"
	"testing"
)

func testBounds() Bounds {
	return FieldBounds(0.5)
}

func TestSpawnReturnsNoneWhenFull(t *testing.T) {
	p := New(3, testBounds())
	for i := 0; i < 3; i++ {
		if idx := p.Spawn(0, 0, 0, 1, 0, SpawnOpts{}); idx == None {
			t.Fatalf("spawn %d failed with free slots", i)
		}
	}
	if idx := p.Spawn(0, 0, 0, 1, 0, SpawnOpts{}); idx != None {
		t.Fatalf("spawn into full pool returned %d, want None", idx)
	}
	if p.AliveCount() != 3 {
		t.Fatalf("alive = %d, want 3", p.AliveCount())
	}
}

func TestFullPoolSpawnLeavesOthersUntouched(t *testing.T) {
	p := New(2, testBounds())
	a := p.Spawn(0.1, 0.2, 0, 1, 7, SpawnOpts{})
	b := p.Spawn(0.3, 0.4, 0, 2, 8, SpawnOpts{})
	p.Spawn(9, 9, 9, 9, 9, SpawnOpts{})

	v := p.View()
	if v.X[a] != 0.1 || v.Y[a] != 0.2 || v.Visual[a] != 7 {
		t.Fatal("slot a corrupted by failed spawn")
	}
	if v.X[b] != 0.3 || v.Y[b] != 0.4 || v.Visual[b] != 8 {
		t.Fatal("slot b corrupted by failed spawn")
	}
}

func TestPartitionInvariant(t *testing.T) {
	p := New(8, testBounds())
	idx := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		idx = append(idx, p.Spawn(0, 0, 0, 0, 0, SpawnOpts{}))
	}
	if p.AliveCount()+p.FreeCount() != 8 {
		t.Fatalf("alive %d + free %d != capacity", p.AliveCount(), p.FreeCount())
	}

	p.Kill(idx[3], nil)
	p.Kill(idx[6], nil)
	p.DispatchDeaths()
	if p.AliveCount() != 6 || p.FreeCount() != 2 {
		t.Fatalf("alive %d free %d after two kills", p.AliveCount(), p.FreeCount())
	}
	if p.IsAlive(idx[3]) || p.IsAlive(idx[6]) {
		t.Fatal("killed slots still alive")
	}

	// Freed slots are reused before anything else.
	r1 := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	r2 := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	if (r1 != idx[6] && r1 != idx[3]) || (r2 != idx[6] && r2 != idx[3]) || r1 == r2 {
		t.Fatalf("respawns %d, %d did not reuse freed slots %d, %d", r1, r2, idx[3], idx[6])
	}
}

func TestIntegrationZeroAcceleration(t *testing.T) {
	p := New(4, testBounds())
	i := p.Spawn(0, 0, 0, 0.4, 0, SpawnOpts{})
	for step := 0; step < 60; step++ {
		p.Update(1.0 / 60)
	}
	x, y := p.Position(i)
	if math.Abs(x-0.4) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Fatalf("position = (%v, %v), want (0.4, 0)", x, y)
	}
}

func TestIntegrationConstantAcceleration(t *testing.T) {
	p := New(4, testBounds())
	i := p.Spawn(0, 0, 0, 0.1, 0, SpawnOpts{AccelX: 0.2})
	dt := 1.0 / 60
	for step := 0; step < 60; step++ {
		p.Update(dt)
	}
	// Forward-Euler: velocity integrates exactly even though position
	// trails the closed form by a step.
	wantVX := 0.1 + 0.2*1.0
	gotVX := p.Speed(i) * math.Cos(p.View().Angle[i])
	if math.Abs(gotVX-wantVX) > 1e-9 {
		t.Fatalf("vx = %v, want %v", gotVX, wantVX)
	}
}

func TestAngularAccelerationTurns(t *testing.T) {
	p := New(4, testBounds())
	i := p.Spawn(0, 0, 0, 0.5, 0, SpawnOpts{AngularAccel: math.Pi})
	dt := 1.0 / 60
	for step := 0; step < 30; step++ {
		p.Update(dt)
	}
	// Half a second at pi rad/s of turn.
	if got := p.View().Angle[i]; math.Abs(got-math.Pi/2) > 1e-6 {
		t.Fatalf("angle = %v, want pi/2", got)
	}
	if got := p.Speed(i); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("turning changed speed: %v", got)
	}
}

func TestLifetimeExpiry(t *testing.T) {
	p := New(4, testBounds())
	i := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{MaxLifetime: 0.5})
	dt := 0.1
	for step := 1; step <= 4; step++ {
		p.Step(dt)
		if !p.IsAlive(i) {
			t.Fatalf("dead after %v seconds, limit 0.5", float64(step)*dt)
		}
	}
	p.Step(dt) // elapsed reaches 0.5
	if p.IsAlive(i) {
		t.Fatal("alive at elapsed == max lifetime")
	}
}

func TestUnboundedLifetime(t *testing.T) {
	p := New(4, testBounds())
	i := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	for step := 0; step < 1000; step++ {
		p.Step(1.0 / 60)
	}
	if !p.IsAlive(i) {
		t.Fatal("zero max lifetime expired")
	}
}

func TestOutOfBoundsDespawn(t *testing.T) {
	p := New(4, testBounds())
	i := p.Spawn(0, 0, 0, 1, 0, SpawnOpts{})
	for step := 0; step < 180 && p.IsAlive(i); step++ {
		p.Step(1.0 / 60)
	}
	if p.IsAlive(i) {
		t.Fatal("bullet alive past the despawn margin")
	}
}

func TestSpawnPatternAnglesAndTruncation(t *testing.T) {
	p := New(8, testBounds())
	p.SpawnPattern(0, 0, 0, 0.5, 4, 2*math.Pi, 3, SpawnOpts{})
	if p.AliveCount() != 4 {
		t.Fatalf("alive = %d, want 4", p.AliveCount())
	}
	v := p.View()
	for i := 0; i < 4; i++ {
		want := float64(i) * math.Pi / 2
		if math.Abs(v.Angle[i]-want) > 1e-9 {
			t.Fatalf("angle[%d] = %v, want %v", i, v.Angle[i], want)
		}
		if v.Visual[i] != 3 {
			t.Fatalf("visual[%d] = %d, want 3", i, v.Visual[i])
		}
	}

	// Only two slots left: the pattern truncates silently.
	p.SpawnPattern(0, 0, 0, 0.5, 2, 2*math.Pi, 3, SpawnOpts{})
	p.SpawnPattern(0, 0, 0, 0.5, 5, 2*math.Pi, 3, SpawnOpts{})
	if p.AliveCount() != 8 {
		t.Fatalf("alive = %d, want 8", p.AliveCount())
	}

	// Degenerate counts are no-ops.
	p2 := New(4, testBounds())
	p2.SpawnPattern(0, 0, 0, 0.5, 0, math.Pi, 0, SpawnOpts{})
	p2.SpawnPattern(0, 0, 0, 0.5, -2, math.Pi, 0, SpawnOpts{})
	if p2.AliveCount() != 0 {
		t.Fatalf("alive = %d after degenerate patterns, want 0", p2.AliveCount())
	}
}

func TestKillHandlerRunsOnDispatch(t *testing.T) {
	p := New(4, testBounds())
	var events []DeathEvent
	i := p.Spawn(0.25, -0.25, 0, 0, 0, SpawnOpts{
		OnDeath: func(p *Pool, e DeathEvent) { events = append(events, e) },
	})
	p.Kill(i, nil)
	if len(events) != 0 {
		t.Fatal("handler ran before dispatch")
	}
	p.DispatchDeaths()
	if len(events) != 1 || events[0].Index != i || events[0].X != 0.25 || events[0].Y != -0.25 {
		t.Fatalf("events = %+v", events)
	}

	// Explicit handler argument overrides the registered one.
	j := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{
		OnDeath: func(p *Pool, e DeathEvent) { t.Fatal("registered handler ran despite override") },
	})
	overridden := false
	p.Kill(j, func(p *Pool, e DeathEvent) { overridden = true })
	p.DispatchDeaths()
	if !overridden {
		t.Fatal("override handler did not run")
	}
}

func TestHandlerSpawningDuringDispatch(t *testing.T) {
	p := New(8, testBounds())
	i := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{
		OnDeath: func(p *Pool, e DeathEvent) {
			// Burst on death, a common pattern from content scripts.
			p.SpawnPattern(e.X, e.Y, 0, 0.3, 4, 2*math.Pi, 0, SpawnOpts{})
		},
	})
	p.Kill(i, nil)
	p.DispatchDeaths()
	if p.AliveCount() != 4 {
		t.Fatalf("alive = %d, want 4", p.AliveCount())
	}
}

func TestDeferredSpawnQueue(t *testing.T) {
	p := New(4, testBounds())
	p.QueueSpawn(SpawnRequest{Delay: 3, X: 0.1, Y: 0.1, Speed: 0.5})
	p.QueueSpawn(SpawnRequest{X: 0.2, Y: 0.2}) // no delay: immediate

	if p.AliveCount() != 1 {
		t.Fatalf("alive = %d, want 1 (immediate request)", p.AliveCount())
	}
	for tick := 0; tick < 2; tick++ {
		p.AdvancePending()
		if p.PendingCount() != 1 {
			t.Fatalf("pending = %d at tick %d, want 1", p.PendingCount(), tick)
		}
	}
	p.AdvancePending()
	if p.PendingCount() != 0 || p.AliveCount() != 2 {
		t.Fatalf("pending %d alive %d, want 0 and 2", p.PendingCount(), p.AliveCount())
	}
}

func TestDeferredSpawnDoesNotReserve(t *testing.T) {
	p := New(2, testBounds())
	p.QueueSpawn(SpawnRequest{Delay: 1, X: 0.1})
	// Unrelated spawns take the slots before the delay lapses.
	p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	p.AdvancePending()
	if p.PendingCount() != 0 {
		t.Fatal("due request stayed pending")
	}
	if p.AliveCount() != 2 {
		t.Fatal("due request spawned into a full pool")
	}
}

func TestHandleDetectsReuse(t *testing.T) {
	p := New(2, testBounds())
	i := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	h := p.HandleOf(i)
	if !p.Live(h) {
		t.Fatal("fresh handle not live")
	}
	p.Kill(i, nil)
	p.DispatchDeaths()
	if p.Live(h) {
		t.Fatal("handle live after kill")
	}
	j := p.Spawn(0, 0, 0, 0, 0, SpawnOpts{})
	if j != i {
		t.Fatalf("respawn slot = %d, want %d", j, i)
	}
	if p.Live(h) {
		t.Fatal("stale handle matched the recycled slot")
	}
	if !p.Live(p.HandleOf(j)) {
		t.Fatal("new handle not live")
	}
}

func TestClearDropsEverything(t *testing.T) {
	p := New(8, testBounds())
	for i := 0; i < 5; i++ {
		p.Spawn(0, 0, 0, 0, 0, SpawnOpts{OnDeath: func(p *Pool, e DeathEvent) {
			t.Fatal("death handler ran on Clear")
		}})
	}
	p.QueueSpawn(SpawnRequest{Delay: 5})
	p.Clear()
	p.DispatchDeaths()
	if p.AliveCount() != 0 || p.PendingCount() != 0 {
		t.Fatalf("alive %d pending %d after Clear", p.AliveCount(), p.PendingCount())
	}
}

func TestCompactCopiesOnlyAlive(t *testing.T) {
	p := New(4, testBounds())
	p.Spawn(0.1, 0.1, 1, 0, 2, SpawnOpts{})
	i := p.Spawn(0.2, 0.2, 2, 0, 3, SpawnOpts{})
	p.Kill(i, nil)
	p.DispatchDeaths()

	items := p.Compact(nil)
	if len(items) != 1 {
		t.Fatalf("compacted = %d, want 1", len(items))
	}
	if items[0].X != 0.1 || items[0].Visual != 2 {
		t.Fatalf("item = %+v", items[0])
	}
}

func TestEndToEndScenarioReuse(t *testing.T) {
	// Pool of 4, all moving right at speed 1 with a vertical pull that the
	// respawned bullet must not inherit.
	p := New(4, testBounds())
	for i := 0; i < 4; i++ {
		if idx := p.Spawn(0, 0, 0, 1, 0, SpawnOpts{AccelY: 0.5, MaxLifetime: 30}); idx != i {
			t.Fatalf("spawn %d landed in slot %d", i, idx)
		}
	}
	p.Update(1)
	v := p.View()
	for i := 0; i < 4; i++ {
		if math.Abs(v.X[i]-1) > 1e-9 {
			t.Fatalf("x[%d] = %v, want 1", i, v.X[i])
		}
	}

	p.Kill(2, nil)
	p.DispatchDeaths()
	j := p.Spawn(-0.5, 0, 0, 0.25, 9, SpawnOpts{})
	if j != 2 {
		t.Fatalf("respawn slot = %d, want 2", j)
	}
	v = p.View()
	if !v.Alive[2] || v.X[2] != -0.5 || v.Y[2] != 0 || v.Visual[2] != 9 {
		t.Fatal("slot 2 not fully reinitialized")
	}
	// No leakage from the prior occupant: the new bullet moves at its own
	// speed, without the old velocity, acceleration or lifetime.
	p.Update(1)
	v = p.View()
	if math.Abs(v.X[2]-(-0.25)) > 1e-9 {
		t.Fatalf("x[2] = %v after 1s at speed 0.25, want -0.25 (stale velocity leaked)", v.X[2])
	}
	if math.Abs(v.Y[2]) > 1e-9 {
		t.Fatalf("y[2] = %v, want 0 (stale acceleration leaked)", v.Y[2])
	}
	if !v.Alive[2] {
		t.Fatal("stale max lifetime leaked into the reused slot")
	}
}
