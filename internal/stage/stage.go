package stage

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/barrage/internal/script"
)

// WaveFn is an unowned authored task spawning enemies and loose patterns.
type WaveFn func(t *script.Task, ctx *Context, enemies *EnemyList)

// Library maps stable content keys to behavior factories. Content is
// registered once at load time; phases, enemies and waves are looked up by
// key when their owner starts.
type Library struct {
	phases  map[string]PhaseScript
	enemies map[string]EnemyFn
	waves   map[string]WaveFn
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		phases:  make(map[string]PhaseScript),
		enemies: make(map[string]EnemyFn),
		waves:   make(map[string]WaveFn),
	}
}

// RegisterPhase binds a phase behavior to key, replacing any previous
// binding.
func (l *Library) RegisterPhase(key string, fn PhaseScript) { l.phases[key] = fn }

// RegisterEnemy binds an enemy behavior to key.
func (l *Library) RegisterEnemy(key string, fn EnemyFn) { l.enemies[key] = fn }

// RegisterWave binds a wave behavior to key.
func (l *Library) RegisterWave(key string, fn WaveFn) { l.waves[key] = fn }

// Phase looks up a phase behavior.
func (l *Library) Phase(key string) (PhaseScript, bool) {
	fn, ok := l.phases[key]
	return fn, ok
}

// Enemy looks up an enemy behavior.
func (l *Library) Enemy(key string) (EnemyFn, bool) {
	fn, ok := l.enemies[key]
	return fn, ok
}

// Wave looks up a wave behavior.
func (l *Library) Wave(key string) (WaveFn, bool) {
	fn, ok := l.waves[key]
	return fn, ok
}

// Section is one step of a stage's flow, executed in order by the stage
// task. Zero-valued fields are skipped.
type Section struct {
	Wave      string  // wave key to launch
	WaitClear bool    // hold until no enemies remain
	Wait      int     // frames to idle
	Boss      []Phase // boss fight at (BossX, BossY)
	BossX     float64
	BossY     float64
}

// Stage drives one level: a single task walks the section list, launching
// waves and boss fights and idling between them.
type Stage struct {
	env     *Env
	sched   *script.Scheduler
	lib     *Library
	logger  *log.Logger
	enemies *EnemyList

	boss *Boss
	task *script.Task

	// OnBonus is handed to every boss the stage creates.
	OnBonus func(amount int64)
}

// NewStage wires a stage over the given services.
func NewStage(env *Env, sched *script.Scheduler, lib *Library, logger *log.Logger) *Stage {
	if logger == nil {
		logger = log.Default()
	}
	return &Stage{
		env:     env,
		sched:   sched,
		lib:     lib,
		logger:  logger,
		enemies: NewEnemyList(env, sched),
	}
}

// Enemies returns the stage's enemy list for collision and rendering.
func (s *Stage) Enemies() *EnemyList { return s.enemies }

// Boss returns the boss currently being fought, or nil.
func (s *Stage) Boss() *Boss { return s.boss }

// Done reports whether the stage task has finished.
func (s *Stage) Done() bool { return s.task != nil && s.task.Done() }

// Run starts the stage task walking the section list. Call once.
func (s *Stage) Run(name string, sections []Section) {
	s.task = s.sched.Spawn("stage:"+name, func(t *script.Task) {
		for i := range sections {
			s.runSection(t, &sections[i])
		}
	})
}

func (s *Stage) runSection(t *script.Task, sec *Section) {
	if sec.Wave != "" {
		fn, ok := s.lib.Wave(sec.Wave)
		if !ok {
			s.logger.Error("unknown wave key", "key", sec.Wave)
		} else {
			ctx := s.env.Bind(nil)
			wave := s.sched.Spawn("wave:"+sec.Wave, func(t *script.Task) {
				fn(t, ctx, s.enemies)
			})
			t.WaitUntil(wave.Done)
		}
	}
	if sec.WaitClear {
		t.WaitUntil(func() bool {
			s.enemies.Sweep()
			return s.enemies.AliveCount() == 0
		})
	}
	if sec.Wait > 0 {
		t.Wait(sec.Wait)
	}
	if len(sec.Boss) > 0 {
		boss := NewBoss(s.env, s.sched, s.lib, s.logger, sec.BossX, sec.BossY, sec.Boss)
		boss.OnBonus = s.OnBonus
		s.boss = boss
		boss.Start()
		t.WaitUntil(func() bool { return boss.Defeated() })
		s.boss = nil
	}
}

// Cancel force-ends the stage and everything it spawned.
func (s *Stage) Cancel() {
	if s.boss != nil {
		s.boss.Cancel()
		s.boss = nil
	}
	s.enemies.CancelAll()
	if s.task != nil {
		s.task.Cancel()
	}
}
