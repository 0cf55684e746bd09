// Package audio plays the fire-and-forget sound effects requested by
// scripted content. Effects are short synthesized tones so no asset files
// ship with the binary.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player receives play-named-sound requests. Playback state is never
// tracked; an unknown name is ignored.
type Player interface {
	Play(name string)
}

// Null discards every request. Used headless and in tests.
type Null struct{}

// Play implements Player.
func (Null) Play(string) {}

const sampleRate = beep.SampleRate(44100)

// Speaker synthesizes effects and plays them through the system mixer.
type Speaker struct {
	sounds map[string]func() beep.Streamer
	logger *log.Logger
}

// NewSpeaker initializes the system speaker and registers the default
// effect set.
func NewSpeaker(logger *log.Logger) (*Speaker, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := speaker.Init(sampleRate, sampleRate.N(20*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &Speaker{
		sounds: make(map[string]func() beep.Streamer),
		logger: logger,
	}
	s.register()
	return s, nil
}

// register installs the built-in effect set.
func (s *Speaker) register() {
	set := func(name string, gen func() beep.Streamer) { s.sounds[name] = gen }
	set("shot", func() beep.Streamer { return tone(880, 30*time.Millisecond, 0.10) })
	set("graze", func() beep.Streamer { return tone(1760, 25*time.Millisecond, 0.15) })
	set("enemy_hit", func() beep.Streamer { return tone(220, 30*time.Millisecond, 0.12) })
	set("enemy_die", func() beep.Streamer { return noise(120*time.Millisecond, 0.20) })
	set("player_die", func() beep.Streamer {
		return beep.Seq(noise(80*time.Millisecond, 0.30), sweep(440, 110, 350*time.Millisecond, 0.25))
	})
	set("bomb", func() beep.Streamer { return sweep(110, 880, 400*time.Millisecond, 0.25) })
	set("item", func() beep.Streamer { return tone(1320, 40*time.Millisecond, 0.12) })
	set("extend", func() beep.Streamer {
		return beep.Seq(tone(880, 80*time.Millisecond, 0.2), tone(1320, 160*time.Millisecond, 0.2))
	})
	set("spellcard", func() beep.Streamer { return sweep(220, 1760, 300*time.Millisecond, 0.20) })
	set("laser", func() beep.Streamer { return sweep(1760, 440, 200*time.Millisecond, 0.18) })
	set("boss_die", func() beep.Streamer {
		return beep.Seq(noise(200*time.Millisecond, 0.30), sweep(880, 110, 500*time.Millisecond, 0.25))
	})
}

// Play implements Player. Unknown names are dropped after a debug log.
func (s *Speaker) Play(name string) {
	gen, ok := s.sounds[name]
	if !ok {
		s.logger.Debug("unknown sound", "name", name)
		return
	}
	speaker.Play(gen())
}

// tone is a sine burst with a linear decay envelope.
func tone(freq float64, dur time.Duration, vol float64) beep.Streamer {
	total := sampleRate.N(dur)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1 - float64(pos)/float64(total)
			v := math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate)) * vol * env
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// sweep glides a sine between two frequencies over its duration.
func sweep(from, to float64, dur time.Duration, vol float64) beep.Streamer {
	total := sampleRate.N(dur)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / float64(total)
			freq := from + (to-from)*t
			phase += 2 * math.Pi * freq / float64(sampleRate)
			v := math.Sin(phase) * vol * (1 - t)
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}

// noise is a decaying white-noise burst.
func noise(dur time.Duration, vol float64) beep.Streamer {
	total := sampleRate.N(dur)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1 - float64(pos)/float64(total)
			v := (rand.Float64()*2 - 1) * vol * env
			samples[i][0], samples[i][1] = v, v
			pos++
			n++
		}
		return n, true
	})
}
