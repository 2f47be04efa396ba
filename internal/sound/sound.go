// Package sound plays short synthesized cues in reaction to game events.
// Without an audio device every call is a no-op.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/tomz197/meteorshtorm/internal/config"
	"github.com/tomz197/meteorshtorm/internal/loop"
	"github.com/tomz197/meteorshtorm/internal/object"
)

const sampleRate = beep.SampleRate(44100)

// Cue is one sound effect.
type Cue int

const (
	CueShoot Cue = iota
	CueMeteorHit
	CueExplosionSmall
	CueExplosionMedium
	CueExplosionLarge
	CueShipDeath
	CueClick

	cueCount
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

type cueParams struct {
	wave     Wave
	from, to float64 // Frequency sweep in Hz
	length   time.Duration
	volume   float64 // Linear gain in (0, 1]
}

var cues = [cueCount]cueParams{
	CueShoot:           {WaveSquare, 880, 440, 60 * time.Millisecond, 0.3},
	CueMeteorHit:       {WaveSquare, 220, 180, 50 * time.Millisecond, 0.4},
	CueExplosionSmall:  {WaveNoise, 0, 0, 150 * time.Millisecond, 0.5},
	CueExplosionMedium: {WaveNoise, 0, 0, 250 * time.Millisecond, 0.5},
	CueExplosionLarge:  {WaveNoise, 0, 0, 400 * time.Millisecond, 0.5},
	CueShipDeath:       {WaveSine, 330, 55, 900 * time.Millisecond, 0.7},
	CueClick:           {WaveSine, 1200, 1200, 30 * time.Millisecond, 0.5},
}

// CueFor maps a game event to the cue it triggers.
func CueFor(ev loop.Event) (Cue, bool) {
	switch ev.Type {
	case loop.EventBulletFired:
		return CueShoot, true
	case loop.EventMeteorHit:
		return CueMeteorHit, true
	case loop.EventMeteorDestroyed:
		switch ev.Size {
		case object.MeteorSmall:
			return CueExplosionSmall, true
		case object.MeteorMedium:
			return CueExplosionMedium, true
		default:
			return CueExplosionLarge, true
		}
	case loop.EventPlayerDied:
		return CueShipDeath, true
	}
	return 0, false
}

// Player mixes cues onto the speaker. A nil *Player is valid and silent.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
	noise  uint32
}

// New initializes the speaker. When audio is disabled or no device is
// available it returns nil, which plays nothing.
func New(cfg config.AudioConfig, log *zap.Logger) *Player {
	if !cfg.Enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		log.Warn("audio unavailable, continuing without sound", zap.Error(err))
		return nil
	}
	p := &Player{
		mixer:  &beep.Mixer{},
		volume: cfg.Volume,
		noise:  0x2545f491,
	}
	speaker.Play(p.mixer)
	return p
}

// Play queues a cue.
func (p *Player) Play(c Cue) {
	if p == nil || c < 0 || c >= cueCount {
		return
	}
	s := p.streamer(c)

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// HandleEvents plays the cue of every event that has one.
func (p *Player) HandleEvents(events []loop.Event) {
	if p == nil {
		return
	}
	for _, ev := range events {
		if c, ok := CueFor(ev); ok {
			p.Play(c)
		}
	}
}

// Close stops playback.
func (p *Player) Close() {
	if p == nil {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

func (p *Player) streamer(c Cue) beep.Streamer {
	p.mu.Lock()
	seed := p.noise
	p.noise = p.noise*1664525 + 1013904223
	p.mu.Unlock()

	params := cues[c]
	tone := newTone(params, sampleRate, seed)
	return &effects.Volume{
		Streamer: tone,
		Base:     2,
		Volume:   math.Log2(params.volume) + p.volume,
	}
}

// tone is a finite oscillator with a linear frequency sweep and a linear fade out.
type tone struct {
	params   cueParams
	rate     beep.SampleRate
	samples  int
	position int
	phase    float64
	seed     uint32
}

func newTone(params cueParams, rate beep.SampleRate, seed uint32) *tone {
	return &tone{
		params:  params,
		rate:    rate,
		samples: rate.N(params.length),
		seed:    seed | 1,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.samples {
			return i, i > 0
		}
		progress := float64(t.position) / float64(t.samples)

		var val float64
		switch t.params.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			val = 1
			if t.phase >= 0.5 {
				val = -1
			}
		case WaveNoise:
			t.seed ^= t.seed << 13
			t.seed ^= t.seed >> 17
			t.seed ^= t.seed << 5
			val = float64(t.seed)/math.MaxUint32*2 - 1
		}
		val *= 1 - progress

		samples[i][0] = val
		samples[i][1] = val

		freq := t.params.from + (t.params.to-t.params.from)*progress
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }
