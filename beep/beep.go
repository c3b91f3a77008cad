package beep

import (
	"math"
	"sync/atomic"
)

// Sound is one of the session cues.
type Sound int

const (
	Start Sound = iota // streaming started
	Stop               // streaming stopped
	Error              // session failed
	Warn               // microphone silent
)

func (s Sound) String() string {
	switch s {
	case Start:
		return "start"
	case Stop:
		return "stop"
	case Error:
		return "error"
	case Warn:
		return "warn"
	}
	return "unknown"
}

const sampleRate = 44100

type tone struct {
	freq     float64
	duration float64 // seconds per beep
	volume   float64
	decay    float64
	repeat   int     // beeps
	gap      float64 // seconds between beeps
}

var tones = map[Sound]tone{
	Start: {freq: 1200, duration: 0.2, volume: 0.5, decay: 60, repeat: 1},
	Stop:  {freq: 900, duration: 0.2, volume: 0.5, decay: 40, repeat: 1},
	Error: {freq: 350, duration: 0.08, volume: 0.6, decay: 30, repeat: 2, gap: 0.05},
	Warn:  {freq: 600, duration: 0.06, volume: 0.4, decay: 30, repeat: 3, gap: 0.04},
}

var disabled atomic.Bool

func Disable() { disabled.Store(true) }

func Enabled() bool { return !disabled.Load() }

// Play starts s without waiting for it to finish. Failures are silent.
func Play(s Sound) {
	if disabled.Load() {
		return
	}
	if _, ok := tones[s]; !ok {
		return
	}
	play(s)
}

// synth renders s as mono samples at sampleRate.
func synth(s Sound) []int16 {
	t := tones[s]
	n := int(float64(sampleRate) * t.duration)
	gap := int(float64(sampleRate) * t.gap)

	out := make([]int16, 0, t.repeat*n+(t.repeat-1)*gap)
	for r := 0; r < t.repeat; r++ {
		if r > 0 {
			out = append(out, make([]int16, gap)...)
		}
		for i := 0; i < n; i++ {
			sec := float64(i) / float64(sampleRate)
			envelope := math.Exp(-sec * t.decay)
			out = append(out, int16(math.Sin(2*math.Pi*t.freq*sec)*32767*t.volume*envelope))
		}
	}
	return out
}
