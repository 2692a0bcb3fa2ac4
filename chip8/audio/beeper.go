package audio

import (
	"github.com/valerio/go-chip8/chip8/display"
)

// Beeper is a square wave generator gated by the sound timer. It produces
// silence whenever gate reports false.
type Beeper struct {
	gate      func() bool
	phase     float64
	phaseInc  float64
	amplitude int16
	muted     bool
}

// NewBeeper creates a beeper at the default pitch and sample rate.
func NewBeeper(gate func() bool) *Beeper {
	return NewBeeperWithTone(gate, display.BeepFrequency, display.AudioSampleRate, display.BeepAmplitude)
}

// NewBeeperWithTone creates a beeper producing frequency Hz at sampleRate.
func NewBeeperWithTone(gate func() bool, frequency, sampleRate int, amplitude int16) *Beeper {
	return &Beeper{
		gate:      gate,
		phaseInc:  float64(frequency) / float64(sampleRate),
		amplitude: amplitude,
	}
}

// IsPlaying reports whether the gate is open and the beeper is not muted.
func (b *Beeper) IsPlaying() bool {
	return !b.muted && b.gate != nil && b.gate()
}

// SetMuted silences the beeper regardless of the gate.
func (b *Beeper) SetMuted(muted bool) {
	b.muted = muted
}

// Muted reports whether the beeper is muted.
func (b *Beeper) Muted() bool {
	return b.muted
}

// GetSamples returns count samples of the square wave, or silence.
// The phase only advances while playing so tones always start the same way.
func (b *Beeper) GetSamples(count int) []int16 {
	samples := make([]int16, count)
	if !b.IsPlaying() {
		b.phase = 0
		return samples
	}

	for i := range samples {
		if b.phase < 0.5 {
			samples[i] = b.amplitude
		} else {
			samples[i] = -b.amplitude
		}
		b.phase += b.phaseInc
		if b.phase >= 1 {
			b.phase -= 1
		}
	}
	return samples
}
