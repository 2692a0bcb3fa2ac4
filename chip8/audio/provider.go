package audio

// Provider is the audio source a backend pulls samples from.
type Provider interface {
	// GetSamples retrieves count mono samples for playback
	GetSamples(count int) []int16

	// IsPlaying reports whether the tone is currently on.
	IsPlaying() bool
}

var _ Provider = (*Beeper)(nil)
