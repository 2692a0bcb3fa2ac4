package display

// Screen geometry of the CHIP-8 display.
const (
	// Width is the number of pixel columns.
	Width = 64
	// Height is the number of pixel rows.
	Height = 32
)

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// OnColor is the packed RGBA value of a lit pixel
	OnColor uint32 = 0xE0F8D0FF
	// OffColor is the packed RGBA value of an unlit pixel
	OffColor uint32 = 0x081820FF
)

// DefaultPixelScale is the default scaling factor for CHIP-8 pixels in
// window backends, giving a 640x320 window.
const DefaultPixelScale = 10

// Test pattern constants
const (
	// TestPatternCount is the number of available test patterns
	TestPatternCount = 4
	// TestPatternTileSize is the size of tiles for checkerboard and diagonal patterns
	TestPatternTileSize = 4
	// TestPatternStripeWidth is the width of stripes in the stripe pattern
	TestPatternStripeWidth = 2
	// TestPatternAnimationFrames is the number of frames between test pattern animations
	TestPatternAnimationFrames = 30
)

// Audio constants
const (
	// AudioSampleRate is the output sample rate used by audio backends
	AudioSampleRate = 44100
	// BeepFrequency is the pitch of the CHIP-8 buzzer in Hz
	BeepFrequency = 440
	// BeepAmplitude is the peak amplitude of the square wave, as a signed 16 bit sample
	BeepAmplitude = 3000
)
