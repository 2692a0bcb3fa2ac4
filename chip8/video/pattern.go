package video

import "github.com/valerio/go-chip8/chip8/display"

// Test pattern kinds, cycled by front-ends that run without a program.
const (
	PatternCheckerboard = iota
	PatternBorder
	PatternStripes
	PatternDiagonal
)

// PatternName returns a display name for a test pattern kind.
func PatternName(kind int) string {
	switch kind % display.TestPatternCount {
	case PatternCheckerboard:
		return "checkerboard"
	case PatternBorder:
		return "border"
	case PatternStripes:
		return "stripes"
	default:
		return "diagonal"
	}
}

// FillTestPattern overwrites the frame buffer with one of the test patterns,
// shifted horizontally by offset pixels.
func (fb *FrameBuffer) FillTestPattern(kind, offset int) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			sx := x + offset
			var on bool
			switch kind % display.TestPatternCount {
			case PatternCheckerboard:
				on = ((sx/display.TestPatternTileSize)+(y/display.TestPatternTileSize))%2 == 0
			case PatternBorder:
				on = x == 0 || y == 0 || x == Width-1 || y == Height-1
			case PatternStripes:
				on = (sx/display.TestPatternStripeWidth)%2 == 0
			default:
				on = ((sx+y)/display.TestPatternTileSize)%2 == 0
			}
			fb[y*Width+x] = on
		}
	}
}
