package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameBuffer_SetGetClear(t *testing.T) {
	fb := NewFrameBuffer()

	fb.SetPixel(3, 4, true)
	assert.True(t, fb.GetPixel(3, 4))
	assert.True(t, fb[4*Width+3])
	assert.Equal(t, 1, fb.CountLit())

	// out of range is ignored
	fb.SetPixel(Width, 0, true)
	fb.SetPixel(0, -1, true)
	assert.False(t, fb.GetPixel(Width, 0))
	assert.Equal(t, 1, fb.CountLit())

	fb.Clear()
	assert.Equal(t, 0, fb.CountLit())
}

func TestDrawSprite(t *testing.T) {
	tests := []struct {
		name      string
		x, y      uint8
		rows      []byte
		wrap      bool
		lit       [][2]int
		unlit     [][2]int
		wantCount int
	}{
		{
			name:      "single row at origin",
			x:         0,
			y:         0,
			rows:      []byte{0b10100001},
			lit:       [][2]int{{0, 0}, {2, 0}, {7, 0}},
			unlit:     [][2]int{{1, 0}, {3, 0}},
			wantCount: 3,
		},
		{
			name:      "origin wraps modulo screen size",
			x:         Width + 2,
			y:         Height + 1,
			rows:      []byte{0x80},
			lit:       [][2]int{{2, 1}},
			wantCount: 1,
		},
		{
			name:      "right edge clipped",
			x:         60,
			y:         0,
			rows:      []byte{0xFF},
			lit:       [][2]int{{60, 0}, {63, 0}},
			unlit:     [][2]int{{0, 0}, {3, 0}},
			wantCount: 4,
		},
		{
			name:      "right edge wrapped",
			x:         60,
			y:         0,
			rows:      []byte{0xFF},
			wrap:      true,
			lit:       [][2]int{{60, 0}, {63, 0}, {0, 0}, {3, 0}},
			wantCount: 8,
		},
		{
			name:      "bottom edge clipped",
			x:         0,
			y:         30,
			rows:      []byte{0x80, 0x80, 0x80, 0x80},
			lit:       [][2]int{{0, 30}, {0, 31}},
			unlit:     [][2]int{{0, 0}, {0, 1}},
			wantCount: 2,
		},
		{
			name:      "bottom edge wrapped",
			x:         0,
			y:         30,
			rows:      []byte{0x80, 0x80, 0x80, 0x80},
			wrap:      true,
			lit:       [][2]int{{0, 30}, {0, 31}, {0, 0}, {0, 1}},
			wantCount: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFrameBuffer()
			collision := fb.DrawSprite(tt.x, tt.y, tt.rows, tt.wrap)

			assert.False(t, collision)
			for _, p := range tt.lit {
				assert.True(t, fb.GetPixel(p[0], p[1]), "pixel (%d,%d) should be lit", p[0], p[1])
			}
			for _, p := range tt.unlit {
				assert.False(t, fb.GetPixel(p[0], p[1]), "pixel (%d,%d) should be unlit", p[0], p[1])
			}
			assert.Equal(t, tt.wantCount, fb.CountLit())
		})
	}
}

func TestDrawSprite_XORAndCollision(t *testing.T) {
	fb := NewFrameBuffer()
	sprite := []byte{0xF0, 0x90, 0xF0}

	assert.False(t, fb.DrawSprite(10, 10, sprite, false))
	lit := fb.CountLit()
	assert.Equal(t, 10, lit)

	// drawing the same sprite again erases it and reports a collision
	assert.True(t, fb.DrawSprite(10, 10, sprite, false))
	assert.Equal(t, 0, fb.CountLit())

	// overlapping only on unset pixels does not collide
	fb.SetPixel(11, 11, true)
	assert.False(t, fb.DrawSprite(10, 11, []byte{0x80}, false))
	assert.True(t, fb.GetPixel(10, 11))
	assert.True(t, fb.GetPixel(11, 11))
}

func TestToRGBA(t *testing.T) {
	fb := NewFrameBuffer()
	fb.SetPixel(1, 0, true)

	rgba := fb.ToRGBA()
	assert.Len(t, rgba, Width*Height)
	assert.NotEqual(t, rgba[0], rgba[1])
}

func TestFillTestPattern(t *testing.T) {
	for kind := 0; kind < 4; kind++ {
		t.Run(PatternName(kind), func(t *testing.T) {
			fb := NewFrameBuffer()
			fb.FillTestPattern(kind, 0)
			lit := fb.CountLit()
			assert.Greater(t, lit, 0)
			assert.Less(t, lit, Width*Height)
		})
	}

	fb := NewFrameBuffer()
	fb.FillTestPattern(PatternBorder, 0)
	assert.True(t, fb.GetPixel(0, 0))
	assert.True(t, fb.GetPixel(Width-1, Height-1))
	assert.False(t, fb.GetPixel(5, 5))
}
