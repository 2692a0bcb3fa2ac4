package video

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/display"
)

const (
	// Width is the number of pixel columns.
	Width = display.Width
	// Height is the number of pixel rows.
	Height = display.Height
	// SpriteWidth is the fixed width of every sprite row, one bit per pixel.
	SpriteWidth = 8
)

// FrameBuffer is the monochrome 64x32 display, row-major.
type FrameBuffer [Width * Height]bool

// NewFrameBuffer creates a blank frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	clear(fb[:])
}

// GetPixel reports whether the pixel at (x, y) is lit. Coordinates outside the
// screen read as unlit.
func (fb *FrameBuffer) GetPixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return fb[y*Width+x]
}

// SetPixel sets the pixel at (x, y). Coordinates outside the screen are ignored.
func (fb *FrameBuffer) SetPixel(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	fb[y*Width+x] = on
}

// CountLit returns the number of lit pixels.
func (fb *FrameBuffer) CountLit() int {
	n := 0
	for _, on := range fb {
		if on {
			n++
		}
	}
	return n
}

// DrawSprite XORs an 8-pixel-wide sprite, one byte per row, onto the screen
// with its top-left corner at (x, y). The origin always wraps around the
// screen. Pixels that then fall past the right or bottom edge are clipped,
// unless wrap is set, in which case they continue on the opposite edge.
// It returns true if any lit pixel was turned off.
func (fb *FrameBuffer) DrawSprite(x, y uint8, rows []byte, wrap bool) bool {
	originX := int(x) % Width
	originY := int(y) % Height
	collision := false

	for row, bits := range rows {
		py := originY + row
		if py >= Height {
			if !wrap {
				break
			}
			py %= Height
		}

		for col := 0; col < SpriteWidth; col++ {
			if !bit.IsSet(uint8(SpriteWidth-1-col), bits) {
				continue
			}

			px := originX + col
			if px >= Width {
				if !wrap {
					break
				}
				px %= Width
			}

			idx := py*Width + px
			if fb[idx] {
				collision = true
			}
			fb[idx] = !fb[idx]
		}
	}

	return collision
}

// ToRGBA converts the frame buffer to packed RGBA pixels using the display palette.
func (fb *FrameBuffer) ToRGBA() []uint32 {
	out := make([]uint32, len(fb))
	for i, on := range fb {
		if on {
			out[i] = display.OnColor
		} else {
			out[i] = display.OffColor
		}
	}
	return out
}
