package debug

import "github.com/valerio/go-chip8/chip8/addr"

const (
	// MemoryMapWidth is the number of bytes per row in a memory map image.
	MemoryMapWidth  = 64
	MemoryMapHeight = addr.MemorySize / MemoryMapWidth
)

// Memory map colours, packed as 0xRRGGBBAA.
const (
	mapPCColor    = 0xFF4040FF
	mapIndexColor = 0x40FF40FF
)

// MemoryMap renders the address space as a MemoryMapWidth x MemoryMapHeight
// image with one pixel per byte. Brightness follows the byte value. The
// font area is tinted blue, the instruction at pc is red and the byte at
// index is green.
func MemoryMap(mem []byte, pc, index uint16) []uint32 {
	pixels := make([]uint32, MemoryMapWidth*MemoryMapHeight)
	for a := range pixels {
		var v uint32
		if a < len(mem) {
			v = uint32(mem[a])
		}
		// keep zero bytes faintly visible against the background
		level := 0x18 + v*(0xFF-0x18)/0xFF
		blue := level
		if a >= int(addr.FontStart) && a < int(addr.FontStart)+16*addr.FontGlyphSize {
			blue = min(level+0x60, 0xFF)
		}
		pixels[a] = level<<24 | level<<16 | blue<<8 | 0xFF
	}

	if int(pc)+1 < len(pixels) {
		pixels[pc] = mapPCColor
		pixels[pc+1] = mapPCColor
	}
	if int(index) < len(pixels) {
		pixels[index] = mapIndexColor
	}
	return pixels
}
