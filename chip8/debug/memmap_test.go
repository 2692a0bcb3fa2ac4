package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMap(t *testing.T) {
	mem := make([]byte, 0x1000)
	mem[0x300] = 0xFF
	mem[0x050] = 0xF0

	pixels := MemoryMap(mem, 0x200, 0x400)
	require.Len(t, pixels, MemoryMapWidth*MemoryMapHeight)

	assert.Equal(t, uint32(0x181818FF), pixels[0x000], "zero byte")
	assert.Equal(t, uint32(0xFFFFFFFF), pixels[0x300], "full byte")
	assert.Equal(t, uint32(mapPCColor), pixels[0x200])
	assert.Equal(t, uint32(mapPCColor), pixels[0x201])
	assert.Equal(t, uint32(mapIndexColor), pixels[0x400])

	font := pixels[0x050]
	assert.Greater(t, font>>8&0xFF, font>>24&0xFF, "font area is tinted blue")
}

func TestMemoryMap_ShortMemory(t *testing.T) {
	pixels := MemoryMap(nil, 0xFFF, 0xFFF)
	assert.Len(t, pixels, MemoryMapWidth*MemoryMapHeight)
	assert.Equal(t, uint32(mapIndexColor), pixels[0xFFF])
}
