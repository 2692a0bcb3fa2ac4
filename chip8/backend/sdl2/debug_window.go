//go:build sdl2

package sdl2

import (
	"fmt"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	debugWindowScale = 8
	debugWindowTitle = "CHIP-8 Memory Map"
)

// DebugWindow shows the whole address space, one pixel per byte, with the
// program counter and index register highlighted.
type DebugWindow struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	visible  bool

	data        *debug.CompleteDebugData
	needsUpdate bool
}

func NewDebugWindow() *DebugWindow {
	return &DebugWindow{needsUpdate: true}
}

func (dw *DebugWindow) Init() error {
	window, err := sdl.CreateWindow(
		debugWindowTitle,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		debug.MemoryMapWidth*debugWindowScale,
		debug.MemoryMapHeight*debugWindowScale,
		sdl.WINDOW_HIDDEN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		return err
	}
	dw.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return err
	}
	dw.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		debug.MemoryMapWidth,
		debug.MemoryMapHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return err
	}
	dw.texture = texture
	return nil
}

func (dw *DebugWindow) SetVisible(visible bool) {
	dw.visible = visible
	if dw.window == nil {
		return
	}
	if visible {
		dw.window.Show()
		dw.needsUpdate = true
	} else {
		dw.window.Hide()
	}
}

func (dw *DebugWindow) IsVisible() bool     { return dw.visible }
func (dw *DebugWindow) IsInitialized() bool { return dw.window != nil }

// OwnsWindow reports whether id refers to the debug window.
func (dw *DebugWindow) OwnsWindow(id uint32) bool {
	if dw.window == nil {
		return false
	}
	wid, err := dw.window.GetID()
	return err == nil && wid == id
}

func (dw *DebugWindow) UpdateData(data *debug.CompleteDebugData) {
	dw.data = data
	dw.needsUpdate = true
}

func (dw *DebugWindow) Render() error {
	if !dw.visible || !dw.needsUpdate || dw.data == nil || dw.data.CPU == nil {
		return nil
	}

	pixels := debug.MemoryMap(dw.data.RAM, dw.data.CPU.PC, dw.data.CPU.I)
	if err := dw.texture.Update(nil, unsafe.Pointer(&pixels[0]), debug.MemoryMapWidth*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update debug texture: %w", err)
	}

	dw.renderer.SetDrawColor(32, 32, 32, 255)
	dw.renderer.Clear()
	dw.renderer.Copy(dw.texture, nil, nil)
	dw.renderer.Present()
	dw.needsUpdate = false
	return nil
}

func (dw *DebugWindow) Cleanup() {
	if dw.texture != nil {
		dw.texture.Destroy()
	}
	if dw.renderer != nil {
		dw.renderer.Destroy()
	}
	if dw.window != nil {
		dw.window.Destroy()
	}
}
