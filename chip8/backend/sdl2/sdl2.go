//go:build sdl2

package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	// audioQueueFrames is how many frames worth of samples are kept queued.
	audioQueueFrames = 3
	audioBufferSize  = 512
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig
	handler  *input.Handler
	events   []backend.InputEvent

	audioDevice sdl.AudioDeviceID

	testPatternFrame *video.FrameBuffer
	testPatternType  int
	testFrameCount   int

	currentFrame *video.FrameBuffer

	debugWindow *DebugWindow
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		debugWindow: NewDebugWindow(),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.handler = input.NewHandler()

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.Width*scale),
		int32(video.Height*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.Width,
		video.Height,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture
	s.running = true

	if config.Audio != nil {
		if err := s.openAudio(); err != nil {
			slog.Warn("Audio unavailable, continuing without sound", "error", err)
		}
	}

	if config.ShowDebug && config.DebugProvider != nil {
		s.ToggleDebugWindow()
	}

	if config.TestPattern {
		s.testPatternFrame = video.NewFrameBuffer()
		s.testPatternFrame.FillTestPattern(s.testPatternType, 0)
		slog.Info("SDL2 backend initialized in test pattern mode")
	} else {
		slog.Info("SDL2 backend initialized", "scale", scale)
	}

	return nil
}

func (s *Backend) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     display.AudioSampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  audioBufferSize,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		return err
	}
	s.audioDevice = dev
	sdl.PauseAudioDevice(dev, false)
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		s.handleEvent(e)
	}

	events := s.events
	s.events = nil

	if !s.running {
		return events, nil
	}

	renderFrame := frame
	if s.config.TestPattern {
		s.testFrameCount++
		if s.testFrameCount%display.TestPatternAnimationFrames == 0 {
			s.testPatternFrame.FillTestPattern(s.testPatternType, s.testFrameCount/display.TestPatternAnimationFrames)
		}
		renderFrame = s.testPatternFrame
	}

	s.currentFrame = renderFrame
	if err := s.renderFrame(renderFrame); err != nil {
		return events, err
	}
	s.queueAudio()

	if s.debugWindow.IsVisible() && s.config.DebugProvider != nil {
		s.debugWindow.UpdateData(s.config.DebugProvider.ExtractDebugData())
		if err := s.debugWindow.Render(); err != nil {
			slog.Warn("Debug window render failed", "error", err)
		}
	}

	return events, nil
}

// queueAudio tops the device queue up to a few frames of samples. Silence
// is queued too so the tone starts and stops on frame boundaries.
func (s *Backend) queueAudio() {
	if s.audioDevice == 0 || s.config.Audio == nil {
		return
	}

	const bytesPerSample = 2
	perFrame := display.AudioSampleRate / 60
	target := uint32(perFrame * audioQueueFrames * bytesPerSample)
	queued := sdl.GetQueuedAudioSize(s.audioDevice)
	if queued >= target {
		return
	}

	samples := s.config.Audio.GetSamples(int(target-queued) / bytesPerSample)
	if len(samples) == 0 {
		return
	}
	buf := make([]byte, len(samples)*bytesPerSample)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(buf[i*bytesPerSample:], uint16(sample))
	}
	if err := sdl.QueueAudio(s.audioDevice, buf); err != nil {
		slog.Warn("Failed to queue audio", "error", err)
	}
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.debugWindow != nil {
		s.debugWindow.Cleanup()
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(e sdl.Event) {
	switch ev := e.(type) {
	case *sdl.QuitEvent:
		s.running = false
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}
		s.emit(action.EmulatorQuit, event.Press)

	case *sdl.WindowEvent:
		// closing the debug window only hides it
		if ev.Event == sdl.WINDOWEVENT_CLOSE && s.debugWindow.OwnsWindow(ev.WindowID) {
			s.debugWindow.SetVisible(false)
		}

	case *sdl.KeyboardEvent:
		if ev.Type == sdl.KEYDOWN {
			s.handleKeyDown(ev.Keysym.Sym, ev.Repeat)
		} else if ev.Type == sdl.KEYUP {
			s.handleKeyUp(ev.Keysym.Sym)
		}
	}
}

// sdlKeyNameMap converts SDL keys to key names used in default mappings
var sdlKeyNameMap = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",
	sdl.K_p:      "p",
	sdl.K_SPACE:  "Space",
	sdl.K_ESCAPE: "Escape",
	sdl.K_F5:     "F5",
	sdl.K_F6:     "F6",
	sdl.K_F7:     "F7",
	sdl.K_F9:     "F9",
	sdl.K_F10:    "F10",
	sdl.K_F12:    "F12",
	sdl.K_EQUALS: "=",
	sdl.K_PLUS:   "+",
	sdl.K_MINUS:  "-",
}

// keyMapping maps SDL2 keys to actions
var keyMapping = func() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}()

func (s *Backend) emit(act action.Action, typ event.Type) {
	s.events = append(s.events, backend.InputEvent{Action: act, Type: typ})
}

func (s *Backend) handleKeyDown(key sdl.Keycode, repeat uint8) {
	act, exists := keyMapping[key]
	if !exists {
		return
	}

	if act.IsKeypad() {
		if repeat != 0 {
			s.emit(act, event.Hold)
		} else {
			s.emit(act, event.Press)
		}
		return
	}

	if repeat != 0 || !s.handler.ProcessEvent(act, event.Press) {
		return
	}

	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(s.currentFrame, s.config.TestPattern, s.testPatternType)
	case action.EmulatorTestPatternCycle:
		if s.config.TestPattern {
			s.testPatternType = (s.testPatternType + 1) % display.TestPatternCount
			s.testPatternFrame.FillTestPattern(s.testPatternType, 0)
			slog.Info("Switched to test pattern", "pattern", video.PatternName(s.testPatternType))
		}
	case action.EmulatorDebugToggle:
		s.ToggleDebugWindow()
	case action.EmulatorQuit:
		s.running = false
		s.emit(act, event.Press)
	default:
		s.emit(act, event.Press)
	}
}

func (s *Backend) handleKeyUp(key sdl.Keycode) {
	if act, exists := keyMapping[key]; exists && act.IsKeypad() {
		s.emit(act, event.Release)
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	// packed 0xRRGGBBAA matches PIXELFORMAT_RGBA8888 in native byte order
	pixels := frame.ToRGBA()
	if err := s.texture.Update(nil, unsafe.Pointer(&pixels[0]), video.Width*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	off := display.OffColor
	s.renderer.SetDrawColor(uint8(off>>24), uint8(off>>16), uint8(off>>8), uint8(off))
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

// ToggleDebugWindow shows/hides the memory map window
func (s *Backend) ToggleDebugWindow() {
	if !s.debugWindow.IsInitialized() {
		if err := s.debugWindow.Init(); err != nil {
			slog.Warn("Failed to initialize debug window", "error", err)
			return
		}
	}
	wasVisible := s.debugWindow.IsVisible()
	s.debugWindow.SetVisible(!wasVisible)
	slog.Debug("Debug window visibility changed", "now_visible", !wasVisible)

	if !wasVisible && s.config.Callbacks.OnDebugMessage != nil {
		s.config.Callbacks.OnDebugMessage("debug:update_window")
	}
}
