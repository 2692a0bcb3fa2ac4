package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.Width
	height = video.Height

	registerHeight = 10
	disasmHeight   = 11
	indexHeight    = 3
	minTermWidth   = 80
	minTermHeight  = 24
	logCapacity    = 200
)

// Key expiry timeout, slightly longer than typical key repeat interval.
// Terminals only report key presses, so releases are synthesized.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	running   bool
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.BackendConfig
	handler   *input.Handler

	queueMu    sync.Mutex
	eventQueue []backend.InputEvent

	keyStates  map[action.Action]time.Time // last time each keypad key was seen
	activeKeys map[action.Action]bool      // keys active in previous frame

	debugProvider backend.DebugDataProvider

	testPatternFrame *video.FrameBuffer
	testPatternType  int
	testFrameCount   int

	currentFrame *video.FrameBuffer
	wasBeeping   bool
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.initWithScreen(config, screen)
}

func (t *Backend) initWithScreen(config backend.BackendConfig, screen tcell.Screen) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.handler = input.NewHandler()
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)
	t.screen = screen
	t.running = true

	// the screen owns stdout, so logs go to the in-app pane
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	if config.TestPattern {
		t.testPatternFrame = video.NewFrameBuffer()
		t.testPatternFrame.FillTestPattern(t.testPatternType, 0)
		slog.Info("Terminal backend initialized in test pattern mode")
	} else {
		slog.Info("Terminal backend initialized")
		if config.ShowDebug {
			slog.Debug("Debug mode enabled")
		}
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.keypadEvents(now)

	t.queueMu.Lock()
	events = append(events, t.eventQueue...)
	t.eventQueue = nil
	t.queueMu.Unlock()

	if !t.running {
		return events, nil
	}

	renderFrame := frame
	if t.config.TestPattern {
		t.testFrameCount++
		if t.testFrameCount%display.TestPatternAnimationFrames == 0 {
			t.testPatternFrame.FillTestPattern(t.testPatternType, t.testFrameCount/display.TestPatternAnimationFrames)
		}
		renderFrame = t.testPatternFrame
	}

	t.currentFrame = renderFrame
	t.updateAudio()
	t.render(renderFrame)
	t.screen.Show()

	return events, nil
}

// keypadEvents turns the timestamps of recently seen keypad keys into
// Press, Hold and Release events.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		currentlyActive[act] = true
		if t.activeKeys[act] {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		} else {
			slog.Debug("Key press", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// updateAudio rings the terminal bell when the sound timer starts.
func (t *Backend) updateAudio() {
	if t.config.Audio == nil {
		return
	}
	beeping := t.config.Audio.IsPlaying()
	if beeping && !t.wasBeeping {
		_ = t.screen.Beep()
	}
	t.wasBeeping = beeping
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
		t.screen = nil
	}
	return nil
}

// handleAction processes actions the terminal handles itself. It returns
// false for actions that belong to the emulator.
func (t *Backend) handleAction(act action.Action) bool {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame, t.config.TestPattern, t.testPatternType)
	case action.EmulatorTestPatternCycle:
		if !t.config.TestPattern {
			return true
		}
		t.testPatternType = (t.testPatternType + 1) % display.TestPatternCount
		t.testPatternFrame.FillTestPattern(t.testPatternType, 0)
		slog.Info("Switched to test pattern", "pattern", video.PatternName(t.testPatternType))
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	default:
		return false
	}
	return true
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.enqueue(action.EmulatorQuit)
}

func (t *Backend) enqueue(act action.Action) {
	t.queueMu.Lock()
	defer t.queueMu.Unlock()
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	var (
		act    action.Action
		exists bool
	)
	if ev.Key() == tcell.KeyRune {
		act, exists = runeMapping[ev.Rune()]
	} else {
		act, exists = keyMapping[ev.Key()]
	}
	if !exists {
		return
	}

	if act.IsKeypad() {
		t.keyStates[act] = now
		return
	}

	if !t.handler.ProcessEvent(act, event.Press) {
		return
	}
	if act == action.EmulatorQuit {
		t.running = false
	}
	if t.handleAction(act) {
		return
	}
	slog.Debug("UI event", "action", act)
	t.enqueue(act)
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF6:     "F6",
	tcell.KeyF7:     "F7",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
	tcell.KeyF12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.EmulatorQuit
	return mapping
}

// buildRuneMapping creates the rune mapping from single-character default
// mappings, plus upper-case aliases so caps lock does not break the keypad.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)
	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if len(runes) != 1 {
			continue
		}
		mapping[runes[0]] = act
		if r := runes[0]; r >= 'a' && r <= 'z' {
			mapping[r-'a'+'A'] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}
	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	t.logLevel = render.StepLevel(t.logLevel, direction)
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := width + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := max(termWidth-rightPanelX, 0)

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawFrame(frame)

	logsY := 0
	if t.config.ShowDebug && t.debugProvider != nil {
		data := t.debugProvider.ExtractDebugData()
		t.drawLines(rightPanelX, 1, rightPanelWidth, registerHeight,
			render.RegisterLines(data), tcell.StyleDefault.Foreground(tcell.ColorBlue))
		t.drawDisassembly(rightPanelX, registerHeight+2, rightPanelWidth, data)

		// memory at I sits below the display on the left
		t.drawLines(1, height/2+2, width, indexHeight,
			render.IndexLines(data), tcell.StyleDefault.Foreground(tcell.ColorTeal))

		logsY = registerHeight + disasmHeight + 2
	}
	t.drawLogs(rightPanelX, logsY+1, rightPanelWidth, termHeight-2-logsY)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " " + t.config.Title + " "
	if t.config.TestPattern {
		title = fmt.Sprintf(" Test Pattern: %s ", video.PatternName(t.testPatternType))
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	startX := dividerX + 2
	logsY := 0
	if t.config.ShowDebug {
		t.drawText(startX, 0, termWidth-startX, " CPU ", titleStyle)
		disasmY := registerHeight + 1
		t.drawRule(dividerX, disasmY, termWidth, borderStyle)
		t.drawText(startX, disasmY, termWidth-startX, " Disassembly ", titleStyle)
		logsY = registerHeight + disasmHeight + 2
		t.drawRule(dividerX, logsY, termWidth, borderStyle)
		t.drawText(1, height/2+1, dividerX-1, " Memory [I] ", titleStyle)
	}
	logTitle := fmt.Sprintf(" Logs [%s] (-/+ filter) ", render.LevelName(t.logLevel))
	t.drawText(startX, logsY, termWidth-startX, logTitle, titleStyle)

	helpText := " F10=debug SPACE=pause F6=step F7=frame F5=reset F9=snapshot ESC=quit | Logs: +/- "
	if t.config.TestPattern {
		helpText = " Test Pattern Mode: F12=cycle patterns F9=snapshot ESC=exit "
	}
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

func (t *Backend) drawRule(dividerX, y, termWidth int, style tcell.Style) {
	for x := dividerX + 1; x < termWidth; x++ {
		t.screen.SetContent(x, y, '─', nil, style)
	}
	t.screen.SetContent(dividerX, y, '├', nil, style)
}

func (t *Backend) drawFrame(frame *video.FrameBuffer) {
	if frame == nil {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			ch := render.HalfBlockChar(frame.GetPixel(x, y), frame.GetPixel(x, y+1))
			t.screen.SetContent(x, y/2+1, ch, nil, style)
		}
	}
}

func (t *Backend) drawDisassembly(startX, startY, width int, data *debug.CompleteDebugData) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range render.DisassemblyLines(data, disasmHeight) {
		useStyle := style
		if strings.HasPrefix(line, "→") {
			useStyle = currentStyle
		}
		t.drawText(startX, startY+i, width, line, useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, width, maxLines int) {
	if maxLines <= 0 {
		return
	}
	entries := t.logBuffer.GetFiltered(maxLines, t.logLevel)

	// newest at the bottom
	for i := range entries {
		entry := entries[len(entries)-1-i]
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		switch {
		case entry.Level >= slog.LevelError:
			style = style.Foreground(tcell.ColorRed)
		case entry.Level >= slog.LevelWarn:
			style = style.Foreground(tcell.ColorYellow)
		case entry.Level < slog.LevelInfo:
			style = style.Foreground(tcell.ColorGray)
		}
		t.drawText(startX, startY+i, width, render.FormatLogEntry(entry), style)
	}
}

func (t *Backend) drawLines(x, y, width, maxLines int, lines []string, style tcell.Style) {
	for i, line := range lines {
		if i >= maxLines {
			break
		}
		t.drawText(x, y+i, width, line, style)
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}
