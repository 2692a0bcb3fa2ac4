package render

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/video"
)

// HalfBlockChar returns the glyph that renders two vertically stacked pixels
// in a single terminal cell, with lit pixels drawn in the foreground colour.
func HalfBlockChar(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

// FrameRows renders the frame buffer as half-block text, two pixel rows per line.
func FrameRows(frame *video.FrameBuffer) []string {
	rows := make([]string, 0, video.Height/2)
	for y := 0; y < video.Height; y += 2 {
		line := make([]rune, video.Width)
		for x := 0; x < video.Width; x++ {
			line[x] = HalfBlockChar(frame.GetPixel(x, y), frame.GetPixel(x, y+1))
		}
		rows = append(rows, string(line))
	}
	return rows
}

// RegisterLines formats the CPU state for the register panel.
func RegisterLines(data *debug.CompleteDebugData) []string {
	if data == nil || data.CPU == nil {
		return nil
	}
	cpu := data.CPU

	lines := []string{fmt.Sprintf("Status: %s  Frame: %d", data.DebuggerState, data.Frame)}
	for row := 0; row < 4; row++ {
		line := ""
		for col := 0; col < 4; col++ {
			r := row*4 + col
			line += fmt.Sprintf("V%X:%02X ", r, cpu.V[r])
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		fmt.Sprintf("PC: %03X  I: %03X  SP: %X", cpu.PC, cpu.I, cpu.SP),
		fmt.Sprintf("DT: %02X  ST: %02X  Sound: %s", cpu.DelayTimer, cpu.SoundTimer, onOff(data.SoundActive)),
		fmt.Sprintf("Stack: %s", formatStack(cpu.Stack)),
		fmt.Sprintf("Instructions: %d", cpu.Instructions),
	)
	if data.LastError != nil {
		lines = append(lines, fmt.Sprintf("Fault: %v", data.LastError))
	}
	return lines
}

// DisassemblyLines disassembles the memory window of data, marking the
// instruction at PC with an arrow. At most maxLines lines are returned,
// centred on PC when possible.
func DisassemblyLines(data *debug.CompleteDebugData, maxLines int) []string {
	if data == nil || data.CPU == nil || data.Memory == nil || maxLines <= 0 {
		return nil
	}
	snap := data.Memory
	pc := data.CPU.PC

	var all []disasm.DisassemblyLine
	pcIndex := -1
	for off := 0; off+1 < len(snap.Bytes); off += 2 {
		line := disasm.DisassembleAt(uint16(off), snap.Bytes)
		line.Address += snap.StartAddr
		if line.Address == pc {
			pcIndex = len(all)
		}
		all = append(all, line)
	}

	start := 0
	if pcIndex >= 0 {
		start = max(pcIndex-maxLines/2, 0)
	}
	end := min(start+maxLines, len(all))
	start = max(end-maxLines, 0)

	out := make([]string, 0, end-start)
	for _, line := range all[start:end] {
		marker := "  "
		if line.Address == pc {
			marker = "→ "
		}
		out = append(out, marker+line.String())
	}
	return out
}

// IndexLines renders the bytes at I as hex, 8 per line.
func IndexLines(data *debug.CompleteDebugData) []string {
	if data == nil || data.IndexMemory == nil {
		return nil
	}
	snap := data.IndexMemory
	var out []string
	for off := 0; off < len(snap.Bytes); off += 8 {
		line := fmt.Sprintf("%03X:", int(snap.StartAddr)+off)
		for _, b := range snap.Bytes[off:min(off+8, len(snap.Bytes))] {
			line += fmt.Sprintf(" %02X", b)
		}
		out = append(out, line)
	}
	return out
}

func formatStack(stack []uint16) string {
	if len(stack) == 0 {
		return "-"
	}
	s := ""
	for i, a := range stack {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%03X", a)
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
