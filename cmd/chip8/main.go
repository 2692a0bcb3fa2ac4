package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "sdl2",
			Usage: "Use the SDL2 window backend (requires a build with -tags sdl2)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show debug panels on start",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of emulation (for debugging display)",
		},
		cli.IntFlag{
			Name:  "cpu-hz",
			Usage: "Instructions executed per second",
			Value: timing.DefaultInstructionsPerSecond,
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the RND instruction (0 = random)",
		},
		cli.BoolFlag{
			Name:  "wrap-sprites",
			Usage: "Wrap sprites around the screen edges instead of clipping them",
		},
		cli.BoolFlag{
			Name:  "start-paused",
			Usage: "Start with the debugger paused on the first instruction",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction at debug level",
		},
		cli.BoolFlag{
			Name:  "dump",
			Usage: "Print a hex dump and disassembly of the ROM, then exit",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	config := backend.BackendConfig{
		Title:     "CHIP-8",
		Scale:     display.DefaultPixelScale,
		ShowDebug: c.Bool("debug"),
	}

	// Test pattern mode - no ROM needed
	if c.Bool("test-pattern") {
		slog.Info("Running in test pattern mode")
		b, err := selectBackend(c, "test-pattern")
		if err != nil {
			return err
		}
		return chip8.NewTestPatternEmulator().Run(b, config)
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	if c.Bool("headless") {
		// Set up debug logging for headless mode
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	vmConfig := chip8.DefaultConfig()
	vmConfig.InstructionsPerSecond = c.Int("cpu-hz")
	vmConfig.Seed = c.Uint64("seed")
	vmConfig.SpriteWrap = c.Bool("wrap-sprites")
	vmConfig.StartPaused = c.Bool("start-paused")
	vmConfig.Trace = c.Bool("trace")

	vm, err := chip8.NewWithFile(romPath, vmConfig)
	if err != nil {
		return err
	}

	if c.Bool("dump") {
		fmt.Print(vm.DumpProgram())
		fmt.Println()
		fmt.Print(vm.Listing())
		return nil
	}

	config.Title = fmt.Sprintf("CHIP-8 - %s", strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath)))

	b, err := selectBackend(c, romPath)
	if err != nil {
		return err
	}
	if c.Bool("headless") {
		vm.SetFrameLimiter(nil)
	}

	return vm.Run(b, config)
}

func selectBackend(c *cli.Context, romPath string) (backend.Backend, error) {
	switch {
	case c.Bool("headless"):
		frames := c.Int("frames")
		if frames <= 0 && !c.Bool("test-pattern") {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}
		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(frames, snapshotConfig), nil
	case c.Bool("sdl2"):
		return sdl2.New(), nil
	default:
		return terminal.New(), nil
	}
}
