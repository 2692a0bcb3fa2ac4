package integration

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/video"
)

type IntegrationTestCase struct {
	Name    string
	Program []byte
	Frames  int
	Check   func(t *testing.T, vm *chip8.VM)
}

func GetIntegrationTests() []IntegrationTestCase {
	return []IntegrationTestCase{
		{
			Name: "font-digits",
			Program: []byte{
				0x60, 0x00, // LD V0, 0
				0x61, 0x00, // LD V1, 0
				0x62, 0x00, // LD V2, 0
				0xF0, 0x29, // loop: LD F, V0
				0xD1, 0x25, // DRW V1, V2, 5
				0x71, 0x05, // ADD V1, 5
				0x70, 0x01, // ADD V0, 1
				0x30, 0x04, // SE V0, 4
				0x12, 0x06, // JP loop
				0x12, 0x12, // JP self
			},
			Frames: 5,
			Check: func(t *testing.T, vm *chip8.VM) {
				assertFrame(t, vm.GetCurrentFrame(), []string{
					"####...#..####.####.",
					"#..#..##.....#....#.",
					"#..#...#..####.####.",
					"#..#...#..#.......#.",
					"####..###.####.####.",
				})
			},
		},
		{
			Name: "delay-timer-wait",
			Program: []byte{
				0x60, 0x0A, // LD V0, 10
				0xF0, 0x15, // LD DT, V0
				0xF1, 0x07, // loop: LD V1, DT
				0x31, 0x00, // SE V1, 0
				0x12, 0x04, // JP loop
				0x62, 0xAA, // LD V2, $AA
				0x12, 0x0C, // JP self
			},
			Frames: 20,
			Check: func(t *testing.T, vm *chip8.VM) {
				regs := vm.CPU().Registers()
				assert.Equal(t, uint8(0xAA), regs[2])
				assert.Equal(t, uint8(0), vm.CPU().DelayTimer())
			},
		},
		{
			Name: "sprite-collision",
			Program: []byte{
				0xA2, 0x0A, // LD I, sprite
				0xD0, 0x05, // DRW V0, V0, 5
				0xD0, 0x05, // DRW V0, V0, 5
				0x12, 0x06, // JP self
				0x00, 0x00,
				0xFF, 0x81, 0x81, 0x81, 0xFF, // sprite
			},
			Frames: 2,
			Check: func(t *testing.T, vm *chip8.VM) {
				assert.Equal(t, 0, vm.GetCurrentFrame().CountLit())
				assert.Equal(t, uint8(1), vm.CPU().Registers()[0xF])
			},
		},
	}
}

// assertFrame compares the top-left corner of frame against rows, where '#'
// is a lit pixel, and checks nothing else is lit.
func assertFrame(t *testing.T, frame *video.FrameBuffer, rows []string) {
	t.Helper()
	lit := 0
	for y, row := range rows {
		var sb strings.Builder
		for x := range len(row) {
			if frame.GetPixel(x, y) {
				sb.WriteByte('#')
				lit++
			} else {
				sb.WriteByte('.')
			}
		}
		assert.Equal(t, row, sb.String(), "row %d", y)
	}
	assert.Equal(t, lit, frame.CountLit(), "pixels lit outside the expected area")
}

func runIntegrationTest(t *testing.T, testCase IntegrationTestCase) {
	config := chip8.DefaultConfig()
	config.Seed = 1
	vm := chip8.New(config)
	require.NoError(t, vm.LoadProgram(testCase.Program))
	vm.SetFrameLimiter(nil)

	snapshots := headless.SnapshotConfig{
		Enabled:   true,
		Interval:  testCase.Frames,
		Directory: t.TempDir(),
		ROMName:   testCase.Name,
	}
	b := headless.New(testCase.Frames, snapshots)

	require.NoError(t, vm.Run(b, backend.BackendConfig{Title: testCase.Name}))
	require.Len(t, b.Snapshots(), 1)
	assert.FileExists(t, b.Snapshots()[0])

	testCase.Check(t, vm)
}

func TestIntegrationSuite(t *testing.T) {
	for _, testCase := range GetIntegrationTests() {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()
			runIntegrationTest(t, testCase)
		})
	}
}

// frameBits flattens the frame into one byte per pixel.
func frameBits(frame *video.FrameBuffer) []byte {
	data := make([]byte, video.Width*video.Height)
	for y := range video.Height {
		for x := range video.Width {
			if frame.GetPixel(x, y) {
				data[y*video.Width+x] = 1
			}
		}
	}
	return data
}

// TestROMGolden runs every .ch8 file in $CHIP8_TEST_ROMS for a fixed number
// of frames and compares the final screen against testdata/<name>.md5.
// Set CHIP8_GENERATE_GOLDEN=true to record new reference hashes.
func TestROMGolden(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping ROM tests in short mode")
	}
	romDir := os.Getenv("CHIP8_TEST_ROMS")
	if romDir == "" {
		t.Skip("CHIP8_TEST_ROMS not set")
	}

	roms, err := filepath.Glob(filepath.Join(romDir, "*.ch8"))
	require.NoError(t, err)
	if len(roms) == 0 {
		t.Skipf("no .ch8 files in %s", romDir)
	}

	const frames = 180
	generate := os.Getenv("CHIP8_GENERATE_GOLDEN") == "true"

	for _, rom := range roms {
		name := strings.TrimSuffix(filepath.Base(rom), filepath.Ext(rom))
		t.Run(name, func(t *testing.T) {
			config := chip8.DefaultConfig()
			config.Seed = 1
			vm, err := chip8.NewWithFile(rom, config)
			require.NoError(t, err)

			for range frames {
				if err := vm.RunUntilFrame(); err != nil {
					t.Logf("ROM halted: %v", err)
					break
				}
			}

			hash := fmt.Sprintf("%x", md5.Sum(frameBits(vm.GetCurrentFrame())))
			goldenPath := filepath.Join("testdata", name+".md5")

			if generate {
				require.NoError(t, os.MkdirAll("testdata", 0o755))
				require.NoError(t, os.WriteFile(goldenPath, []byte(hash+"\n"), 0o644))
				require.NoError(t, debug.SaveFramePNG(vm.GetCurrentFrame(), filepath.Join("testdata", name+".png")))
				t.Logf("Reference hash written: %s", hash)
				return
			}

			expected, err := os.ReadFile(goldenPath)
			if os.IsNotExist(err) {
				t.Skipf("no reference hash at %s, run with CHIP8_GENERATE_GOLDEN=true", goldenPath)
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(string(expected)), hash)
		})
	}
}
