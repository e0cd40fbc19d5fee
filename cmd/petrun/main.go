// petrun is a reference host for the PET core: it loads ROM images, drives
// the machine's frame loop, renders the video buffer through SDL2, and
// forwards keyboard events into the keyboard matrix.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/ioutil"
	"log"
	"net/http"
	_ "net/http/pprof"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pet6502/core/cpu"
	"github.com/pet6502/core/disassemble"
	"github.com/pet6502/core/irq"
	"github.com/pet6502/core/system"
)

var (
	basicROM  = flag.String("basic_rom", "", "Path to the BASIC ROM image")
	charROM   = flag.String("char_rom", "", "Path to the character ROM image")
	kernalROM = flag.String("kernal_rom", "", "Path to the KERNAL ROM image")
	scale     = flag.Int("scale", 2, "Scale factor to render the screen")
	port      = flag.Int("port", 6060, "Port to run the HTTP pprof server on")
	debug     = flag.Bool("debug", false, "If true, trace every instruction and register delta to stderr")
)

const (
	cellW = 8
	cellH = 8
)

// keymap translates SDL scancodes to the names keyboard.Named recognizes.
// Only the keys with an obvious physical mapping are listed; everything
// else is ignored.
var keymap = map[sdl.Scancode]string{
	sdl.SCANCODE_0: "0", sdl.SCANCODE_1: "1", sdl.SCANCODE_2: "2", sdl.SCANCODE_3: "3",
	sdl.SCANCODE_4: "4", sdl.SCANCODE_5: "5", sdl.SCANCODE_6: "6", sdl.SCANCODE_7: "7",
	sdl.SCANCODE_8: "8", sdl.SCANCODE_9: "9",
	sdl.SCANCODE_A: "A", sdl.SCANCODE_B: "B", sdl.SCANCODE_C: "C", sdl.SCANCODE_D: "D",
	sdl.SCANCODE_E: "E", sdl.SCANCODE_F: "F", sdl.SCANCODE_G: "G", sdl.SCANCODE_H: "H",
	sdl.SCANCODE_I: "I", sdl.SCANCODE_J: "J", sdl.SCANCODE_K: "K", sdl.SCANCODE_L: "L",
	sdl.SCANCODE_M: "M", sdl.SCANCODE_N: "N", sdl.SCANCODE_O: "O", sdl.SCANCODE_P: "P",
	sdl.SCANCODE_Q: "Q", sdl.SCANCODE_R: "R", sdl.SCANCODE_S: "S", sdl.SCANCODE_T: "T",
	sdl.SCANCODE_U: "U", sdl.SCANCODE_V: "V", sdl.SCANCODE_W: "W", sdl.SCANCODE_X: "X",
	sdl.SCANCODE_Y: "Y", sdl.SCANCODE_Z: "Z",
	sdl.SCANCODE_RETURN:    "RETURN",
	sdl.SCANCODE_SPACE:     "SPACE",
	sdl.SCANCODE_LSHIFT:    "LSHIFT",
	sdl.SCANCODE_RSHIFT:    "RSHIFT",
	sdl.SCANCODE_LCTRL:     "CTRL",
	sdl.SCANCODE_BACKSPACE: "DEL",
	sdl.SCANCODE_UP:        "CURSOR_UP",
	sdl.SCANCODE_DOWN:      "CURSOR_DOWN",
	sdl.SCANCODE_LEFT:      "CURSOR_LEFT",
	sdl.SCANCODE_RIGHT:     "CURSOR_RIGHT",
	sdl.SCANCODE_F1:        "F1",
	sdl.SCANCODE_F2:        "F2",
	sdl.SCANCODE_F3:        "F3",
	sdl.SCANCODE_F4:        "F4",
	sdl.SCANCODE_LALT:      "COMMODORE",
}

// fastImage pokes RGBA bytes directly into an SDL surface's backing store,
// avoiding the color.Color boxing that Surface.Set otherwise incurs.
type fastImage struct {
	surface *sdl.Surface
	data    []byte
}

func (f *fastImage) Set(x, y int, c color.Color) {
	i := int32(y)*f.surface.Pitch + int32(x)*int32(f.surface.Format.BytesPerPixel)
	r, g, b, a := c.RGBA()
	f.data[i+0] = uint8(b >> 8)
	f.data[i+1] = uint8(g >> 8)
	f.data[i+2] = uint8(r >> 8)
	f.data[i+3] = uint8(a >> 8)
}

func (f *fastImage) ColorModel() color.Model { return f.surface.ColorModel() }
func (f *fastImage) Bounds() image.Rectangle { return f.surface.Bounds() }
func (f *fastImage) At(x, y int) color.Color { return f.surface.At(x, y) }

func main() {
	flag.Parse()

	if *basicROM == "" || *charROM == "" || *kernalROM == "" {
		log.Fatal("must supply -basic_rom, -char_rom and -kernal_rom")
	}

	roms := system.ROMs{}
	var err error
	if roms.Basic, err = ioutil.ReadFile(*basicROM); err != nil {
		log.Fatalf("reading BASIC ROM: %v", err)
	}
	if roms.CharROM, err = ioutil.ReadFile(*charROM); err != nil {
		log.Fatalf("reading character ROM: %v", err)
	}
	if roms.Kernal, err = ioutil.ReadFile(*kernalROM); err != nil {
		log.Fatalf("reading KERNAL ROM: %v", err)
	}

	m, err := system.New(roms)
	if err != nil {
		log.Fatalf("initializing machine: %v", err)
	}
	m.Start()

	go func() {
		log.Println(http.ListenAndServe(fmt.Sprintf("localhost:%d", *port), nil))
	}()

	const w, h = 40 * cellW, 25 * cellH
	var window *sdl.Window
	fi := &fastImage{}
	face := basicfont.Face7x13

	sdl.Main(func() {
		var wg sync.WaitGroup
		wg.Add(1)
		sdl.Do(func() {
			if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
				log.Fatalf("can't init SDL: %v", err)
			}
			window, err = sdl.CreateWindow("PET", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
				int32(w**scale), int32(h**scale), sdl.WINDOW_SHOWN)
			if err != nil {
				log.Fatalf("can't create window: %v", err)
			}
			fi.surface, err = window.GetSurface()
			if err != nil {
				log.Fatalf("can't get window surface: %v", err)
			}
			fi.data = fi.surface.Pixels()
			wg.Done()
		})
		wg.Wait()
		defer func() {
			window.Destroy()
			sdl.Quit()
		}()

		cellImg := image.NewRGBA(image.Rect(0, 0, w, h))
		bg := color.RGBA{0, 0, 0, 255}
		fg := color.RGBA{0x33, 0xff, 0x66, 255}

		var last cpu.State
		haveLast := false

		for {
			quit := false
			sdl.Do(func() {
				for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
					switch e := ev.(type) {
					case *sdl.QuitEvent:
						quit = true
					case *sdl.KeyboardEvent:
						if e.Keysym.Scancode == sdl.SCANCODE_F12 {
							if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
								m.SetDebug(!m.Debug())
							}
							continue
						}
						name, ok := keymap[e.Keysym.Scancode]
						if !ok {
							continue
						}
						if e.Type == sdl.KEYDOWN {
							m.KeyDown(name)
						} else if e.Type == sdl.KEYUP {
							m.KeyUp(name)
						}
					}
				}
			})
			if quit {
				return
			}

			if *debug {
				runDebugFrame(m, &last, &haveLast)
			} else {
				m.RunFrame()
			}
			if !m.Running() {
				return
			}
			if m.Debug() {
				log.Print(m.DebugState())
			}

			cells, cw, rows, dirty := m.SnapshotVideo()
			if dirty {
				draw.Draw(cellImg, cellImg.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)
				for y := 0; y < rows; y++ {
					for x := 0; x < cw; x++ {
						drawGlyph(cellImg, face, fg, x*cellW, y*cellH, cells[y*cw+x])
					}
				}
				sdl.Do(func() {
					for y := 0; y < h; y++ {
						for x := 0; x < w; x++ {
							fi.Set(x, y, cellImg.At(x, y))
						}
					}
					window.UpdateSurface()
				})
			}

			time.Sleep(20 * time.Millisecond)
		}
	})
}

// drawGlyph renders an ASCII approximation of a PETSCII byte at the given
// pixel origin. Only the printable range is mapped; everything else shows
// as a space.
func drawGlyph(dst draw.Image, face font.Face, fg color.Color, x, y int, petscii uint8) {
	r := ' '
	switch {
	case petscii >= 0x20 && petscii < 0x60:
		r = rune(petscii)
	case petscii >= 0x41 && petscii <= 0x5A:
		r = rune(petscii)
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+cellH-2),
	}
	d.DrawString(string(r))
}

// runDebugFrame single-steps one frame's worth of instructions, disassembling
// each before execution and logging the register delta after.
func runDebugFrame(m *system.Machine, last *cpu.State, haveLast *bool) {
	irqLine := irq.Any(m.VIA1, m.VIA2)
	spent := 0
	for spent < system.CyclesPerFrame && m.Running() {
		line, _ := disassemble.Step(m.CPU.PC, m.Bus)
		if !*haveLast {
			fmt.Fprintln(logWriter{}, spew.Sdump(m.CPU.State()))
		}
		cycles, err := m.CPU.Step()
		if err != nil {
			log.Printf("step error: %v", err)
			m.Stop()
			return
		}
		m.VIA1.UpdateTimers(cycles)
		m.VIA2.UpdateTimers(cycles)
		m.CPU.IRQPending = irqLine.Raised()

		now := m.CPU.State()
		if *haveLast {
			if diff := deep.Equal(*last, now); diff != nil {
				log.Printf("%s -> %v", line, diff)
			}
		}
		*last = now
		*haveLast = true
		spent += cycles
	}
}

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Print(string(p))
	return len(p), nil
}
