// Package system wires the CPU, bus, two VIAs, video buffer, and keyboard
// matrix together into a runnable PET-class machine and drives the
// host-facing frame loop.
package system

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/pet6502/core/bus"
	"github.com/pet6502/core/cpu"
	"github.com/pet6502/core/irq"
	"github.com/pet6502/core/keyboard"
	"github.com/pet6502/core/via"
	"github.com/pet6502/core/video"
)

// Model distinguishes the PET variants this core can represent. The memory
// map and chip wiring are identical across all four (per §6); the only
// difference is whether the business keyboard's F1-F4 row is present, since
// the 2001's "chiclet" keyboard doesn't have one.
type Model int

const (
	Model4032 Model = iota // business keyboard, the default
	Model2001               // chiclet keyboard, no function-key row
	Model3032
	Model8032
)

func (m Model) hasFunctionKeys() bool {
	return m != Model2001
}

// Memory map constants, the contract the BASIC/KERNAL ROMs rely on.
const (
	VideoBase   = 0x8000
	VideoSize   = 1000 // 40 x 25
	BasicBase   = 0xC000
	BasicSize   = 0x2000
	CharROMBase = 0xE000
	CharROMSize = 0x1000
	VIA1Base    = 0xE810
	VIA1End     = 0xE81F
	VIA2Base    = 0xE820
	VIA2End     = 0xE82F
	KernalBase  = 0xF000
	KernalSize  = 0x1000

	videoWidth  = 40
	videoHeight = 25

	// CyclesPerFrame approximates 1MHz / 50Hz.
	CyclesPerFrame = 20000
)

// InvalidROM is returned by New when a supplied ROM image has the wrong
// length for its region.
type InvalidROM struct {
	Region string
	Got    int
	Want   int
}

func (e InvalidROM) Error() string {
	return fmt.Sprintf("invalid %s ROM: got %d bytes, want %d", e.Region, e.Got, e.Want)
}

// ROMs bundles the ROM images the host supplies; their contents are out of
// scope for this core and are simply overlaid onto the bus.
type ROMs struct {
	Basic   []uint8 // BasicSize bytes
	CharROM []uint8 // CharROMSize bytes
	Kernal  []uint8 // KernalSize bytes
	Model   Model   // zero value is Model4032
}

// Machine is a fully wired PET-class system.
type Machine struct {
	CPU      *cpu.Chip
	Bus      *bus.Bus
	VIA1     *via.Chip
	VIA2     *via.Chip
	Video    *video.Buffer
	Keyboard *keyboard.Matrix

	model     Model
	running   bool
	debug     bool
	selectRow uint8
}

// New constructs and wires a Machine from the given ROM images.
func New(roms ROMs) (*Machine, error) {
	if len(roms.Basic) != BasicSize {
		return nil, InvalidROM{"BASIC", len(roms.Basic), BasicSize}
	}
	if len(roms.CharROM) != CharROMSize {
		return nil, InvalidROM{"character", len(roms.CharROM), CharROMSize}
	}
	if len(roms.Kernal) != KernalSize {
		return nil, InvalidROM{"KERNAL", len(roms.Kernal), KernalSize}
	}

	m := &Machine{
		Bus:      bus.New(),
		VIA1:     via.New(),
		VIA2:     via.New(),
		Video:    video.New(videoWidth, videoHeight),
		Keyboard: keyboard.New(),
		model:    roms.Model,
	}

	if err := m.Bus.LoadROM(BasicBase, roms.Basic); err != nil {
		return nil, fmt.Errorf("loading BASIC ROM: %w", err)
	}
	if err := m.Bus.LoadROM(CharROMBase, roms.CharROM); err != nil {
		return nil, fmt.Errorf("loading character ROM: %w", err)
	}
	if err := m.Bus.LoadROM(KernalBase, roms.Kernal); err != nil {
		return nil, fmt.Errorf("loading KERNAL ROM: %w", err)
	}

	m.Bus.RegisterIORange(VideoBase, VideoBase+VideoSize-1,
		func(addr uint16) uint8 { return m.Video.Read(int(addr - VideoBase)) },
		func(addr uint16, v uint8) { m.Video.Write(int(addr-VideoBase), v) },
	)

	// VIA #1 port A doubles as the keyboard row selector (write, lower 3
	// bits) and row reader (read, immediately after select).
	m.VIA1.WriteA = func(v uint8) { m.selectRow = v & 0x07 }
	m.VIA1.ReadA = func() uint8 { return m.Keyboard.ReadRow(int(m.selectRow)) }

	m.Bus.RegisterIORange(VIA1Base, VIA1End,
		func(addr uint16) uint8 { return m.VIA1.Read(uint8(addr - VIA1Base)) },
		func(addr uint16, v uint8) { m.VIA1.Write(uint8(addr-VIA1Base), v) },
	)
	m.Bus.RegisterIORange(VIA2Base, VIA2End,
		func(addr uint16) uint8 { return m.VIA2.Read(uint8(addr - VIA2Base)) },
		func(addr uint16, v uint8) { m.VIA2.Write(uint8(addr-VIA2Base), v) },
	)

	c, err := cpu.New(m.Bus)
	if err != nil {
		return nil, fmt.Errorf("initializing CPU: %w", err)
	}
	m.CPU = c

	return m, nil
}

// Start powers the machine up: PC is set to $C000 (BASIC cold start) and the
// video buffer is cleared. The caller must call RunFrame repeatedly to make
// progress; Start does not block.
func (m *Machine) Start() {
	m.CPU.PowerOn()
	m.CPU.PC = BasicBase
	m.Video.Clear()
	m.running = true
}

// Stop halts the frame loop; RunFrame becomes a no-op until Start is called
// again.
func (m *Machine) Stop() {
	m.running = false
}

// Running reports whether the machine is accepting RunFrame calls.
func (m *Machine) Running() bool { return m.running }

// Model reports which PET variant this Machine represents.
func (m *Machine) Model() Model { return m.model }

var functionKeyNames = map[string]bool{"F1": true, "F2": true, "F3": true, "F4": true}

// KeyDown marks the named key pressed in the keyboard matrix. Unknown names
// are ignored, as are F1-F4 on models without a function-key row.
func (m *Machine) KeyDown(name string) {
	if functionKeyNames[name] && !m.model.hasFunctionKeys() {
		return
	}
	m.Keyboard.SetNamed(name, true)
}

// KeyUp marks the named key released.
func (m *Machine) KeyUp(name string) {
	if functionKeyNames[name] && !m.model.hasFunctionKeys() {
		return
	}
	m.Keyboard.SetNamed(name, false)
}

// SetDebug toggles the debug overlay flag, mirroring the F12-toggled debug
// view of the system this was modeled on. The core itself doesn't act on
// this flag; host binaries poll Debug/DebugState to decide whether to render
// trace output.
func (m *Machine) SetDebug(on bool) { m.debug = on }

// Debug reports whether the debug overlay is enabled.
func (m *Machine) Debug() bool { return m.debug }

// DebugState returns a human-readable dump of CPU and VIA register state,
// for a host's debug overlay.
func (m *Machine) DebugState() string {
	return spew.Sdump(m.CPU.State(), *m.VIA1, *m.VIA2)
}

// RunFrame executes CPU instructions until approximately CyclesPerFrame
// cycles have been consumed, feeding each instruction's cycle count to both
// VIAs' timers and raising the CPU's IRQ line whenever either VIA asserts.
// It is a no-op if the machine is not running.
func (m *Machine) RunFrame() {
	if !m.running {
		return
	}
	irqLine := irq.Any(m.VIA1, m.VIA2)

	spent := 0
	for spent < CyclesPerFrame && m.running {
		cycles, err := m.CPU.Step()
		if err != nil {
			m.running = false
			return
		}
		m.VIA1.UpdateTimers(cycles)
		m.VIA2.UpdateTimers(cycles)
		m.CPU.IRQPending = irqLine.Raised()
		spent += cycles
	}
}

// SnapshotVideo returns the video buffer's bytes, dimensions, and whether it
// changed since the last snapshot.
func (m *Machine) SnapshotVideo() (cells []uint8, width, height int, dirty bool) {
	return m.Video.Snapshot()
}
