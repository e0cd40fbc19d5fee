package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// flatMemory is a 64KiB RAM-only Bus fixture, no ROM overlays or I/O.
type flatMemory struct {
	addr [65536]uint8
}

func (r *flatMemory) Read(addr uint16) uint8       { return r.addr[addr] }
func (r *flatMemory) Write(addr uint16, val uint8) { r.addr[addr] = val }

func (r *flatMemory) load(base uint16, bytes ...uint8) {
	for i, b := range bytes {
		r.addr[int(base)+i] = b
	}
}

func newChip(t *testing.T) (*Chip, *flatMemory) {
	t.Helper()
	mem := &flatMemory{}
	c, err := New(mem)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, mem
}

func TestImmediateLoadAndFlags(t *testing.T) {
	c, mem := newChip(t)
	mem.load(0x0200, 0xA9, 0x00) // LDA #$00
	c.PC = 0x0200

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0 || !c.Z || c.N {
		t.Errorf("A=%#02x Z=%v N=%v, want A=0 Z=true N=false", c.A, c.Z, c.N)
	}
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC = %#04x, want $0202", c.PC)
	}
}

func TestAbsoluteXPageCrossPenalty(t *testing.T) {
	c, mem := newChip(t)
	c.X = 0x01
	mem.addr[0x1000] = 0xAA
	mem.load(0x0200, 0xBD, 0xFF, 0x0F) // LDA $0FFF,X
	c.PC = 0x0200

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0xAA {
		t.Errorf("A = %#02x, want $AA", c.A)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5 (page-cross penalty)", cycles)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, mem := newChip(t)
	mem.addr[0x30FF] = 0x40
	mem.addr[0x3000] = 0x80 // high byte comes from $3000, not $3100
	mem.load(0x0200, 0x6C, 0xFF, 0x30) // JMP ($30FF)
	c.PC = 0x0200

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x8040 {
		t.Errorf("PC = %#04x, want $8040", c.PC)
	}
	if cycles != 5 {
		t.Errorf("cycles = %d, want 5", cycles)
	}
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newChip(t)
	mem.load(0x0200, 0x20, 0x07, 0x02, 0xEA, 0x00, 0x00, 0x00, 0x60) // JSR $0207; NOP; ...; RTS
	c.PC = 0x0200
	c.SP = 0xFD

	cycles1, err := c.Step() // JSR
	if err != nil {
		t.Fatalf("JSR step: %v", err)
	}
	if c.PC != 0x0207 {
		t.Fatalf("PC after JSR = %#04x, want $0207", c.PC)
	}

	cycles2, err := c.Step() // RTS
	if err != nil {
		t.Fatalf("RTS step: %v", err)
	}
	if c.PC != 0x0203 {
		t.Errorf("PC after RTS = %#04x, want $0203", c.PC)
	}
	if c.SP != 0xFD {
		t.Errorf("SP after round trip = %#02x, want $FD (restored)", c.SP)
	}
	if cycles1 != 6 || cycles2 != 6 {
		t.Errorf("cycles = %d,%d, want 6,6", cycles1, cycles2)
	}
}

func TestBRKVectorsAndPushesStatus(t *testing.T) {
	c, mem := newChip(t)
	mem.addr[0xFFFE] = 0x34
	mem.addr[0xFFFF] = 0x12
	mem.load(0x0200, 0x00, 0x00) // BRK
	c.PC = 0x0200
	c.SP = 0xFD
	c.I = false

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x1234 {
		t.Errorf("PC = %#04x, want $1234", c.PC)
	}
	if !c.I {
		t.Error("I flag not set after BRK")
	}
	status := mem.addr[0x0100|uint16(c.SP+1)]
	if status&0x10 == 0 {
		t.Errorf("pushed status missing B flag, state: %s", spew.Sdump(c))
	}
}

func TestPHAPLARestoresAccumulator(t *testing.T) {
	c, mem := newChip(t)
	mem.load(0x0200, 0x48, 0xA9, 0x00, 0x68) // PHA; LDA #0; PLA
	c.PC = 0x0200
	c.SP = 0xFD
	c.A = 0x7F

	c.Step() // PHA
	c.Step() // LDA #0
	if c.A != 0 || !c.Z {
		t.Fatalf("after LDA #0: A=%#02x Z=%v", c.A, c.Z)
	}
	c.Step() // PLA
	if c.A != 0x7F {
		t.Errorf("A after PLA = %#02x, want $7F", c.A)
	}
	if c.Z {
		t.Error("Z set after restoring non-zero A")
	}
}

func TestADCBinaryCarryAndSum(t *testing.T) {
	tests := []struct{ a, b uint8 }{
		{0x50, 0x10}, {0xFF, 0x01}, {0x7F, 0x01}, {0x00, 0x00},
	}
	for _, tc := range tests {
		c, mem := newChip(t)
		mem.load(0x0200, 0x18, 0xA9, tc.a, 0x69, tc.b) // CLC; LDA #a; ADC #b
		c.PC = 0x0200
		c.Step() // CLC
		c.Step() // LDA
		c.Step() // ADC

		want := uint8((int(tc.a) + int(tc.b)) % 256)
		if c.A != want {
			t.Errorf("a=%#02x b=%#02x: A=%#02x, want %#02x", tc.a, tc.b, c.A, want)
		}
		wantCarry := int(tc.a)+int(tc.b) >= 256
		if c.C != wantCarry {
			t.Errorf("a=%#02x b=%#02x: C=%v, want %v", tc.a, tc.b, c.C, wantCarry)
		}
	}
}

func TestStatusByteBit5AlwaysSet(t *testing.T) {
	c, _ := newChip(t)
	if c.statusByte(false)&0x20 == 0 {
		t.Error("bit 5 of assembled status must always be 1")
	}
}

func TestNMIWinsOverIRQ(t *testing.T) {
	c, mem := newChip(t)
	mem.addr[0xFFFA] = 0x00
	mem.addr[0xFFFB] = 0x40 // NMI vector -> $4000
	mem.addr[0xFFFE] = 0x00
	mem.addr[0xFFFF] = 0x50 // IRQ vector -> $5000
	c.PC = 0x0200
	c.I = false
	c.IRQPending = true
	c.NMIPending = true

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x4000 {
		t.Errorf("PC = %#04x, want $4000 (NMI should win), state: %s", c.PC, spew.Sdump(c))
	}
	if c.NMIPending || !c.IRQPending {
		t.Error("NMI should clear its pending flag; IRQ should remain pending since NMI took priority")
	}
}

func TestStateSnapshotsRegisters(t *testing.T) {
	c, mem := newChip(t)
	mem.load(0x0200, 0xA9, 0x42) // LDA #$42
	c.PC = 0x0200
	c.Step()

	s := c.State()
	if s.A != 0x42 || s.PC != 0x0202 {
		t.Errorf("State() = %+v, want A=$42 PC=$0202", s)
	}
}

func TestIRQMaskedByIFlag(t *testing.T) {
	c, mem := newChip(t)
	mem.load(0x0200, 0xEA) // NOP
	c.PC = 0x0200
	c.I = true
	c.IRQPending = true

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 2 || c.PC != 0x0201 {
		t.Error("IRQ with I=1 set should not be taken; NOP should execute normally")
	}
	if !c.IRQPending {
		t.Error("IRQPending should remain set when masked by I")
	}
}
