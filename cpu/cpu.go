// Package cpu implements the MOS 6502 instruction set: fetch/decode over
// all official addressing modes, flag algebra, decimal-mode arithmetic, and
// NMI/IRQ/BRK interrupt sequencing. Step executes exactly one instruction to
// completion and returns the cycles it consumed; there is no intra-
// instruction suspension.
package cpu

import "fmt"

// Vector addresses read for interrupt entry.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// Bus is the memory interface the CPU fetches instructions from and reads
// and writes operands through.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// InvalidCPUState represents an invalid CPU state encountered during
// construction or execution.
type InvalidCPUState struct {
	Reason string
}

func (e InvalidCPUState) Error() string {
	return fmt.Sprintf("invalid CPU state: %s", e.Reason)
}

// Chip is a single 6502 core wired to a Bus.
type Chip struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	// Status flags, individually addressable rather than packed, since
	// every instruction's flag algebra reads/writes them by name.
	C, Z, I, D, B, V, N bool

	Cycles uint64

	// IRQPending and NMIPending are owned by the caller (the System):
	// IRQPending reflects the wire-OR of the VIAs' interrupt lines and is
	// masked by the I flag; NMIPending is edge-triggered and unmaskable.
	// Step samples both before each fetch.
	IRQPending bool
	NMIPending bool

	bus Bus
}

// New returns a Chip wired to bus. Registers are zeroed; call PowerOn or
// Reset before stepping.
func New(bus Bus) (*Chip, error) {
	if bus == nil {
		return nil, InvalidCPUState{"New: bus must not be nil"}
	}
	return &Chip{bus: bus}, nil
}

// State is a read-only snapshot of the chip's registers and flags, for
// debug traces and test failure dumps; it carries no behavior of its own.
type State struct {
	A, X, Y, SP         uint8
	PC                  uint16
	C, Z, I, D, B, V, N bool
	Cycles              uint64
}

// State returns a snapshot of the chip's current registers and flags.
func (c *Chip) State() State {
	return State{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC,
		C: c.C, Z: c.Z, I: c.I, D: c.D, B: c.B, V: c.V, N: c.N,
		Cycles: c.Cycles,
	}
}

// readWord reads a little-endian word at addr, used for vector fetches.
func (c *Chip) readWord(addr uint16) uint16 {
	lo := c.bus.Read(addr)
	hi := c.bus.Read(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// PowerOn sets the registers to their documented cold-start values and loads
// PC from the reset vector.
func (c *Chip) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.B = false
	c.Cycles = 0
	c.IRQPending = false
	c.NMIPending = false
	c.PC = c.readWord(ResetVector)
}

// Reset sets the I flag and reloads PC from the reset vector, leaving the
// other registers and flags as they are.
func (c *Chip) Reset() {
	c.I = true
	c.PC = c.readWord(ResetVector)
}

func (c *Chip) fetch() uint8 {
	v := c.bus.Read(c.PC)
	c.PC++
	return v
}

func (c *Chip) fetchWord() uint16 {
	lo := c.fetch()
	hi := c.fetch()
	return uint16(lo) | uint16(hi)<<8
}

func (c *Chip) push(v uint8) {
	c.bus.Write(0x0100|uint16(c.SP), v)
	c.SP--
}

func (c *Chip) pop() uint8 {
	c.SP++
	return c.bus.Read(0x0100 | uint16(c.SP))
}

func (c *Chip) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *Chip) popWord() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(lo) | uint16(hi)<<8
}

// statusByte assembles the status flags into a packed byte. Bit 5 is always
// 1; bit 4 (B) is set only in pushed copies, supplied by the caller.
func (c *Chip) statusByte(brk bool) uint8 {
	var p uint8
	if c.N {
		p |= 0x80
	}
	if c.V {
		p |= 0x40
	}
	p |= 0x20
	if brk {
		p |= 0x10
	}
	if c.D {
		p |= 0x08
	}
	if c.I {
		p |= 0x04
	}
	if c.Z {
		p |= 0x02
	}
	if c.C {
		p |= 0x01
	}
	return p
}

// setStatusByte unpacks a pulled status byte into the flags. Bits 4 and 5
// are ignored per PLP/RTI semantics.
func (c *Chip) setStatusByte(p uint8) {
	c.N = p&0x80 != 0
	c.V = p&0x40 != 0
	c.D = p&0x08 != 0
	c.I = p&0x04 != 0
	c.Z = p&0x02 != 0
	c.C = p&0x01 != 0
}

// zeroCheck sets Z from reg.
func (c *Chip) zeroCheck(reg uint8) {
	c.Z = reg == 0
}

// negativeCheck sets N from reg's bit 7.
func (c *Chip) negativeCheck(reg uint8) {
	c.N = reg&0x80 != 0
}

// carryCheck sets C if an 8-bit ALU result (carried as 16 bits) overflowed.
func (c *Chip) carryCheck(res uint16) {
	c.C = res >= 0x100
}

// overflowCheck sets V if the ALU operation caused a two's-complement sign
// change, per the usual (reg^res)&(arg^res)&0x80 derivation.
func (c *Chip) overflowCheck(reg, arg, res uint8) {
	c.V = (reg^res)&(arg^res)&0x80 != 0
}

// updateZN sets both Z and N from v, the common case for load/transfer/ALU
// instructions that don't touch C or V.
func (c *Chip) updateZN(v uint8) {
	c.zeroCheck(v)
	c.negativeCheck(v)
}

// --- addressing modes ---
// Each resolves an effective address, consuming the operand bytes; the
// indexed modes also report whether the index crossed a page boundary.
// Immediate operands are read directly with fetch.

func (c *Chip) addrZP() uint16 { return uint16(c.fetch()) }

func (c *Chip) addrZPX() uint16 { return uint16(uint8(c.fetch() + c.X)) }

func (c *Chip) addrZPY() uint16 { return uint16(uint8(c.fetch() + c.Y)) }

func (c *Chip) addrAbs() uint16 { return c.fetchWord() }

func (c *Chip) addrAbsX() (uint16, bool) {
	base := c.fetchWord()
	eff := base + uint16(c.X)
	return eff, base&0xFF00 != eff&0xFF00
}

func (c *Chip) addrAbsY() (uint16, bool) {
	base := c.fetchWord()
	eff := base + uint16(c.Y)
	return eff, base&0xFF00 != eff&0xFF00
}

// addrIndirect resolves JMP's (addr) operand, reproducing the 6502 page-wrap
// bug: when the pointer's low byte is $FF the high byte is fetched from
// (ptr & $FF00) instead of ptr+1.
func (c *Chip) addrIndirect() uint16 {
	ptr := c.fetchWord()
	lo := c.bus.Read(ptr)
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := c.bus.Read(hiAddr)
	return uint16(lo) | uint16(hi)<<8
}

// addrIndirectX resolves (zp,X): the pointer itself wraps in zero page.
func (c *Chip) addrIndirectX() uint16 {
	ptr := uint8(c.fetch() + c.X)
	lo := c.bus.Read(uint16(ptr))
	hi := c.bus.Read(uint16(uint8(ptr + 1)))
	return uint16(lo) | uint16(hi)<<8
}

// addrIndirectY resolves (zp),Y: the base pointer wraps in zero page, then Y
// is added to the fetched 16-bit base.
func (c *Chip) addrIndirectY() (uint16, bool) {
	zp := c.fetch()
	lo := c.bus.Read(uint16(zp))
	hi := c.bus.Read(uint16(uint8(zp + 1)))
	base := uint16(lo) | uint16(hi)<<8
	eff := base + uint16(c.Y)
	return eff, base&0xFF00 != eff&0xFF00
}

// --- ALU operations ---

func (c *Chip) adc(v uint8) {
	if c.D {
		c.adcDecimal(v)
		return
	}
	old := c.A
	var carryIn uint16
	if c.C {
		carryIn = 1
	}
	t := uint16(old) + uint16(v) + carryIn
	res := uint8(t)
	c.carryCheck(t)
	c.overflowCheck(old, v, res)
	c.A = res
	c.updateZN(c.A)
}

// adcDecimal performs nibble-wise BCD addition with carry propagation. Z and
// N are set from the resulting byte; V is defined as 0, a documented
// simplification for this core.
func (c *Chip) adcDecimal(v uint8) {
	carryIn := uint8(0)
	if c.C {
		carryIn = 1
	}
	lo := (c.A & 0x0F) + (v & 0x0F) + carryIn
	var carryLo uint8
	if lo > 9 {
		lo = (lo + 6) & 0x0F
		carryLo = 1
	}
	hi := (c.A >> 4) + (v >> 4) + carryLo
	if hi > 9 {
		hi = (hi + 6) & 0x0F
		c.C = true
	} else {
		c.C = false
	}
	res := (hi << 4) | lo
	c.A = res
	c.V = false
	c.updateZN(c.A)
}

// sbc is ADC with the operand's bits inverted, the standard 6502 identity.
func (c *Chip) sbc(v uint8) {
	if c.D {
		c.sbcDecimal(v)
		return
	}
	c.adc(v ^ 0xFF)
}

// sbcDecimal performs nibble-wise BCD subtraction with borrow propagation.
func (c *Chip) sbcDecimal(v uint8) {
	borrow := uint8(0)
	if !c.C {
		borrow = 1
	}
	aLo, aHi := c.A&0x0F, c.A>>4
	vLo, vHi := v&0x0F, v>>4

	loResult := int8(aLo) - int8(vLo) - int8(borrow)
	var borrowLo uint8
	if loResult < 0 {
		loResult += 10
		borrowLo = 1
	}

	hiResult := int8(aHi) - int8(vHi) - int8(borrowLo)
	if hiResult < 0 {
		hiResult += 10
		c.C = false
	} else {
		c.C = true
	}

	res := (uint8(hiResult) << 4) | uint8(loResult)
	c.A = res
	c.V = false
	c.updateZN(c.A)
}

func (c *Chip) compare(reg, v uint8) {
	c.C = reg >= v
	c.Z = reg == v
	c.N = (reg-v)&0x80 != 0
}

func (c *Chip) shiftASL(v uint8) uint8 {
	c.C = v&0x80 != 0
	res := v << 1
	c.updateZN(res)
	return res
}

func (c *Chip) shiftLSR(v uint8) uint8 {
	c.C = v&0x01 != 0
	res := v >> 1
	c.updateZN(res)
	return res
}

func (c *Chip) rotateROL(v uint8) uint8 {
	oldCarry := c.C
	c.C = v&0x80 != 0
	res := v << 1
	if oldCarry {
		res |= 0x01
	}
	c.updateZN(res)
	return res
}

func (c *Chip) rotateROR(v uint8) uint8 {
	oldCarry := c.C
	c.C = v&0x01 != 0
	res := v >> 1
	if oldCarry {
		res |= 0x80
	}
	c.updateZN(res)
	return res
}

// --- interrupt sequencing ---

// runInterrupt performs the shared push/vector sequence for NMI and IRQ:
// push PC, push status with B=0, set I, load PC from vector. Returns the
// fixed 7-cycle cost.
func (c *Chip) runInterrupt(vector uint16) int {
	c.pushWord(c.PC)
	c.push(c.statusByte(false))
	c.I = true
	c.PC = c.readWord(vector)
	return 7
}

// checkInterrupts samples NMI and IRQ before the next fetch. NMI wins if
// both are pending. Returns the cycles consumed and whether an interrupt
// was taken (in which case the caller skips the normal fetch/dispatch).
func (c *Chip) checkInterrupts() (int, bool) {
	if c.NMIPending {
		c.NMIPending = false
		return c.runInterrupt(NMIVector), true
	}
	if c.IRQPending && !c.I {
		c.IRQPending = false
		return c.runInterrupt(IRQVector), true
	}
	return 0, false
}

// Step executes exactly one instruction (or one interrupt entry) and
// returns the number of cycles it took. Unknown opcodes consume 2 cycles
// and have no other effect, matching the documented-opcode-only scope of
// this core.
func (c *Chip) Step() (int, error) {
	if cycles, taken := c.checkInterrupts(); taken {
		c.Cycles += uint64(cycles)
		return cycles, nil
	}

	opcode := c.fetch()
	cycles := c.dispatch(opcode)
	c.Cycles += uint64(cycles)
	return cycles, nil
}
