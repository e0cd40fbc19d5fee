package cpu

// dispatch decodes a single opcode byte, executes it, and returns the
// number of cycles it took. Only the documented 6502 opcodes are handled;
// anything else falls through to the default 2-cycle no-op.
func (c *Chip) dispatch(opcode uint8) int {
	switch opcode {

	// --- ADC ---
	case 0x69:
		c.adc(c.fetch())
		return 2
	case 0x65:
		c.adc(c.bus.Read(c.addrZP()))
		return 3
	case 0x75:
		c.adc(c.bus.Read(c.addrZPX()))
		return 4
	case 0x6D:
		c.adc(c.bus.Read(c.addrAbs()))
		return 4
	case 0x7D:
		a, crossed := c.addrAbsX()
		c.adc(c.bus.Read(a))
		return 4 + extra(crossed)
	case 0x79:
		a, crossed := c.addrAbsY()
		c.adc(c.bus.Read(a))
		return 4 + extra(crossed)
	case 0x61:
		c.adc(c.bus.Read(c.addrIndirectX()))
		return 6
	case 0x71:
		a, crossed := c.addrIndirectY()
		c.adc(c.bus.Read(a))
		return 5 + extra(crossed)

	// --- SBC ---
	case 0xE9:
		c.sbc(c.fetch())
		return 2
	case 0xE5:
		c.sbc(c.bus.Read(c.addrZP()))
		return 3
	case 0xF5:
		c.sbc(c.bus.Read(c.addrZPX()))
		return 4
	case 0xED:
		c.sbc(c.bus.Read(c.addrAbs()))
		return 4
	case 0xFD:
		a, crossed := c.addrAbsX()
		c.sbc(c.bus.Read(a))
		return 4 + extra(crossed)
	case 0xF9:
		a, crossed := c.addrAbsY()
		c.sbc(c.bus.Read(a))
		return 4 + extra(crossed)
	case 0xE1:
		c.sbc(c.bus.Read(c.addrIndirectX()))
		return 6
	case 0xF1:
		a, crossed := c.addrIndirectY()
		c.sbc(c.bus.Read(a))
		return 5 + extra(crossed)

	// --- AND ---
	case 0x29:
		c.A &= c.fetch()
		c.updateZN(c.A)
		return 2
	case 0x25:
		c.A &= c.bus.Read(c.addrZP())
		c.updateZN(c.A)
		return 3
	case 0x35:
		c.A &= c.bus.Read(c.addrZPX())
		c.updateZN(c.A)
		return 4
	case 0x2D:
		c.A &= c.bus.Read(c.addrAbs())
		c.updateZN(c.A)
		return 4
	case 0x3D:
		a, crossed := c.addrAbsX()
		c.A &= c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0x39:
		a, crossed := c.addrAbsY()
		c.A &= c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0x21:
		c.A &= c.bus.Read(c.addrIndirectX())
		c.updateZN(c.A)
		return 6
	case 0x31:
		a, crossed := c.addrIndirectY()
		c.A &= c.bus.Read(a)
		c.updateZN(c.A)
		return 5 + extra(crossed)

	// --- ORA ---
	case 0x09:
		c.A |= c.fetch()
		c.updateZN(c.A)
		return 2
	case 0x05:
		c.A |= c.bus.Read(c.addrZP())
		c.updateZN(c.A)
		return 3
	case 0x15:
		c.A |= c.bus.Read(c.addrZPX())
		c.updateZN(c.A)
		return 4
	case 0x0D:
		c.A |= c.bus.Read(c.addrAbs())
		c.updateZN(c.A)
		return 4
	case 0x1D:
		a, crossed := c.addrAbsX()
		c.A |= c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0x19:
		a, crossed := c.addrAbsY()
		c.A |= c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0x01:
		c.A |= c.bus.Read(c.addrIndirectX())
		c.updateZN(c.A)
		return 6
	case 0x11:
		a, crossed := c.addrIndirectY()
		c.A |= c.bus.Read(a)
		c.updateZN(c.A)
		return 5 + extra(crossed)

	// --- EOR ---
	case 0x49:
		c.A ^= c.fetch()
		c.updateZN(c.A)
		return 2
	case 0x45:
		c.A ^= c.bus.Read(c.addrZP())
		c.updateZN(c.A)
		return 3
	case 0x55:
		c.A ^= c.bus.Read(c.addrZPX())
		c.updateZN(c.A)
		return 4
	case 0x4D:
		c.A ^= c.bus.Read(c.addrAbs())
		c.updateZN(c.A)
		return 4
	case 0x5D:
		a, crossed := c.addrAbsX()
		c.A ^= c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0x59:
		a, crossed := c.addrAbsY()
		c.A ^= c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0x41:
		c.A ^= c.bus.Read(c.addrIndirectX())
		c.updateZN(c.A)
		return 6
	case 0x51:
		a, crossed := c.addrIndirectY()
		c.A ^= c.bus.Read(a)
		c.updateZN(c.A)
		return 5 + extra(crossed)

	// --- CMP ---
	case 0xC9:
		c.compare(c.A, c.fetch())
		return 2
	case 0xC5:
		c.compare(c.A, c.bus.Read(c.addrZP()))
		return 3
	case 0xD5:
		c.compare(c.A, c.bus.Read(c.addrZPX()))
		return 4
	case 0xCD:
		c.compare(c.A, c.bus.Read(c.addrAbs()))
		return 4
	case 0xDD:
		a, crossed := c.addrAbsX()
		c.compare(c.A, c.bus.Read(a))
		return 4 + extra(crossed)
	case 0xD9:
		a, crossed := c.addrAbsY()
		c.compare(c.A, c.bus.Read(a))
		return 4 + extra(crossed)
	case 0xC1:
		c.compare(c.A, c.bus.Read(c.addrIndirectX()))
		return 6
	case 0xD1:
		a, crossed := c.addrIndirectY()
		c.compare(c.A, c.bus.Read(a))
		return 5 + extra(crossed)

	// --- CPX / CPY ---
	case 0xE0:
		c.compare(c.X, c.fetch())
		return 2
	case 0xE4:
		c.compare(c.X, c.bus.Read(c.addrZP()))
		return 3
	case 0xEC:
		c.compare(c.X, c.bus.Read(c.addrAbs()))
		return 4
	case 0xC0:
		c.compare(c.Y, c.fetch())
		return 2
	case 0xC4:
		c.compare(c.Y, c.bus.Read(c.addrZP()))
		return 3
	case 0xCC:
		c.compare(c.Y, c.bus.Read(c.addrAbs()))
		return 4

	// --- BIT ---
	case 0x24:
		v := c.bus.Read(c.addrZP())
		c.Z = c.A&v == 0
		c.V = v&0x40 != 0
		c.N = v&0x80 != 0
		return 3
	case 0x2C:
		v := c.bus.Read(c.addrAbs())
		c.Z = c.A&v == 0
		c.V = v&0x40 != 0
		c.N = v&0x80 != 0
		return 4

	// --- LDA ---
	case 0xA9:
		c.A = c.fetch()
		c.updateZN(c.A)
		return 2
	case 0xA5:
		c.A = c.bus.Read(c.addrZP())
		c.updateZN(c.A)
		return 3
	case 0xB5:
		c.A = c.bus.Read(c.addrZPX())
		c.updateZN(c.A)
		return 4
	case 0xAD:
		c.A = c.bus.Read(c.addrAbs())
		c.updateZN(c.A)
		return 4
	case 0xBD:
		a, crossed := c.addrAbsX()
		c.A = c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0xB9:
		a, crossed := c.addrAbsY()
		c.A = c.bus.Read(a)
		c.updateZN(c.A)
		return 4 + extra(crossed)
	case 0xA1:
		c.A = c.bus.Read(c.addrIndirectX())
		c.updateZN(c.A)
		return 6
	case 0xB1:
		a, crossed := c.addrIndirectY()
		c.A = c.bus.Read(a)
		c.updateZN(c.A)
		return 5 + extra(crossed)

	// --- LDX ---
	case 0xA2:
		c.X = c.fetch()
		c.updateZN(c.X)
		return 2
	case 0xA6:
		c.X = c.bus.Read(c.addrZP())
		c.updateZN(c.X)
		return 3
	case 0xB6:
		c.X = c.bus.Read(c.addrZPY())
		c.updateZN(c.X)
		return 4
	case 0xAE:
		c.X = c.bus.Read(c.addrAbs())
		c.updateZN(c.X)
		return 4
	case 0xBE:
		a, crossed := c.addrAbsY()
		c.X = c.bus.Read(a)
		c.updateZN(c.X)
		return 4 + extra(crossed)

	// --- LDY ---
	case 0xA0:
		c.Y = c.fetch()
		c.updateZN(c.Y)
		return 2
	case 0xA4:
		c.Y = c.bus.Read(c.addrZP())
		c.updateZN(c.Y)
		return 3
	case 0xB4:
		c.Y = c.bus.Read(c.addrZPX())
		c.updateZN(c.Y)
		return 4
	case 0xAC:
		c.Y = c.bus.Read(c.addrAbs())
		c.updateZN(c.Y)
		return 4
	case 0xBC:
		a, crossed := c.addrAbsX()
		c.Y = c.bus.Read(a)
		c.updateZN(c.Y)
		return 4 + extra(crossed)

	// --- STA / STX / STY ---
	case 0x85:
		c.bus.Write(c.addrZP(), c.A)
		return 3
	case 0x95:
		c.bus.Write(c.addrZPX(), c.A)
		return 4
	case 0x8D:
		c.bus.Write(c.addrAbs(), c.A)
		return 4
	case 0x9D:
		a, _ := c.addrAbsX()
		c.bus.Write(a, c.A)
		return 5
	case 0x99:
		a, _ := c.addrAbsY()
		c.bus.Write(a, c.A)
		return 5
	case 0x81:
		c.bus.Write(c.addrIndirectX(), c.A)
		return 6
	case 0x91:
		a, _ := c.addrIndirectY()
		c.bus.Write(a, c.A)
		return 6
	case 0x86:
		c.bus.Write(c.addrZP(), c.X)
		return 3
	case 0x96:
		c.bus.Write(c.addrZPY(), c.X)
		return 4
	case 0x8E:
		c.bus.Write(c.addrAbs(), c.X)
		return 4
	case 0x84:
		c.bus.Write(c.addrZP(), c.Y)
		return 3
	case 0x94:
		c.bus.Write(c.addrZPX(), c.Y)
		return 4
	case 0x8C:
		c.bus.Write(c.addrAbs(), c.Y)
		return 4

	// --- shifts / rotates ---
	case 0x0A:
		c.A = c.shiftASL(c.A)
		return 2
	case 0x06:
		a := c.addrZP()
		c.bus.Write(a, c.shiftASL(c.bus.Read(a)))
		return 5
	case 0x16:
		a := c.addrZPX()
		c.bus.Write(a, c.shiftASL(c.bus.Read(a)))
		return 6
	case 0x0E:
		a := c.addrAbs()
		c.bus.Write(a, c.shiftASL(c.bus.Read(a)))
		return 6
	case 0x1E:
		a, _ := c.addrAbsX()
		c.bus.Write(a, c.shiftASL(c.bus.Read(a)))
		return 7
	case 0x4A:
		c.A = c.shiftLSR(c.A)
		return 2
	case 0x46:
		a := c.addrZP()
		c.bus.Write(a, c.shiftLSR(c.bus.Read(a)))
		return 5
	case 0x56:
		a := c.addrZPX()
		c.bus.Write(a, c.shiftLSR(c.bus.Read(a)))
		return 6
	case 0x4E:
		a := c.addrAbs()
		c.bus.Write(a, c.shiftLSR(c.bus.Read(a)))
		return 6
	case 0x5E:
		a, _ := c.addrAbsX()
		c.bus.Write(a, c.shiftLSR(c.bus.Read(a)))
		return 7
	case 0x2A:
		c.A = c.rotateROL(c.A)
		return 2
	case 0x26:
		a := c.addrZP()
		c.bus.Write(a, c.rotateROL(c.bus.Read(a)))
		return 5
	case 0x36:
		a := c.addrZPX()
		c.bus.Write(a, c.rotateROL(c.bus.Read(a)))
		return 6
	case 0x2E:
		a := c.addrAbs()
		c.bus.Write(a, c.rotateROL(c.bus.Read(a)))
		return 6
	case 0x3E:
		a, _ := c.addrAbsX()
		c.bus.Write(a, c.rotateROL(c.bus.Read(a)))
		return 7
	case 0x6A:
		c.A = c.rotateROR(c.A)
		return 2
	case 0x66:
		a := c.addrZP()
		c.bus.Write(a, c.rotateROR(c.bus.Read(a)))
		return 5
	case 0x76:
		a := c.addrZPX()
		c.bus.Write(a, c.rotateROR(c.bus.Read(a)))
		return 6
	case 0x6E:
		a := c.addrAbs()
		c.bus.Write(a, c.rotateROR(c.bus.Read(a)))
		return 6
	case 0x7E:
		a, _ := c.addrAbsX()
		c.bus.Write(a, c.rotateROR(c.bus.Read(a)))
		return 7

	// --- INC / DEC ---
	case 0xE6:
		a := c.addrZP()
		v := c.bus.Read(a) + 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 5
	case 0xF6:
		a := c.addrZPX()
		v := c.bus.Read(a) + 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 6
	case 0xEE:
		a := c.addrAbs()
		v := c.bus.Read(a) + 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 6
	case 0xFE:
		a, _ := c.addrAbsX()
		v := c.bus.Read(a) + 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 7
	case 0xC6:
		a := c.addrZP()
		v := c.bus.Read(a) - 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 5
	case 0xD6:
		a := c.addrZPX()
		v := c.bus.Read(a) - 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 6
	case 0xCE:
		a := c.addrAbs()
		v := c.bus.Read(a) - 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 6
	case 0xDE:
		a, _ := c.addrAbsX()
		v := c.bus.Read(a) - 1
		c.bus.Write(a, v)
		c.updateZN(v)
		return 7
	case 0xE8:
		c.X++
		c.updateZN(c.X)
		return 2
	case 0xC8:
		c.Y++
		c.updateZN(c.Y)
		return 2
	case 0xCA:
		c.X--
		c.updateZN(c.X)
		return 2
	case 0x88:
		c.Y--
		c.updateZN(c.Y)
		return 2

	// --- transfers ---
	case 0xAA:
		c.X = c.A
		c.updateZN(c.X)
		return 2
	case 0x8A:
		c.A = c.X
		c.updateZN(c.A)
		return 2
	case 0xA8:
		c.Y = c.A
		c.updateZN(c.Y)
		return 2
	case 0x98:
		c.A = c.Y
		c.updateZN(c.A)
		return 2
	case 0xBA:
		c.X = c.SP
		c.updateZN(c.X)
		return 2
	case 0x9A:
		c.SP = c.X
		return 2

	// --- stack ---
	case 0x48:
		c.push(c.A)
		return 3
	case 0x68:
		c.A = c.pop()
		c.updateZN(c.A)
		return 4
	case 0x08:
		c.push(c.statusByte(true))
		return 3
	case 0x28:
		c.setStatusByte(c.pop())
		return 4

	// --- jumps / calls ---
	case 0x4C:
		c.PC = c.addrAbs()
		return 3
	case 0x6C:
		c.PC = c.addrIndirect()
		return 5
	case 0x20:
		target := c.addrAbs()
		c.pushWord(c.PC - 1)
		c.PC = target
		return 6
	case 0x60:
		c.PC = c.popWord() + 1
		return 6
	case 0x40:
		c.setStatusByte(c.pop())
		c.PC = c.popWord()
		return 6
	case 0x00:
		return c.brk()

	// --- branches ---
	case 0x90:
		return c.branch(!c.C)
	case 0xB0:
		return c.branch(c.C)
	case 0xF0:
		return c.branch(c.Z)
	case 0xD0:
		return c.branch(!c.Z)
	case 0x30:
		return c.branch(c.N)
	case 0x10:
		return c.branch(!c.N)
	case 0x50:
		return c.branch(!c.V)
	case 0x70:
		return c.branch(c.V)

	// --- flag ops ---
	case 0x18:
		c.C = false
		return 2
	case 0x38:
		c.C = true
		return 2
	case 0x58:
		c.I = false
		return 2
	case 0x78:
		c.I = true
		return 2
	case 0xD8:
		c.D = false
		return 2
	case 0xF8:
		c.D = true
		return 2
	case 0xB8:
		c.V = false
		return 2

	case 0xEA:
		return 2

	default:
		// Undocumented opcode: per this core's scope these decode to a
		// 2-cycle no-op rather than reproducing NMOS illegal-opcode quirks.
		return 2
	}
}

// extra returns 1 if a page boundary was crossed, 0 otherwise, the uniform
// +1 cycle penalty applied to read instructions using an indexed addressing
// mode that crossed a page.
func extra(crossed bool) int {
	if crossed {
		return 1
	}
	return 0
}

// branch applies the relative branch offset when take is true. Cost is 2
// cycles, +1 if taken, +1 more if the taken branch crosses a page, matching
// the canonical 6502 branch timing.
func (c *Chip) branch(take bool) int {
	offset := int8(c.fetch())
	if !take {
		return 2
	}
	oldPC := c.PC
	newPC := uint16(int32(c.PC) + int32(offset))
	c.PC = newPC
	if oldPC&0xFF00 != newPC&0xFF00 {
		return 4
	}
	return 3
}

// brk implements the software interrupt: pushes PC+1 (the byte after the
// opcode is a signature byte the caller can inspect), pushes status with
// B=1, sets I, and vectors through the IRQ/BRK vector.
func (c *Chip) brk() int {
	c.pushWord(c.PC + 1)
	c.push(c.statusByte(true))
	c.I = true
	c.PC = c.readWord(IRQVector)
	return 7
}
