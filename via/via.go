// Package via implements a 6522-style Versatile Interface Adapter: two
// bidirectional 8-bit ports with data-direction masking, a free-running
// Timer-1, a one-shot Timer-2, and an interrupt-flag/enable pair feeding the
// CPU's IRQ line through the irq.Sender interface.
package via

import (
	"fmt"

	"github.com/pet6502/core/irq"
)

// Bit positions within IFR/IER.
const (
	ifrT2  = 1 << 5
	ifrT1  = 1 << 6
	ifrAny = 1 << 7
)

// Chip is a single 6522 VIA instance. The zero value has all registers
// cleared and no port callbacks, which is what New returns.
type Chip struct {
	ora, orb   uint8
	ddra, ddrb uint8

	t1Counter, t1Latch uint16
	t2Counter          uint16

	shift uint8

	ifr, ier uint8

	// ReadA/ReadB supply the external bus state ORed in under ~DDR for each
	// port; WriteA/WriteB receive the masked output latch whenever the
	// corresponding OR register is written. Any may be left nil.
	ReadA, ReadB   func() uint8
	WriteA, WriteB func(v uint8)

	// debug, if true, makes Debug() emit a line of register state instead
	// of an empty string.
	debug bool
}

// SetDebug turns Debug()'s output on or off.
func (c *Chip) SetDebug(on bool) { c.debug = on }

// New returns a VIA chip with all registers zeroed, matching a cold power-on.
func New() *Chip {
	return &Chip{}
}

func (c *Chip) extA() uint8 {
	if c.ReadA != nil {
		return c.ReadA()
	}
	return 0
}

func (c *Chip) extB() uint8 {
	if c.ReadB != nil {
		return c.ReadB()
	}
	return 0
}

// Read implements the register map from §4.3 at the given 0-15 offset.
func (c *Chip) Read(off uint8) uint8 {
	switch off & 0x0F {
	case 0x0:
		return (c.orb & c.ddrb) | (c.extB() &^ c.ddrb)
	case 0x1:
		return (c.ora & c.ddra) | (c.extA() &^ c.ddra)
	case 0x2:
		return c.ddrb
	case 0x3:
		return c.ddra
	case 0x4:
		return uint8(c.t1Counter)
	case 0x5:
		return uint8(c.t1Counter >> 8)
	case 0x6:
		return uint8(c.t1Latch)
	case 0x7:
		return uint8(c.t1Latch >> 8)
	case 0x8:
		return uint8(c.t2Counter)
	case 0x9:
		return uint8(c.t2Counter >> 8)
	case 0xA:
		return c.shift
	case 0xD:
		return c.ifr
	case 0xE:
		return c.ier
	default:
		return 0
	}
}

// Write implements the register map from §4.3 at the given 0-15 offset.
func (c *Chip) Write(off uint8, v uint8) {
	switch off & 0x0F {
	case 0x0:
		c.orb = v
		if c.WriteB != nil {
			c.WriteB(v & c.ddrb)
		}
	case 0x1:
		c.ora = v
		if c.WriteA != nil {
			c.WriteA(v & c.ddra)
		}
	case 0x2:
		c.ddrb = v
	case 0x3:
		c.ddra = v
	case 0x4:
		c.t1Latch = (c.t1Latch &^ 0x00FF) | uint16(v)
	case 0x5:
		c.t1Latch = (c.t1Latch &^ 0xFF00) | uint16(v)<<8
		c.t1Counter = c.t1Latch
		c.ifr &^= ifrT1
		c.updateIFRSummary()
	case 0x6:
		c.t1Latch = (c.t1Latch &^ 0x00FF) | uint16(v)
	case 0x7:
		c.t1Latch = (c.t1Latch &^ 0xFF00) | uint16(v)<<8
	case 0x8:
		c.t2Counter = (c.t2Counter &^ 0x00FF) | uint16(v)
	case 0x9:
		c.t2Counter = (c.t2Counter &^ 0xFF00) | uint16(v)<<8
		c.ifr &^= ifrT2
		c.updateIFRSummary()
	case 0xA:
		c.shift = v
	case 0xD:
		// Write-1-to-clear: each set bit in v clears the matching IFR bit.
		c.ifr &^= v
		c.updateIFRSummary()
	case 0xE:
		if v&0x80 != 0 {
			c.ier |= v & 0x7F
		} else {
			c.ier &^= v & 0x7F
		}
	}
}

// updateIFRSummary recomputes IFR bit 7, the "any enabled flag set" summary.
func (c *Chip) updateIFRSummary() {
	if c.ifr&c.ier&0x7F != 0 {
		c.ifr |= ifrAny
	} else {
		c.ifr &^= ifrAny
	}
}

// UpdateTimers advances both timers by cycles executed cycles and returns
// whether the VIA is now asserting its interrupt line. Timer-1 is free
// running: on expiry it reloads from the latch and re-arms. Timer-2 is
// one-shot: on expiry it sticks at zero until reloaded by a register write.
func (c *Chip) UpdateTimers(cycles int) bool {
	if cycles < 0 {
		cycles = 0
	}
	n := uint16(cycles)

	if c.t1Counter > 0 {
		if c.t1Counter <= n {
			c.ifr |= ifrT1
			c.t1Counter = c.t1Latch
		} else {
			c.t1Counter -= n
		}
	}

	if c.t2Counter > 0 {
		if c.t2Counter <= n {
			c.ifr |= ifrT2
			c.t2Counter = 0
		} else {
			c.t2Counter -= n
		}
	}

	c.updateIFRSummary()
	return c.Raised()
}

// Raised implements irq.Sender: the VIA asserts IRQ whenever an enabled
// interrupt flag is set.
func (c *Chip) Raised() bool {
	return c.ifr&ifrAny != 0
}

// Debug returns a line of timer/flag state if debug output is enabled via
// SetDebug, else "".
func (c *Chip) Debug() string {
	if c.debug {
		return fmt.Sprintf("t1: %.4X t2: %.4X ifr: %.2X ier: %.2X\n",
			c.t1Counter, c.t2Counter, c.ifr, c.ier)
	}
	return ""
}

var _ irq.Sender = (*Chip)(nil)
