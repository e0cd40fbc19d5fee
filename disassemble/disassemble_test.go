package disassemble

import (
	"strings"
	"testing"

	"github.com/pet6502/core/bus"
)

func TestStepImmediateLoad(t *testing.T) {
	b := bus.New()
	b.Write(0x0200, 0xA9)
	b.Write(0x0201, 0x42)
	line, count := Step(0x0200, b)
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if !strings.Contains(line, "LDA") || !strings.Contains(line, "#$42") {
		t.Errorf("line = %q, want mnemonic LDA and operand #$42", line)
	}
}

func TestStepAbsoluteJMP(t *testing.T) {
	b := bus.New()
	b.Write(0x0300, 0x4C)
	b.Write(0x0301, 0x00)
	b.Write(0x0302, 0x40)
	line, count := Step(0x0300, b)
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if !strings.Contains(line, "JMP") || !strings.Contains(line, "$4000") {
		t.Errorf("line = %q, want mnemonic JMP and operand $4000", line)
	}
}

func TestStepUnknownOpcode(t *testing.T) {
	b := bus.New()
	b.Write(0x0400, 0x02) // undocumented HLT-family opcode
	line, count := Step(0x0400, b)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if !strings.Contains(line, "???") {
		t.Errorf("line = %q, want ??? for undocumented opcode", line)
	}
}
