package bus

import "testing"

func TestRAMReadWrite(t *testing.T) {
	b := New()
	b.Write(0x1234, 0x42)
	if got, want := b.Read(0x1234), uint8(0x42); got != want {
		t.Errorf("Read(0x1234) = %#02x, want %#02x", got, want)
	}
}

func TestReadWordWraps(t *testing.T) {
	b := New()
	b.Write(0xFFFF, 0x34)
	b.Write(0x0000, 0x12)
	if got, want := b.ReadWord(0xFFFF), uint16(0x1234); got != want {
		t.Errorf("ReadWord(0xFFFF) = %#04x, want %#04x", got, want)
	}
}

func TestROMOverlayBlocksWrites(t *testing.T) {
	b := New()
	rom := []uint8{0xAA, 0xBB, 0xCC}
	if err := b.LoadROM(0xC000, rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if got, want := b.Read(0xC001), uint8(0xBB); got != want {
		t.Errorf("Read(0xC001) = %#02x, want %#02x", got, want)
	}
	b.Write(0xC001, 0x99)
	if got, want := b.Read(0xC001), uint8(0xBB); got != want {
		t.Errorf("write to ROM overlay mutated it: Read(0xC001) = %#02x, want %#02x", got, want)
	}
}

func TestOverlappingOverlaysLastWins(t *testing.T) {
	b := New()
	if err := b.LoadROM(0xC000, []uint8{0x11, 0x11}); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if err := b.LoadROM(0xC000, []uint8{0x22, 0x22}); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if got, want := b.Read(0xC000), uint8(0x22); got != want {
		t.Errorf("Read(0xC000) = %#02x, want %#02x (last-registered overlay should win)", got, want)
	}
}

func TestInvalidROMRegistration(t *testing.T) {
	b := New()
	if err := b.LoadROM(0x0000, nil); err == nil {
		t.Error("LoadROM with zero-length image: got nil error, want InvalidROM")
	}
	if err := b.LoadROM(0xFFFE, []uint8{1, 2, 3}); err == nil {
		t.Error("LoadROM crossing $FFFF: got nil error, want InvalidROM")
	}
}

func TestIOReadBypassesROMAndRAM(t *testing.T) {
	b := New()
	if err := b.LoadROM(0x8000, []uint8{0x20}); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	b.RegisterIO(0x8000, func(uint16) uint8 { return 0x55 }, nil)
	if got, want := b.Read(0x8000), uint8(0x55); got != want {
		t.Errorf("Read(0x8000) = %#02x, want %#02x (I/O callback should win over ROM)", got, want)
	}
}

func TestIOWriteDoesNotTouchRAM(t *testing.T) {
	b := New()
	var seen uint8
	b.ram[0x0200] = 0x00
	b.RegisterIO(0x0200, nil, func(_ uint16, val uint8) { seen = val })
	b.Write(0x0200, 0x7F)
	if seen != 0x7F {
		t.Errorf("write callback saw %#02x, want 0x7F", seen)
	}
	if b.ram[0x0200] != 0x00 {
		t.Errorf("RAM at 0x0200 = %#02x after I/O write, want 0x00 (untouched)", b.ram[0x0200])
	}
}

func TestRegisterIORange(t *testing.T) {
	b := New()
	var buf [8]uint8
	b.RegisterIORange(0x9000, 0x9007,
		func(addr uint16) uint8 { return buf[addr-0x9000] },
		func(addr uint16, val uint8) { buf[addr-0x9000] = val })
	b.Write(0x9003, 0xAB)
	if got, want := b.Read(0x9003), uint8(0xAB); got != want {
		t.Errorf("Read(0x9003) = %#02x, want %#02x", got, want)
	}
	if got, want := b.Read(0x9000), uint8(0x00); got != want {
		t.Errorf("Read(0x9000) = %#02x, want %#02x", got, want)
	}
}
