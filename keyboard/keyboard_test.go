package keyboard

import "testing"

func TestNewIsAllKeysUp(t *testing.T) {
	m := New()
	for row := 0; row < Rows; row++ {
		if m.ReadRow(row) != 0xFF {
			t.Errorf("row %d = %#02x, want $FF", row, m.ReadRow(row))
		}
	}
}

func TestSetClearsBitForDownKey(t *testing.T) {
	m := New()
	m.Set(2, 3, true)
	want := uint8(0xFF &^ (1 << 3))
	if got := m.ReadRow(2); got != want {
		t.Errorf("row 2 = %#02x, want %#02x", got, want)
	}
	m.Set(2, 3, false)
	if got := m.ReadRow(2); got != 0xFF {
		t.Errorf("row 2 after release = %#02x, want $FF", got)
	}
}

func TestSetIgnoresOutOfRange(t *testing.T) {
	m := New()
	m.Set(Rows, 0, true)
	m.Set(0, Cols, true)
	if m.ReadRow(0) != 0xFF {
		t.Error("out-of-range Set mutated row 0")
	}
}

func TestReadRowOutOfRangeReturnsAllUp(t *testing.T) {
	m := New()
	if got := m.ReadRow(-1); got != 0xFF {
		t.Errorf("ReadRow(-1) = %#02x, want $FF", got)
	}
	if got := m.ReadRow(Rows); got != 0xFF {
		t.Errorf("ReadRow(Rows) = %#02x, want $FF", got)
	}
}

func TestSetNamedLooksUpPosition(t *testing.T) {
	m := New()
	if !m.SetNamed("RETURN", true) {
		t.Fatal("SetNamed(RETURN) returned false")
	}
	pos := Named["RETURN"]
	want := uint8(0xFF &^ (1 << uint(pos.Col)))
	if got := m.ReadRow(pos.Row); got != want {
		t.Errorf("row %d = %#02x, want %#02x", pos.Row, got, want)
	}
}

func TestSetNamedUnknownReturnsFalse(t *testing.T) {
	m := New()
	if m.SetNamed("NOSUCHKEY", true) {
		t.Error("SetNamed with unknown name should return false")
	}
}

func TestResetRestoresAllKeysUp(t *testing.T) {
	m := New()
	m.Set(0, 0, true)
	m.Set(9, 3, true)
	m.Reset()
	for row := 0; row < Rows; row++ {
		if m.ReadRow(row) != 0xFF {
			t.Errorf("row %d after Reset = %#02x, want $FF", row, m.ReadRow(row))
		}
	}
}
