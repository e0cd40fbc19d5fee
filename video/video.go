// Package video implements the PET's character-cell video buffer: a plain
// byte matrix the CPU pokes PETSCII codes into. Rendering glyphs on screen
// is a host concern (see cmd/petrun); this package only tracks storage and
// a dirty flag.
package video

// Buffer is a width x height matrix of PETSCII byte codes.
type Buffer struct {
	width, height int
	cells         []uint8
	dirty         bool
}

// New returns a Buffer of the given dimensions, already Clear()ed.
func New(width, height int) *Buffer {
	b := &Buffer{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
	}
	b.Clear()
	return b
}

// Width returns the number of columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer) Height() int { return b.height }

// Read returns the byte stored at the linear offset (row*width + col).
// Offsets outside the buffer return 0.
func (b *Buffer) Read(offset int) uint8 {
	if offset < 0 || offset >= len(b.cells) {
		return 0
	}
	return b.cells[offset]
}

// Write stores val at the linear offset. Per §3, writing a byte equal to
// the byte already there does not raise the dirty flag; any differing
// write does.
func (b *Buffer) Write(offset int, val uint8) {
	if offset < 0 || offset >= len(b.cells) {
		return
	}
	if b.cells[offset] == val {
		return
	}
	b.cells[offset] = val
	b.dirty = true
}

// Clear resets every cell to $20 (space) and marks the buffer dirty.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = 0x20
	}
	b.dirty = true
}

// Dirty reports whether the buffer has changed since the last Snapshot.
func (b *Buffer) Dirty() bool { return b.dirty }

// Snapshot returns a copy of the buffer's bytes, its dimensions, and
// whether it was dirty, then clears the dirty flag. Matches the
// host-facing snapshot_video() contract from §6.
func (b *Buffer) Snapshot() (cells []uint8, width, height int, dirty bool) {
	cells = make([]uint8, len(b.cells))
	copy(cells, b.cells)
	dirty = b.dirty
	b.dirty = false
	return cells, b.width, b.height, dirty
}
