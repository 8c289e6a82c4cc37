package chip8

import "github.com/pkg/errors"

const (
	// MemorySize is the full addressable range, 0x000-0xFFF.
	MemorySize = 4096

	// ProgramStart is where ROMs load and execution begins. Everything
	// below it is reserved for the interpreter and the font glyphs.
	ProgramStart = 0x200

	// MaxRomSize is the number of bytes available to a program.
	MaxRomSize = MemorySize - ProgramStart

	// FontOffset is where the built-in hex glyphs live.
	FontOffset = 0x050

	// FontGlyphSize is the height in bytes of one hex glyph.
	FontGlyphSize = 5
)

// Memory is the machine's flat 4KB byte store.
type Memory [MemorySize]byte

// fontset holds the sixteen 4x5 hex digit sprites, one row per byte
// with the glyph in the high nibble.
var fontset = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

func (m *Memory) loadFont() {
	copy(m[FontOffset:], fontset[:])
}

// LoadProgram copies rom into program memory starting at ProgramStart.
// Memory is left untouched when the ROM does not fit.
func (m *Memory) LoadProgram(rom []byte) error {
	if len(rom) > MaxRomSize {
		return errors.Wrapf(ErrRomTooLarge, "%d bytes, limit %d", len(rom), MaxRomSize)
	}
	copy(m[ProgramStart:], rom)
	return nil
}

// ReadByte reads one byte. addr past the 4KB range is a fatal
// consistency error; no documented opcode should produce one.
func (m *Memory) ReadByte(addr uint16) (byte, error) {
	if addr >= MemorySize {
		return 0, errors.Wrapf(ErrOutOfBounds, "read at %#04x", addr)
	}
	return m[addr], nil
}

// WriteByte writes one byte, with the same bounds contract as ReadByte.
func (m *Memory) WriteByte(addr uint16, value byte) error {
	if addr >= MemorySize {
		return errors.Wrapf(ErrOutOfBounds, "write at %#04x", addr)
	}
	m[addr] = value
	return nil
}

// Range returns the n bytes starting at addr, used for sprite reads.
func (m *Memory) Range(addr, n uint16) ([]byte, error) {
	if int(addr)+int(n) > MemorySize {
		return nil, errors.Wrapf(ErrOutOfBounds, "read of %d bytes at %#04x", n, addr)
	}
	return m[addr : addr+n], nil
}
