package chip8

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// newTestMachine builds a machine with a fixed RNG seed and the given
// program loaded.
func newTestMachine(t *testing.T, rom ...byte) *Machine {
	t.Helper()
	m := New(Config{Rand: rand.New(rand.NewSource(1))})
	assert.NoError(t, m.LoadProgram(rom))
	return m
}

func steps(t *testing.T, m *Machine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, m.Step())
	}
}

func TestPowerOnState(t *testing.T) {
	m := New(Config{})

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, byte(0), m.sp)
	assert.Equal(t, byte(0), m.DelayTimer())
	assert.Equal(t, byte(0), m.SoundTimer())
	for x := byte(0); x < NumRegisters; x++ {
		assert.Equal(t, byte(0), m.Register(x))
	}
	// Font glyph for 0 sits at the font offset.
	assert.Equal(t, fontset[0], m.memory[FontOffset])
}

func TestStepAdvancesPCByTwo(t *testing.T) {
	m := newTestMachine(t, 0x6A, 0x02) // LD VA, 02

	steps(t, m, 1)

	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, byte(0x02), m.Register(0xA))
}

func TestCallThenRetRestoresPCAndSP(t *testing.T) {
	m := newTestMachine(t,
		0x22, 0x04, // 0x200: CALL 204
		0x00, 0x00, // 0x202: (never executed)
		0x00, 0xEE, // 0x204: RET
	)

	steps(t, m, 1)
	assert.Equal(t, uint16(0x204), m.PC())
	assert.Equal(t, byte(1), m.sp)

	steps(t, m, 1)
	assert.Equal(t, uint16(0x202), m.PC())
	assert.Equal(t, byte(0), m.sp)
}

func TestStackOverflow(t *testing.T) {
	m := newTestMachine(t, 0x22, 0x00) // CALL 200, forever

	steps(t, m, StackDepth)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackOverflow))
}

func TestStackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00, 0xEE) // RET with empty stack

	err := m.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
}

func TestAddRegisterCarry(t *testing.T) {
	tests := []struct {
		name     string
		va, vb   byte
		wantVA   byte
		wantFlag byte
	}{
		{"no overflow", 0x02, 0x03, 0x05, 0},
		{"overflow wraps", 0xFF, 0x02, 0x01, 1},
		{"exactly 255", 0xFE, 0x01, 0xFF, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t,
				0x6A, tt.va, // LD VA
				0x6B, tt.vb, // LD VB
				0x8A, 0xB4, // ADD VA, VB
			)
			steps(t, m, 3)

			assert.Equal(t, tt.wantVA, m.Register(0xA))
			assert.Equal(t, tt.wantFlag, m.Register(0xF))
		})
	}
}

func TestSubBorrow(t *testing.T) {
	tests := []struct {
		name     string
		va, vb   byte
		wantVA   byte
		wantFlag byte
	}{
		{"no borrow", 0x0A, 0x03, 0x07, 1},
		{"equal values", 0x05, 0x05, 0x00, 1},
		{"borrow wraps", 0x03, 0x0A, 0xF9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t,
				0x6A, tt.va,
				0x6B, tt.vb,
				0x8A, 0xB5, // SUB VA, VB
			)
			steps(t, m, 3)

			assert.Equal(t, tt.wantVA, m.Register(0xA))
			assert.Equal(t, tt.wantFlag, m.Register(0xF))
		})
	}
}

func TestSubnBorrow(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0x03,
		0x6B, 0x0A,
		0x8A, 0xB7, // SUBN VA, VB -> VA = VB - VA
	)
	steps(t, m, 3)

	assert.Equal(t, byte(0x07), m.Register(0xA))
	assert.Equal(t, byte(1), m.Register(0xF))
}

func TestShiftsModernReadVx(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0x05, // VA = 0b0000_0101
		0x8A, 0xB6, // SHR VA
	)
	steps(t, m, 2)
	assert.Equal(t, byte(0x02), m.Register(0xA))
	assert.Equal(t, byte(1), m.Register(0xF)) // bit shifted out

	m = newTestMachine(t,
		0x6A, 0x81, // VA = 0b1000_0001
		0x8A, 0xBE, // SHL VA
	)
	steps(t, m, 2)
	assert.Equal(t, byte(0x02), m.Register(0xA))
	assert.Equal(t, byte(1), m.Register(0xF))
}

func TestShiftQuirkReadsVy(t *testing.T) {
	m := New(Config{
		Quirks: Quirks{ShiftUsesVY: true},
		Rand:   rand.New(rand.NewSource(1)),
	})
	assert.NoError(t, m.LoadProgram([]byte{
		0x6A, 0xFF, // VA = FF, should be overwritten
		0x6B, 0x05, // VB = 05
		0x8A, 0xB6, // SHR VA (reads VB under the quirk)
	}))
	steps(t, m, 3)

	assert.Equal(t, byte(0x02), m.Register(0xA))
	assert.Equal(t, byte(1), m.Register(0xF))
}

func TestSkipFamilies(t *testing.T) {
	tests := []struct {
		name   string
		rom    []byte
		wantPC uint16
	}{
		{"SE byte taken", []byte{0x6A, 0x05, 0x3A, 0x05}, 0x206},
		{"SE byte not taken", []byte{0x6A, 0x05, 0x3A, 0x06}, 0x204},
		{"SNE byte taken", []byte{0x6A, 0x05, 0x4A, 0x06}, 0x206},
		{"SNE byte not taken", []byte{0x6A, 0x05, 0x4A, 0x05}, 0x204},
		{"SE reg taken", []byte{0x6A, 0x05, 0x6B, 0x05, 0x5A, 0xB0}, 0x208},
		{"SNE reg taken", []byte{0x6A, 0x05, 0x6B, 0x06, 0x9A, 0xB0}, 0x208},
		{"SNE reg not taken", []byte{0x6A, 0x05, 0x6B, 0x05, 0x9A, 0xB0}, 0x206},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.rom...)
			steps(t, m, len(tt.rom)/2)
			assert.Equal(t, tt.wantPC, m.PC())
		})
	}
}

func TestBitwiseOps(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0b1100, // VA
		0x6B, 0b1010, // VB
		0x8A, 0xB1, // OR
	)
	steps(t, m, 3)
	assert.Equal(t, byte(0b1110), m.Register(0xA))

	m = newTestMachine(t, 0x6A, 0b1100, 0x6B, 0b1010, 0x8A, 0xB2) // AND
	steps(t, m, 3)
	assert.Equal(t, byte(0b1000), m.Register(0xA))

	m = newTestMachine(t, 0x6A, 0b1100, 0x6B, 0b1010, 0x8A, 0xB3) // XOR
	steps(t, m, 3)
	assert.Equal(t, byte(0b0110), m.Register(0xA))
}

func TestJumpV0(t *testing.T) {
	m := newTestMachine(t,
		0x60, 0x05, // LD V0, 05
		0xB3, 0x00, // JP V0, 300
	)
	steps(t, m, 2)

	assert.Equal(t, uint16(0x305), m.PC())
}

func TestRndIsDeterministicWithSeededSource(t *testing.T) {
	m := newTestMachine(t, 0xC1, 0x0F) // RND V1, 0F
	want := byte(rand.New(rand.NewSource(1)).Intn(256)) & 0x0F

	steps(t, m, 1)

	assert.Equal(t, want, m.Register(0x1))
}

func TestDrawSetsCollisionFlag(t *testing.T) {
	m := newTestMachine(t,
		0xA2, 0x0A, // LD I, 20A (the sprite byte below)
		0x6A, 0x00, // VA = 0 (x)
		0x6B, 0x00, // VB = 0 (y)
		0xDA, 0xB1, // DRW VA, VB, 1
		0xDA, 0xB1, // DRW again: erases, collision
		0xFF, 0x00, // sprite data, never executed
	)

	steps(t, m, 4)
	pixels := m.Pixels()
	for x := 0; x < 8; x++ {
		assert.True(t, pixels.Pixel(x, 0))
	}
	assert.Equal(t, byte(0), m.Register(0xF))

	steps(t, m, 1)
	pixels = m.Pixels()
	for x := 0; x < 8; x++ {
		assert.False(t, pixels.Pixel(x, 0))
	}
	assert.Equal(t, byte(1), m.Register(0xF))
}

func TestTimersSetGetAndTick(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0x03, // VA = 3
		0xFA, 0x15, // LD DT, VA
		0xFA, 0x18, // LD ST, VA
		0xFB, 0x07, // LD VB, DT
	)
	steps(t, m, 3)
	assert.Equal(t, byte(3), m.DelayTimer())
	assert.Equal(t, byte(3), m.SoundTimer())
	assert.True(t, m.SoundActive())

	m.TickTimers()
	assert.Equal(t, byte(2), m.DelayTimer())
	assert.Equal(t, byte(2), m.SoundTimer())

	steps(t, m, 1)
	assert.Equal(t, byte(2), m.Register(0xB))

	m.TickTimers()
	m.TickTimers()
	assert.Equal(t, byte(0), m.DelayTimer())
	assert.False(t, m.SoundActive())

	// Expired timers stay at zero.
	m.TickTimers()
	assert.Equal(t, byte(0), m.DelayTimer())
	assert.Equal(t, byte(0), m.SoundTimer())
}

func TestWaitForKeyBlocksUntilPress(t *testing.T) {
	m := newTestMachine(t, 0xF1, 0x0A) // LD V1, K

	// The instruction parks the machine without advancing.
	for i := 0; i < 5; i++ {
		assert.NoError(t, m.Step())
		assert.Equal(t, uint16(0x200), m.PC())
		assert.Equal(t, byte(0), m.Register(0x1))
	}

	m.SetKey(0x5, true)
	steps(t, m, 1)

	assert.Equal(t, byte(0x5), m.Register(0x1))
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestSkpSknpReadKeypad(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0x04, // VA = key 4
		0xEA, 0x9E, // SKP VA
	)
	m.SetKey(0x4, true)
	steps(t, m, 2)
	assert.Equal(t, uint16(0x206), m.PC())

	m = newTestMachine(t,
		0x6A, 0x04,
		0xEA, 0xA1, // SKNP VA
	)
	steps(t, m, 2)
	assert.Equal(t, uint16(0x206), m.PC())
}

func TestAddToIndex(t *testing.T) {
	m := newTestMachine(t,
		0xA2, 0x00, // LD I, 200
		0x6A, 0x10, // VA = 10
		0xFA, 0x1E, // ADD I, VA
	)
	steps(t, m, 3)

	assert.Equal(t, uint16(0x210), m.i)
}

func TestFontCharacterAddress(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0x07, // VA = 7
		0xFA, 0x29, // LD F, VA
	)
	steps(t, m, 2)

	want := uint16(FontOffset + 7*FontGlyphSize)
	assert.Equal(t, want, m.i)
	assert.Equal(t, fontset[7*FontGlyphSize], m.memory[m.i])
}

func TestBCDStore(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 156, // VA = 156
		0xA3, 0x00, // LD I, 300
		0xFA, 0x33, // LD B, VA
	)
	steps(t, m, 3)

	assert.Equal(t, byte(1), m.memory[0x300])
	assert.Equal(t, byte(5), m.memory[0x301])
	assert.Equal(t, byte(6), m.memory[0x302])
	assert.Equal(t, uint16(0x300), m.i)
}

func TestRegisterDumpAndLoad(t *testing.T) {
	m := newTestMachine(t,
		0x60, 0x05, // V0 = 5
		0x61, 0x06, // V1 = 6
		0xA3, 0x00, // LD I, 300
		0xF1, 0x55, // LD [I], V1
		0x60, 0x00, // V0 = 0
		0x61, 0x00, // V1 = 0
		0xF1, 0x65, // LD V1, [I]
	)
	steps(t, m, 4)
	assert.Equal(t, byte(5), m.memory[0x300])
	assert.Equal(t, byte(6), m.memory[0x301])
	assert.Equal(t, uint16(0x300), m.i) // I unchanged without the quirk

	steps(t, m, 3)
	assert.Equal(t, byte(5), m.Register(0x0))
	assert.Equal(t, byte(6), m.Register(0x1))
	assert.Equal(t, uint16(0x300), m.i)
}

func TestRegisterDumpQuirkAdvancesIndex(t *testing.T) {
	m := New(Config{
		Quirks: Quirks{LoadStoreIncrementsI: true},
		Rand:   rand.New(rand.NewSource(1)),
	})
	assert.NoError(t, m.LoadProgram([]byte{
		0x60, 0x05,
		0x61, 0x06,
		0xA3, 0x00,
		0xF1, 0x55,
	}))
	steps(t, m, 4)

	assert.Equal(t, uint16(0x302), m.i)
}

func TestIllegalOpcodeIsFatal(t *testing.T) {
	m := newTestMachine(t, 0xFF, 0xFF)

	err := m.Step()
	assert.True(t, errors.Is(err, ErrIllegalOpcode))
	// PC stays on the failing instruction for diagnostics.
	assert.Equal(t, uint16(0x200), m.PC())
}

func TestFetchOutOfBounds(t *testing.T) {
	m := newTestMachine(t, 0x1F, 0xFF) // JP FFF

	steps(t, m, 1)
	assert.Equal(t, uint16(0xFFF), m.PC())

	err := m.Step()
	assert.True(t, errors.Is(err, ErrFetchOutOfBounds))
}

func TestDrawOutOfBoundsSpriteRead(t *testing.T) {
	m := newTestMachine(t,
		0xAF, 0xFF, // LD I, FFF
		0xDA, 0xB5, // DRW 5 rows from I
	)

	err := func() error {
		for {
			if err := m.Step(); err != nil {
				return err
			}
		}
	}()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestClsAndJumpLoop(t *testing.T) {
	m := newTestMachine(t,
		0x00, 0xE0, // CLS
		0x12, 0x00, // JP 200, forever
	)
	m.display[0][0] = true

	steps(t, m, 1)
	assert.False(t, m.Pixels().Pixel(0, 0))

	for i := 0; i < 10; i++ {
		steps(t, m, 2)
		assert.Equal(t, uint16(0x200), m.PC())
	}
}

func TestLoadThenAddProgram(t *testing.T) {
	m := newTestMachine(t,
		0x6A, 0x02, // LD VA, 02
		0x6B, 0x03, // LD VB, 03
		0x8A, 0xB4, // ADD VA, VB
	)
	steps(t, m, 3)

	assert.Equal(t, byte(5), m.Register(0xA))
	assert.Equal(t, byte(0), m.Register(0xF))
}

func TestResetRestoresPowerOnState(t *testing.T) {
	m := newTestMachine(t, 0x6A, 0x02, 0x12, 0x00)
	steps(t, m, 2)

	m.Reset()

	assert.Equal(t, uint16(ProgramStart), m.PC())
	assert.Equal(t, byte(0), m.Register(0xA))
	assert.Equal(t, byte(0), m.memory[ProgramStart]) // ROM gone too
	assert.Equal(t, fontset[0], m.memory[FontOffset])
}

func TestTraceSeesEveryInstruction(t *testing.T) {
	var traced []Instruction
	m := New(Config{
		Rand: rand.New(rand.NewSource(1)),
		Trace: func(pc uint16, in Instruction) {
			traced = append(traced, in)
		},
	})
	assert.NoError(t, m.LoadProgram([]byte{0x6A, 0x02, 0x6B, 0x03}))

	steps(t, m, 2)

	assert.Equal(t, 2, len(traced))
	assert.Equal(t, LdByte, traced[0].Op)
	assert.Equal(t, byte(0xA), traced[0].X)
}
