// Package chip8 implements the Chip-8 interpreter core: memory,
// registers, call stack, timers, framebuffer, keypad and the
// fetch-decode-execute cycle. The host drives it through Step at the
// instruction rate and TickTimers at a fixed 60 Hz; rendering, audio
// and input live outside this package.
package chip8

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

const (
	// NumRegisters is the number of general purpose registers V0-VF.
	NumRegisters = 16

	// StackDepth is the maximum subroutine call nesting.
	StackDepth = 16
)

// state tracks whether the machine is executing instructions or
// parked on LD Vx, K until a key goes down.
type state int

const (
	running state = iota
	waitingForKey
)

// TraceFunc receives every instruction about to execute, for debug
// output.
type TraceFunc func(pc uint16, in Instruction)

// Config carries machine construction options. The zero value gives a
// modern-quirks machine with a time-seeded RNG and no tracing.
type Config struct {
	Quirks Quirks
	Rand   *rand.Rand // RND source; nil seeds from the clock
	Trace  TraceFunc
}

// Machine is the whole Chip-8: it owns every piece of state and is
// its sole mutator. Not safe for concurrent use; the host loop must
// interleave input, Step batches, TickTimers and rendering on one
// goroutine.
type Machine struct {
	memory     Memory
	v          [NumRegisters]byte
	i          uint16
	pc         uint16
	sp         byte
	stack      [StackDepth]uint16
	delayTimer byte
	soundTimer byte
	display    Display
	keypad     Keypad

	state   state
	waitReg byte // destination register while waitingForKey

	quirks Quirks
	rng    *rand.Rand
	trace  TraceFunc
}

// New creates a machine in its power-on state with the font loaded.
func New(cfg Config) *Machine {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	trace := cfg.Trace
	if trace == nil {
		trace = func(uint16, Instruction) {}
	}

	m := &Machine{
		quirks: cfg.Quirks,
		rng:    rng,
		trace:  trace,
	}
	m.Reset()
	return m
}

// Reset restores the power-on state: memory cleared, font reloaded,
// registers and stack zeroed, display cleared, PC at ProgramStart.
// The program must be loaded again afterwards.
func (m *Machine) Reset() {
	m.memory = Memory{}
	m.memory.loadFont()
	m.v = [NumRegisters]byte{}
	m.i = 0
	m.pc = ProgramStart
	m.sp = 0
	m.stack = [StackDepth]uint16{}
	m.delayTimer = 0
	m.soundTimer = 0
	m.display.Clear()
	m.keypad = Keypad{}
	m.state = running
	m.waitReg = 0
}

// LoadProgram copies a ROM into memory at ProgramStart. Fails with
// ErrRomTooLarge, leaving memory untouched, if the ROM does not fit.
func (m *Machine) LoadProgram(rom []byte) error {
	return m.memory.LoadProgram(rom)
}

// Step runs one machine cycle: fetch the opcode at PC, advance PC by
// two, decode and execute. While waiting on LD Vx, K it instead polls
// the keypad and returns without executing, so the host loop never
// blocks. Any returned error is fatal for the ROM; the machine state
// stays inspectable.
func (m *Machine) Step() error {
	if m.state == waitingForKey {
		if key, ok := m.keypad.firstPressed(); ok {
			m.v[m.waitReg] = key
			m.pc += 2
			m.state = running
		}
		return nil
	}

	if m.pc+1 >= MemorySize {
		return errors.Wrapf(ErrFetchOutOfBounds, "pc %#04x", m.pc)
	}
	opcode := uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])

	in, err := Decode(opcode)
	if err != nil {
		return errors.Wrapf(err, "at %#04x", m.pc)
	}
	m.trace(m.pc, in)

	m.pc += 2
	return m.execute(in)
}

// TickTimers decrements the delay and sound timers, saturating at
// zero. The host calls it at 60 Hz, independent of the instruction
// rate.
func (m *Machine) TickTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// SetKey records a keypad press or release, keys 0x0-0xF.
func (m *Machine) SetKey(key byte, pressed bool) {
	m.keypad.Set(key, pressed)
}

// Pixels returns a snapshot of the framebuffer for the renderer.
func (m *Machine) Pixels() Display {
	return m.display
}

// SoundActive reports whether the buzzer should be on.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// DelayTimer returns the delay timer value.
func (m *Machine) DelayTimer() byte {
	return m.delayTimer
}

// SoundTimer returns the sound timer value.
func (m *Machine) SoundTimer() byte {
	return m.soundTimer
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Register returns Vx.
func (m *Machine) Register(x byte) byte {
	return m.v[x&0x0F]
}

// String renders a one-line register dump for diagnostics.
func (m *Machine) String() string {
	return fmt.Sprintf("pc=%03X i=%03X sp=%d dt=%d st=%d v=% X",
		m.pc, m.i, m.sp, m.delayTimer, m.soundTimer, m.v)
}
