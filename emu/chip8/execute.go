package chip8

import "github.com/pkg/errors"

// execute applies one decoded instruction. PC has already been
// advanced past it; control-flow operations overwrite PC outright.
func (m *Machine) execute(in Instruction) error {
	switch in.Op {
	case Sys:
		// Machine-code call on the original hardware, a no-op here.

	case Cls:
		m.display.Clear()

	case Ret:
		if m.sp == 0 {
			return errors.Wrapf(ErrStackUnderflow, "RET at %#04x", m.pc-2)
		}
		m.sp--
		m.pc = m.stack[m.sp]

	case Jp:
		m.pc = in.NNN

	case Call:
		if int(m.sp) >= StackDepth {
			return errors.Wrapf(ErrStackOverflow, "CALL at %#04x", m.pc-2)
		}
		m.stack[m.sp] = m.pc
		m.sp++
		m.pc = in.NNN

	case SeByte:
		if m.v[in.X] == in.KK {
			m.pc += 2
		}

	case SneByte:
		if m.v[in.X] != in.KK {
			m.pc += 2
		}

	case SeReg:
		if m.v[in.X] == m.v[in.Y] {
			m.pc += 2
		}

	case LdByte:
		m.v[in.X] = in.KK

	case AddByte:
		m.v[in.X] += in.KK

	case LdReg:
		m.v[in.X] = m.v[in.Y]

	case Or:
		m.v[in.X] |= m.v[in.Y]

	case And:
		m.v[in.X] &= m.v[in.Y]

	case Xor:
		m.v[in.X] ^= m.v[in.Y]

	case AddReg:
		sum := uint16(m.v[in.X]) + uint16(m.v[in.Y])
		m.v[in.X] = byte(sum)
		m.v[0xF] = flag(sum > 0xFF)

	case Sub:
		noBorrow := m.v[in.X] >= m.v[in.Y]
		m.v[in.X] -= m.v[in.Y]
		m.v[0xF] = flag(noBorrow)

	case Shr:
		src := m.v[in.X]
		if m.quirks.ShiftUsesVY {
			src = m.v[in.Y]
		}
		m.v[in.X] = src >> 1
		m.v[0xF] = src & 0x01

	case Subn:
		noBorrow := m.v[in.Y] >= m.v[in.X]
		m.v[in.X] = m.v[in.Y] - m.v[in.X]
		m.v[0xF] = flag(noBorrow)

	case Shl:
		src := m.v[in.X]
		if m.quirks.ShiftUsesVY {
			src = m.v[in.Y]
		}
		m.v[in.X] = src << 1
		m.v[0xF] = src >> 7

	case SneReg:
		if m.v[in.X] != m.v[in.Y] {
			m.pc += 2
		}

	case LdI:
		m.i = in.NNN

	case JpV0:
		m.pc = in.NNN + uint16(m.v[0x0])

	case Rnd:
		m.v[in.X] = byte(m.rng.Intn(256)) & in.KK

	case Drw:
		sprite, err := m.memory.Range(m.i, uint16(in.N))
		if err != nil {
			return err
		}
		collision := m.display.DrawSprite(m.v[in.X], m.v[in.Y], sprite)
		m.v[0xF] = flag(collision)

	case Skp:
		if m.keypad.Pressed(m.v[in.X] & 0x0F) {
			m.pc += 2
		}

	case Sknp:
		if !m.keypad.Pressed(m.v[in.X] & 0x0F) {
			m.pc += 2
		}

	case LdRegDT:
		m.v[in.X] = m.delayTimer

	case LdRegKey:
		// Rewind to this instruction and wait; Step completes the
		// load once a key goes down.
		m.pc -= 2
		m.state = waitingForKey
		m.waitReg = in.X

	case LdDT:
		m.delayTimer = m.v[in.X]

	case LdST:
		m.soundTimer = m.v[in.X]

	case AddI:
		m.i += uint16(m.v[in.X])

	case LdFont:
		m.i = FontOffset + uint16(m.v[in.X]&0x0F)*FontGlyphSize

	case LdBCD:
		value := m.v[in.X]
		digits := [3]byte{value / 100, value / 10 % 10, value % 10}
		for offset, digit := range digits {
			if err := m.memory.WriteByte(m.i+uint16(offset), digit); err != nil {
				return err
			}
		}

	case LdMemReg:
		for r := byte(0); r <= in.X; r++ {
			if err := m.memory.WriteByte(m.i+uint16(r), m.v[r]); err != nil {
				return err
			}
		}
		if m.quirks.LoadStoreIncrementsI {
			m.i += uint16(in.X) + 1
		}

	case LdRegMem:
		for r := byte(0); r <= in.X; r++ {
			value, err := m.memory.ReadByte(m.i + uint16(r))
			if err != nil {
				return err
			}
			m.v[r] = value
		}
		if m.quirks.LoadStoreIncrementsI {
			m.i += uint16(in.X) + 1
		}

	default:
		return errors.Wrapf(ErrIllegalOpcode, "unhandled operation %v", in.Op)
	}
	return nil
}

func flag(set bool) byte {
	if set {
		return 1
	}
	return 0
}
