package chip8

import (
	"fmt"

	"github.com/pkg/errors"
)

// Op identifies one of the 35 documented Chip-8 operations.
type Op int

const (
	Sys      Op = iota // 0nnn, ignored by modern interpreters
	Cls                // 00E0
	Ret                // 00EE
	Jp                 // 1nnn
	Call               // 2nnn
	SeByte             // 3xkk
	SneByte            // 4xkk
	SeReg              // 5xy0
	LdByte             // 6xkk
	AddByte            // 7xkk
	LdReg              // 8xy0
	Or                 // 8xy1
	And                // 8xy2
	Xor                // 8xy3
	AddReg             // 8xy4
	Sub                // 8xy5
	Shr                // 8xy6
	Subn               // 8xy7
	Shl                // 8xyE
	SneReg             // 9xy0
	LdI                // Annn
	JpV0               // Bnnn
	Rnd                // Cxkk
	Drw                // Dxyn
	Skp                // Ex9E
	Sknp               // ExA1
	LdRegDT            // Fx07
	LdRegKey           // Fx0A
	LdDT               // Fx15
	LdST               // Fx18
	AddI               // Fx1E
	LdFont             // Fx29
	LdBCD              // Fx33
	LdMemReg           // Fx55
	LdRegMem           // Fx65
)

var opNames = [...]string{
	Sys:      "SYS",
	Cls:      "CLS",
	Ret:      "RET",
	Jp:       "JP",
	Call:     "CALL",
	SeByte:   "SE",
	SneByte:  "SNE",
	SeReg:    "SE",
	LdByte:   "LD",
	AddByte:  "ADD",
	LdReg:    "LD",
	Or:       "OR",
	And:      "AND",
	Xor:      "XOR",
	AddReg:   "ADD",
	Sub:      "SUB",
	Shr:      "SHR",
	Subn:     "SUBN",
	Shl:      "SHL",
	SneReg:   "SNE",
	LdI:      "LD",
	JpV0:     "JP",
	Rnd:      "RND",
	Drw:      "DRW",
	Skp:      "SKP",
	Sknp:     "SKNP",
	LdRegDT:  "LD",
	LdRegKey: "LD",
	LdDT:     "LD",
	LdST:     "LD",
	AddI:     "ADD",
	LdFont:   "LD",
	LdBCD:    "LD",
	LdMemReg: "LD",
	LdRegMem: "LD",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// Instruction is a decoded opcode: the operation plus every operand
// field already extracted. Which fields are meaningful depends on Op.
type Instruction struct {
	Op  Op
	X   byte   // second nibble, register index
	Y   byte   // third nibble, register index
	N   byte   // low nibble, sprite height
	KK  byte   // low byte, immediate
	NNN uint16 // low 12 bits, address
}

// Decode maps a 16-bit opcode onto its operation, extracting the
// operand fields. Opcodes outside the documented table fail with
// ErrIllegalOpcode.
func Decode(opcode uint16) (Instruction, error) {
	in := Instruction{
		X:   byte(opcode>>8) & 0x0F,
		Y:   byte(opcode>>4) & 0x0F,
		N:   byte(opcode) & 0x0F,
		KK:  byte(opcode),
		NNN: opcode & 0x0FFF,
	}

	switch opcode >> 12 {
	case 0x0:
		switch opcode & 0x0FFF {
		case 0x0E0:
			in.Op = Cls
		case 0x0EE:
			in.Op = Ret
		default:
			in.Op = Sys
		}
	case 0x1:
		in.Op = Jp
	case 0x2:
		in.Op = Call
	case 0x3:
		in.Op = SeByte
	case 0x4:
		in.Op = SneByte
	case 0x5:
		if in.N != 0 {
			return Instruction{}, illegal(opcode)
		}
		in.Op = SeReg
	case 0x6:
		in.Op = LdByte
	case 0x7:
		in.Op = AddByte
	case 0x8:
		switch in.N {
		case 0x0:
			in.Op = LdReg
		case 0x1:
			in.Op = Or
		case 0x2:
			in.Op = And
		case 0x3:
			in.Op = Xor
		case 0x4:
			in.Op = AddReg
		case 0x5:
			in.Op = Sub
		case 0x6:
			in.Op = Shr
		case 0x7:
			in.Op = Subn
		case 0xE:
			in.Op = Shl
		default:
			return Instruction{}, illegal(opcode)
		}
	case 0x9:
		if in.N != 0 {
			return Instruction{}, illegal(opcode)
		}
		in.Op = SneReg
	case 0xA:
		in.Op = LdI
	case 0xB:
		in.Op = JpV0
	case 0xC:
		in.Op = Rnd
	case 0xD:
		in.Op = Drw
	case 0xE:
		switch in.KK {
		case 0x9E:
			in.Op = Skp
		case 0xA1:
			in.Op = Sknp
		default:
			return Instruction{}, illegal(opcode)
		}
	case 0xF:
		switch in.KK {
		case 0x07:
			in.Op = LdRegDT
		case 0x0A:
			in.Op = LdRegKey
		case 0x15:
			in.Op = LdDT
		case 0x18:
			in.Op = LdST
		case 0x1E:
			in.Op = AddI
		case 0x29:
			in.Op = LdFont
		case 0x33:
			in.Op = LdBCD
		case 0x55:
			in.Op = LdMemReg
		case 0x65:
			in.Op = LdRegMem
		default:
			return Instruction{}, illegal(opcode)
		}
	}
	return in, nil
}

func illegal(opcode uint16) error {
	return errors.Wrapf(ErrIllegalOpcode, "%#04x", opcode)
}

// String renders the instruction in conventional assembly form,
// e.g. "DRW V1, V2, 5".
func (in Instruction) String() string {
	switch in.Op {
	case Cls, Ret:
		return in.Op.String()
	case Sys, Jp, Call:
		return fmt.Sprintf("%s %03X", in.Op, in.NNN)
	case JpV0:
		return fmt.Sprintf("JP V0, %03X", in.NNN)
	case SeByte, SneByte, LdByte, AddByte, Rnd:
		return fmt.Sprintf("%s V%X, %02X", in.Op, in.X, in.KK)
	case SeReg, SneReg, LdReg, Or, And, Xor, AddReg, Sub, Subn:
		return fmt.Sprintf("%s V%X, V%X", in.Op, in.X, in.Y)
	case Shr, Shl:
		return fmt.Sprintf("%s V%X", in.Op, in.X)
	case LdI:
		return fmt.Sprintf("LD I, %03X", in.NNN)
	case Drw:
		return fmt.Sprintf("DRW V%X, V%X, %X", in.X, in.Y, in.N)
	case Skp, Sknp:
		return fmt.Sprintf("%s V%X", in.Op, in.X)
	case LdRegDT:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case LdRegKey:
		return fmt.Sprintf("LD V%X, K", in.X)
	case LdDT:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case LdST:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case AddI:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case LdFont:
		return fmt.Sprintf("LD F, V%X", in.X)
	case LdBCD:
		return fmt.Sprintf("LD B, V%X", in.X)
	case LdMemReg:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case LdRegMem:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return in.Op.String()
}
