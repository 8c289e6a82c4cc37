package chip8

import "github.com/pkg/errors"

// Fatal machine conditions. Step and LoadProgram wrap these with the
// offending address/opcode; match with errors.Is.
var (
	ErrRomTooLarge      = errors.New("rom too large")
	ErrIllegalOpcode    = errors.New("illegal opcode")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrFetchOutOfBounds = errors.New("fetch out of bounds")
	ErrOutOfBounds      = errors.New("memory access out of bounds")
)
