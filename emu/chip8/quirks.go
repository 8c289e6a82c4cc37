package chip8

// Quirks selects between the contested opcode behaviors that original
// interpreters disagreed on. The zero value is the modern consensus;
// some older ROMs need the legacy COSMAC VIP behavior instead.
type Quirks struct {
	// ShiftUsesVY makes 8xy6/8xyE shift Vy into Vx instead of
	// shifting Vx in place.
	ShiftUsesVY bool

	// LoadStoreIncrementsI makes Fx55/Fx65 leave I at I+x+1 instead
	// of leaving it unchanged.
	LoadStoreIncrementsI bool
}
