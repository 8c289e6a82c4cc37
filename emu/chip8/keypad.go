package chip8

// NumKeys is the size of the hex keypad, keys 0x0-0xF.
const NumKeys = 16

// Keypad holds the pressed state of the sixteen keys. The input
// collaborator writes it before each batch of steps; SKP, SKNP and
// LD Vx, K read it.
type Keypad [NumKeys]bool

// Set records a key press or release. Keys outside 0x0-0xF are ignored.
func (k *Keypad) Set(key byte, pressed bool) {
	if key < NumKeys {
		k[key] = pressed
	}
}

// Pressed reports whether key is currently down.
func (k *Keypad) Pressed(key byte) bool {
	return key < NumKeys && k[key]
}

// firstPressed returns the lowest pressed key, for LD Vx, K.
func (k *Keypad) firstPressed() (byte, bool) {
	for key := byte(0); key < NumKeys; key++ {
		if k[key] {
			return key, true
		}
	}
	return 0, false
}
