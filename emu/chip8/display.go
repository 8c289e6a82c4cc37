package chip8

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the monochrome framebuffer, row-major, true = lit.
// Only CLS and DRW mutate it; the renderer reads it between steps.
type Display [DisplayHeight][DisplayWidth]bool

// Clear switches every pixel off.
func (d *Display) Clear() {
	*d = Display{}
}

// Pixel reports whether the pixel at (x, y) is lit.
func (d Display) Pixel(x, y int) bool {
	return d[y][x]
}

// DrawSprite XORs an 8-pixel-wide sprite onto the framebuffer at
// (x, y), one byte per row, most significant bit leftmost. Pixels past
// the right or bottom edge wrap to the opposite side. Reports whether
// any lit pixel was switched off, the DRW collision flag.
func (d *Display) DrawSprite(x, y byte, sprite []byte) bool {
	collision := false
	for row, bits := range sprite {
		py := (int(y) + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			if d[py][px] {
				collision = true
			}
			d[py][px] = !d[py][px]
		}
	}
	return collision
}
