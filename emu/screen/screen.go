// Package screen renders the machine's framebuffer in a pixelgl
// window and translates the host keyboard onto the hex keypad.
package screen

import (
	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"

	"chip8vm/emu/chip8"
)

// keyMap lays the hex keypad onto the left side of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var keyMap = map[byte]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

// Window wraps the pixelgl window together with the picture buffer
// the framebuffer is copied into each frame.
type Window struct {
	win   *pixelgl.Window
	pic   *pixel.PictureData
	scale float64
}

// New opens the emulator window at chip8 resolution times scale.
// Must run on the main thread, inside pixelgl.Run.
func New(title string, scale int) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title: title,
		Bounds: pixel.R(0, 0,
			float64(chip8.DisplayWidth*scale), float64(chip8.DisplayHeight*scale)),
		VSync: true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "opening window")
	}

	return &Window{
		win:   win,
		pic:   pixel.MakePictureData(pixel.R(0, 0, chip8.DisplayWidth, chip8.DisplayHeight)),
		scale: float64(scale),
	}, nil
}

// Closed reports whether the user closed the window.
func (w *Window) Closed() bool {
	return w.win.Closed()
}

// PollKeys forwards the current keyboard state into the machine's
// keypad. Escape closes the window.
func (w *Window) PollKeys(m *chip8.Machine) {
	for key, button := range keyMap {
		m.SetKey(key, w.win.Pressed(button))
	}
	if w.win.Pressed(pixelgl.KeyEscape) {
		w.win.SetClosed(true)
	}
}

// Render draws one frame from a framebuffer snapshot and flips the
// window buffer.
func (w *Window) Render(pixels chip8.Display) {
	for y := 0; y < chip8.DisplayHeight; y++ {
		// PictureData is bottom-up, the framebuffer top-down.
		row := (chip8.DisplayHeight - 1 - y) * chip8.DisplayWidth
		for x := 0; x < chip8.DisplayWidth; x++ {
			if pixels.Pixel(x, y) {
				w.pic.Pix[row+x] = colornames.White
			} else {
				w.pic.Pix[row+x] = colornames.Black
			}
		}
	}

	w.win.Clear(colornames.Black)
	sprite := pixel.NewSprite(w.pic, w.pic.Bounds())
	center := w.win.Bounds().Center()
	sprite.Draw(w.win, pixel.IM.Moved(center).Scaled(center, w.scale))
	w.win.Update()
}
