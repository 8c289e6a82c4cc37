package main

import (
	"chip8vm/cmd"

	"github.com/faiface/pixel/pixelgl"
)

// pixelgl owns the main OS thread, so the whole CLI runs inside it.
func main() {
	pixelgl.Run(cmd.Execute)
}
