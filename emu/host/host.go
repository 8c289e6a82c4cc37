// Package host drives the machine from the window's frame loop:
// keys in, a batch of instruction steps, timer ticks, frame out.
package host

import (
	"time"

	"github.com/retroenv/retrogolib/log"

	"chip8vm/emu/audio"
	"chip8vm/emu/chip8"
	"chip8vm/emu/screen"
)

// timerRate is the fixed timer frequency of the original hardware.
const timerRate = 60.0

// Loop owns the two schedules the machine needs: instructions at the
// configured clock rate and timers at 60 Hz. Both run on elapsed-time
// accumulators so neither depends on the frame rate or on each other.
type Loop struct {
	logger  *log.Logger
	machine *chip8.Machine
	window  *screen.Window
	beeper  *audio.Beeper // nil when muted or audio init failed
	clockHz float64
}

// New assembles a loop. beeper may be nil to run silent.
func New(logger *log.Logger, m *chip8.Machine, w *screen.Window, b *audio.Beeper, clockHz int) *Loop {
	return &Loop{
		logger:  logger,
		machine: m,
		window:  w,
		beeper:  b,
		clockHz: float64(clockHz),
	}
}

// Run blocks until the window closes or the machine hits a fatal
// condition, which is logged with the final machine state and
// returned.
func (l *Loop) Run() error {
	var stepDebt, timerDebt float64
	last := time.Now()

	for !l.window.Closed() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now
		if dt > 0.25 {
			// Don't try to catch up after a long stall.
			dt = 0.25
		}

		l.window.PollKeys(l.machine)

		stepDebt += dt * l.clockHz
		for ; stepDebt >= 1; stepDebt-- {
			if err := l.machine.Step(); err != nil {
				l.logger.Error("machine halted", log.Err(err))
				l.logger.Info("final state", log.String("machine", l.machine.String()))
				return err
			}
		}

		timerDebt += dt * timerRate
		for ; timerDebt >= 1; timerDebt-- {
			l.machine.TickTimers()
		}

		if l.beeper != nil {
			l.beeper.SetActive(l.machine.SoundActive())
		}
		l.window.Render(l.machine.Pixels())
	}
	return nil
}
