// Package audio emits the Chip-8 buzzer tone through the speaker
// while the machine's sound timer is running.
package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 440
)

// Beeper gates a continuously playing square wave on and off.
type Beeper struct {
	ctrl *beep.Ctrl
}

// New initializes the speaker and starts the tone paused.
func New() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, errors.Wrap(err, "initializing speaker")
	}

	ctrl := &beep.Ctrl{Streamer: squareWave(toneHz), Paused: true}
	speaker.Play(ctrl)
	return &Beeper{ctrl: ctrl}, nil
}

// SetActive unmutes or mutes the tone. Called once per frame with the
// machine's sound timer state.
func (b *Beeper) SetActive(active bool) {
	speaker.Lock()
	b.ctrl.Paused = !active
	speaker.Unlock()
}

// squareWave returns an endless square wave streamer at the given
// pitch. The original hardware produced a single fixed tone, so
// nothing fancier is needed.
func squareWave(pitch float64) beep.Streamer {
	period := int(float64(sampleRate) / pitch)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			value := -0.25
			if pos < period/2 {
				value = 0.25
			}
			samples[i][0] = value
			samples[i][1] = value
			pos = (pos + 1) % period
		}
		return len(samples), true
	})
}
