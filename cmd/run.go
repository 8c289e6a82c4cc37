package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chip8vm/emu/audio"
	"chip8vm/emu/chip8"
	"chip8vm/emu/host"
	"chip8vm/emu/screen"
)

var runCmd = &cobra.Command{
	Use:   "run path/to/ROM",
	Short: "load a ROM and start the machine",
	Args:  cobra.ExactArgs(1),
	RunE:  runROM,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("clock", 700, "instruction rate in Hz")
	runCmd.Flags().Int("scale", 10, "window scale factor")
	runCmd.Flags().Int64("seed", 0, "RNG seed, 0 seeds from the clock")
	runCmd.Flags().Bool("quirk-shift", false, "legacy shift behavior: 8xy6/8xyE read Vy")
	runCmd.Flags().Bool("quirk-index", false, "legacy load/store behavior: Fx55/Fx65 leave I at I+x+1")
	runCmd.Flags().Bool("mute", false, "disable the buzzer")
	runCmd.Flags().Bool("debug", false, "log every executed instruction")
	cobra.CheckErr(viper.BindPFlags(runCmd.Flags()))
}

// chip8vm run 'path/to/ROM' --clock 700
func runROM(cmd *cobra.Command, args []string) error {
	debug := viper.GetBool("debug")
	logger := newLogger(debug)

	romPath := args[0]
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return errors.Wrap(err, "reading ROM")
	}

	var rng *rand.Rand
	if seed := viper.GetInt64("seed"); seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	var trace chip8.TraceFunc
	if debug {
		trace = func(pc uint16, in chip8.Instruction) {
			logger.Debug("step", log.Hex("pc", pc), log.String("instr", in.String()))
		}
	}

	machine := chip8.New(chip8.Config{
		Quirks: chip8.Quirks{
			ShiftUsesVY:          viper.GetBool("quirk-shift"),
			LoadStoreIncrementsI: viper.GetBool("quirk-index"),
		},
		Rand:  rng,
		Trace: trace,
	})
	if err := machine.LoadProgram(rom); err != nil {
		return errors.Wrapf(err, "loading %s", romPath)
	}
	logger.Info("ROM loaded",
		log.String("rom", filepath.Base(romPath)),
		log.String("size", fmt.Sprintf("%d bytes", len(rom))))

	window, err := screen.New("chip8vm - "+filepath.Base(romPath), viper.GetInt("scale"))
	if err != nil {
		return err
	}

	var beeper *audio.Beeper
	if !viper.GetBool("mute") {
		beeper, err = audio.New()
		if err != nil {
			// Sound is not worth refusing to run over.
			logger.Error("audio unavailable", log.Err(err))
		}
	}

	loop := host.New(logger, machine, window, beeper, viper.GetInt("clock"))
	return loop.Run()
}

func newLogger(debug bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	}
	return log.NewWithConfig(cfg)
}
