package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chip8vm [command]",
	Short: "Chip-8 virtual machine",
	Long: `A Chip-8 virtual machine: interprets the bytecode originally written
for the COSMAC VIP / Telmac 1800 8-bit systems, with a pixel-based
display, the classic hex keypad on 1234/QWER/ASDF/ZXCV and a buzzer.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Run a ROM with `chip8vm run /path/to/ROM`")
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.chip8vm.yaml)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chip8vm" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chip8vm")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
