package main

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezrec/brainfuck/tape"
	"github.com/ezrec/brainfuck/translate"
	"github.com/ezrec/brainfuck/vm"
)

var f = translate.From

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bf",
	Short: "A brainfuck interpreter",
	Long: `bf interprets brainfuck programs against a bidirectional memory tape.

The tape grows on demand in both directions by default; wraparound
addressing, newline-to-zero input translation, and precomputed bracket
matching are available as options, from flags, environment (BF_*), or a
config file.`,
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.brainfuck.yaml)")
	rootCmd.PersistentFlags().Int("tape-size", tape.DefaultSize, "positive tape size in cells")
	rootCmd.PersistentFlags().Bool("wrap", false, "wraparound tape addressing instead of growth")
	rootCmd.PersistentFlags().Bool("newline-zero", false, "store input newline bytes as zero")
	rootCmd.PersistentFlags().Bool("precompute-jumps", false, "precompute bracket matches at load time")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "also append JSON log records to this file")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".brainfuck" (without extension).
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".brainfuck")
	}

	viper.SetEnvPrefix("bf")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// machineConfig collects the machine settings from flags/env/config.
func machineConfig() vm.Config {
	return vm.Config{
		TapeSize:        viper.GetInt("tape-size"),
		Wrap:            viper.GetBool("wrap"),
		NewlineZero:     viper.GetBool("newline-zero"),
		PrecomputeJumps: viper.GetBool("precompute-jumps"),
	}
}

// newLogger builds the process logger: leveled text on stderr, fanned out
// to an optional JSON log file.
func newLogger() *slog.Logger {
	level := new(slog.LevelVar)
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		level.Set(slog.LevelWarn)
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}

	if name := viper.GetString("log-file"); name != "" {
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(f("%v: %v", name, err))
		}
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// fatal aborts startup with a diagnostic. Used for source loading and
// configuration failures only; program outcome never affects the exit code.
func fatal(text string) {
	fmt.Fprintln(os.Stderr, text)
	os.Exit(1)
}
