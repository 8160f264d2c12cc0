// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the heic-converter CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/heic-converter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Without a subcommand it asks for the folders
// interactively and converts.
var rootCmd = &cobra.Command{
	Use:   "heic-converter",
	Short: "Convert Apple HEIC photos to maximum-quality JPEG",
	Long: `heic-converter finds every HEIC photo under a folder, converts each one to
JPEG at quality 100 with full-resolution color, and writes the results into an
output folder inside the input folder, mirroring its subdirectories.

Run without arguments to be prompted for the folders, or use the convert
subcommand for scripted runs.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./heic-converter.yaml or ~/.config/heic-converter/heic-converter.yaml)")
	rootCmd.PersistentFlags().String("color", "auto", "colored output: auto, always, or never")
	rootCmd.PersistentFlags().String("output-name", types.DefaultOutputName, "name of the output folder created inside the input folder")
	rootCmd.PersistentFlags().Int("workers", 0, "parallel conversions (0 = one per CPU, at most 32)")
	rootCmd.PersistentFlags().Bool("include-output", false, "also convert HEIC files found inside the output folder")
	rootCmd.PersistentFlags().String("decoder", string(types.DecoderWASM), "HEIC decoder: wasm (built in) or libheif (heif-dec on PATH)")
	rootCmd.PersistentFlags().String("report", "", "write a YAML report of the run to this path")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record the run in the history database")
	rootCmd.PersistentFlags().String("history-path", "", "run history database (default: ~/.config/heic-converter/history.db)")

	for key, flag := range map[string]string{
		"color":          "color",
		"output_name":    "output-name",
		"workers":        "workers",
		"include_output": "include-output",
		"decoder":        "decoder",
		"report":         "report",
		"history.path":   "history-path",
	} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	viper.SetDefault("history.enabled", true)
	if dir, err := configDir(); err == nil {
		viper.SetDefault("history.path", filepath.Join(dir, "history.db"))
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "heic-converter"), nil
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("heic-converter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		if dir, err := configDir(); err == nil {
			viper.AddConfigPath(dir)
		}
	}

	viper.SetEnvPrefix("HEIC_CONVERTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// notifyInterrupt returns a context cancelled by the first SIGINT or SIGTERM.
// Signal handling is restored right after, so a second interrupt terminates
// the process while running conversions finish.
func notifyInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

func main() {
	ctx, stop := notifyInterrupt(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
