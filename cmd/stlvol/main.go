package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/stlvol/internal/config"
	"github.com/philipparndt/stlvol/version"
)

var (
	configPath string
	verbose    bool
	flags      config.Flags
)

var rootCmd = &cobra.Command{
	Use:   "stlvol",
	Short: "Measure, inspect and render STL files",
	Long: `stlvol computes the enclosed volume of STL meshes (binary or ASCII),
converts it to cm³ and grams, and renders shaded snapshots of the model.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	pf.StringVarP(&flags.Units, "units", "u", "", "Linear unit of the files (mm or cm)")
	pf.Float32Var(&flags.Density, "density", 0, "Material density in g/cm³ (default wax, 0.8)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Resolve(flags)
	return cfg, nil
}

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "stlvol: ", log.LstdFlags)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
