package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/logging"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

const asciiLogo = `
  _ __   _____  ____ _  ___ _ __
 | '_ \ / _ \ \/ / _' |/ _ \ '_ \
 | | | |  __/>  < (_| |  __/ | | |
 |_| |_|\___/_/\_\__, |\___|_| |_|
                 |___/`

var rootCmd = &cobra.Command{
	Use:   "nexgen",
	Short: "NeXus metadata generation for diffraction experiments",
	Long: asciiLogo + `

nexgen produces and validates NXmx metadata trees describing a diffraction
data collection: detector geometry, goniometer motion, beam and source
parameters, and links to the raw frame data.

Experiment descriptions are YAML configs; start one with 'nexgen init'.
Beam parameters can be overridden per collection from NEXGEN_* environment
variables (a .env file is read automatically) or with --set key=value.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Axis dependency chain violates the instrument convention
  12 - Zero or multiple candidate scan axes
  13 - Required group/dataset/attribute absent from the file`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for nexgen")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// newLogger builds the console logger every command writes through.
func newLogger(cmd *cobra.Command) nexgen.Logger {
	return logging.NewConsoleLogger(getVerboseFlag(cmd))
}
