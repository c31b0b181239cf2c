package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/params"
	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/internal/tui"
	"github.com/MattPrit/nexgen/internal/tui/wizards"
	"github.com/MattPrit/nexgen/internal/writer"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <config> <output> [datafile]...",
	Short: "Assemble a metadata tree from an experiment config",
	Long: `Generate assembles a complete NXmx metadata tree for one data collection.

The generate command:
1. Loads the experiment config and applies beam parameter overrides
2. Verifies the goniometer and detector dependency chains
3. Computes the scan positions from the declared axis ranges
4. Writes the tree with external links to the raw data files

Beam parameter overrides, later sources win:
  .env file and NEXGEN_* environment variables
  --set key=value flags
  the interactive editor (--interactive)

Examples:
  # Assemble from a config
  nexgen generate experiment.yaml scan_0001.nxs

  # Override the wavelength for this collection only
  nexgen generate experiment.yaml scan_0001.nxs --set wavelength=0.6889

  # Review beam parameters interactively before assembling
  nexgen generate -I experiment.yaml scan_0001.nxs

  # Name the data files on the command line instead of in the config
  nexgen generate experiment.yaml scan_0001.nxs scan_0001_000001.h5`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringArray("set", nil,
		"Override a beam parameter, e.g. --set wavelength=0.649\n"+
			"Known keys: wavelength, transmission, beam_center_x, beam_center_y,\n"+
			"detector_distance, exposure_time")
	generateCmd.Flags().BoolP("interactive", "I", false,
		"Edit beam parameters in a terminal form before assembling")
	generateCmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing output file")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	log := newLogger(cmd)

	output, substituted := NormalizeOutputFilename(args[1])
	if substituted {
		log.Info("unrecognized output extension, writing %s instead", output)
	}

	exp, err := loadExperiment(args[0])
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, exp, log); err != nil {
		return err
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if !tui.IsInteractive() {
			log.Verbose("not a terminal, skipping the beam parameter editor")
		} else {
			result, err := wizards.RunBeamWizard(exp)
			if err != nil {
				return err
			}
			if result.Cancelled {
				return fmt.Errorf("cancelled")
			}
			params.Apply(exp, result.Overrides, log)
		}
	}

	force, _ := cmd.Flags().GetBool("force")
	if err := confirmOverwrite(output, force); err != nil {
		return err
	}

	// Data files named on the command line take precedence over the config.
	dataPaths := exp.DataFiles
	if len(args) > 2 {
		dataPaths = args[2:]
	}
	files := make([]nexgen.DataFile, len(dataPaths))
	for i, path := range dataPaths {
		files[i] = nexgen.DataFile{Path: path}
	}

	b := storage.NewMemoryBackend()
	spec, err := writer.New(log).Assemble(b, exp, files)
	if err != nil {
		return err
	}
	if err := storage.Save(output, b); err != nil {
		return err
	}

	if spec.FrameCount() > 0 {
		log.Info("wrote %s: scan axis %s, %d frames", output, spec.ScanAxis, spec.FrameCount())
	} else {
		log.Info("wrote %s: scan axis %s, event interval %v to %v",
			output, spec.ScanAxis, spec.Interval.Start, spec.Interval.End)
	}
	return nil
}
