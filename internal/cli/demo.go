package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/storage"
	"github.com/MattPrit/nexgen/internal/writer"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

var demoCmd = &cobra.Command{
	Use:   "demo <config> <output>",
	Short: "Assemble a metadata tree with placeholder data files",
	Long: `Demo assembles a metadata tree the way generate does, but creates empty
placeholder data files next to the output so the external links resolve.
Useful for trying configs and exercising downstream pipelines without a
detector.

Exactly one of --images or --events is required: the frame count for a
frame-series collection, or the number of event stream chunks.

Examples:
  # 900 placeholder frames split across data files
  nexgen demo -i 900 experiment.yaml demo.nxs

  # An event collection chunked into two streams
  nexgen demo -e 2 tristan.yaml demo.nxs`,
	Args: RequireConfigAndOutput,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntP("images", "i", 0, "Number of placeholder frames to claim")
	demoCmd.Flags().IntP("events", "e", 0, "Number of event stream chunk files")
	demoCmd.Flags().BoolP("force", "f", false, "Overwrite an existing output file")
	demoCmd.Flags().StringArray("set", nil, "Override a beam parameter, e.g. --set wavelength=0.649")
	demoCmd.MarkFlagsMutuallyExclusive("images", "events")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	log := newLogger(cmd)

	images, _ := cmd.Flags().GetInt("images")
	events, _ := cmd.Flags().GetInt("events")
	if images <= 0 && events <= 0 {
		return fmt.Errorf("%w: one of --images or --events is required", nexgen.ErrInvalidConfig)
	}

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
	if events > 0 {
		exp.Mode = "events"
	} else {
		exp.Mode = "images"
	}

	force, _ := cmd.Flags().GetBool("force")
	if err := confirmOverwrite(output, force); err != nil {
		return err
	}

	files, err := writer.DemoDataFiles(output, images, events)
	if err != nil {
		return err
	}
	log.Verbose("created %d placeholder data files", len(files))

	b := storage.NewMemoryBackend()
	spec, err := writer.New(log).Assemble(b, exp, files)
	if err != nil {
		return err
	}
	if err := storage.Save(output, b); err != nil {
		return err
	}

	log.Info("wrote %s with %d placeholder data files (scan axis %s)",
		output, len(files), spec.ScanAxis)
	return nil
}
