package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/copier"
	"github.com/MattPrit/nexgen/internal/storage"
)

var copyCmd = &cobra.Command{
	Use:   "copy <original> <datafile>...",
	Short: "Copy metadata from an existing tree onto new data files",
	Long: `Copy transplants the metadata of an existing tree onto a re-processed set
of raw data files. The instrument description is carried over unchanged;
the data group is rebuilt around the new files, keeping only the scan
axis information.

The output name derives from the first data file: trailing _NNNNNN or
_meta counters are dropped and the metadata extension applied, so
run_000001.h5 produces run.nxs. Use --output to override.

Examples:
  # Metadata for re-binned images
  nexgen copy original.nxs run_000001.h5 run_000002.h5

  # Verbatim copy, links included
  nexgen copy --simple original.nxs run_000001.h5

  # Event data converted to a frame-series representation
  nexgen copy --events original.nxs binned_000001.h5`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCopy,
}

func init() {
	copyCmd.Flags().Bool("events", false, "Copy for pseudo event mode data")
	copyCmd.Flags().Bool("simple", false, "Copy the whole tree verbatim, links included")
	copyCmd.Flags().StringArray("skip", []string{"NXdata"}, "NX classes not to copy")
	copyCmd.Flags().StringP("output", "o", "", "Output file (default: derived from the first data file)")
	copyCmd.MarkFlagsMutuallyExclusive("events", "simple")
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)

	original, dataFiles := args[0], args[1:]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = OutputForData(dataFiles[0])
	}
	if output == original {
		return fmt.Errorf("output %s would overwrite the original", output)
	}

	src, err := storage.Load(original)
	if err != nil {
		return err
	}
	dst := storage.NewMemoryBackend()

	c := copier.New(log)
	if events, _ := cmd.Flags().GetBool("events"); events {
		err = c.PseudoEvents(src, dst, dataFiles)
	} else {
		simple, _ := cmd.Flags().GetBool("simple")
		skip, _ := cmd.Flags().GetStringArray("skip")
		err = c.Images(src, dst, dataFiles, simple, skip)
	}
	if err != nil {
		return err
	}

	if err := storage.Save(output, dst); err != nil {
		return err
	}
	log.Info("wrote %s from %s with %d data files", output, original, len(dataFiles))
	return nil
}
