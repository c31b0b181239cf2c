package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/checker"
	"github.com/MattPrit/nexgen/internal/logging"
	"github.com/MattPrit/nexgen/internal/storage"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate and repair an existing metadata tree",
	Long: `Check walks an existing metadata tree through the consistency stages:
the application definition, the detector transformation chain, the
sample's own depends_on, and the goniometer chain. Deviations from the
instrument reference are corrected in place.

Every check and correction is appended to <file>_checks.log next to the
file, in addition to the console.

Examples:
  # Repair a file written elsewhere
  nexgen check scan_0001.nxs

  # Report deviations without touching the file
  nexgen check --dry-run scan_0001.nxs`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("dry-run", false, "Report deviations without writing corrections")
	rootCmd.AddCommand(checkCmd)
}

// checksLogPath places the check log next to the file it describes.
func checksLogPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_checks.log"
}

func runCheck(cmd *cobra.Command, args []string) error {
	console := logging.NewConsoleLogger(getVerboseFlag(cmd))
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	b, err := storage.Load(args[0])
	if err != nil {
		return err
	}

	logPath := checksLogPath(args[0])
	log, err := logging.NewFileLogger(logPath, console)
	if err != nil {
		return fmt.Errorf("open check log: %w", err)
	}
	defer log.Close()

	log.Info("checking %s", args[0])
	report, err := checker.New(log, dryRun).Run(b)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := storage.Save(args[0], b); err != nil {
			return err
		}
	}

	switch {
	case report.Clean():
		log.Info("%s passed all checks", args[0])
	case dryRun:
		log.Info("%s needs %d corrections (dry run, file unchanged)", args[0], len(report.Corrections))
	default:
		log.Info("%s corrected, %d changes (see %s)", args[0], len(report.Corrections), logPath)
	}
	return nil
}
