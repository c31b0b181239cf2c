package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// RequireConfigAndOutput validates the <config> <output> argument pair most
// commands take.
func RequireConfigAndOutput(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf(`missing required arguments: <config> <output>

Usage: %s

Example:
  %s experiment.yaml scan_0001.nxs`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 2 {
		return fmt.Errorf("accepts 2 arg(s), received %d", len(args))
	}
	return nil
}

// NormalizeOutputFilename keeps recognized metadata extensions as-is and
// substitutes the default for anything else, reporting whether a
// substitution happened so callers can tell the user.
func NormalizeOutputFilename(path string) (string, bool) {
	ext := filepath.Ext(path)
	for _, recognized := range nexgen.RecognizedExtensions {
		if ext == recognized {
			return path, false
		}
	}
	return strings.TrimSuffix(path, ext) + nexgen.DefaultExtension, true
}

var dataFileSuffix = regexp.MustCompile(`_(meta|\d{6})$`)

// OutputForData derives the metadata filename belonging to a raw data file:
// trailing _meta or _NNNNNN counters are dropped and the extension becomes
// the metadata default. "/x/run_000001.h5" maps to "/x/run.nxs".
func OutputForData(dataPath string) string {
	base := strings.TrimSuffix(dataPath, filepath.Ext(dataPath))
	base = dataFileSuffix.ReplaceAllString(base, "")
	return base + nexgen.DefaultExtension
}
