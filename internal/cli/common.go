package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/config"
	"github.com/MattPrit/nexgen/internal/params"
	"github.com/MattPrit/nexgen/internal/tui"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

// loadExperiment reads the config file, folding the not-found case into the
// config error class so exit codes stay consistent.
func loadExperiment(path string) (*config.Experiment, error) {
	exp, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: %s does not exist", nexgen.ErrInvalidConfig, path)
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// applyOverrides layers beam parameter overrides onto the experiment:
// environment first, then --set flags, so the command line wins.
func applyOverrides(cmd *cobra.Command, exp *config.Experiment, log nexgen.Logger) error {
	envOverrides, err := params.FromEnv()
	if err != nil {
		return err
	}
	params.Apply(exp, envOverrides, log)

	pairs, err := cmd.Flags().GetStringArray("set")
	if err != nil || len(pairs) == 0 {
		return nil
	}
	parsed, err := params.ParseKeyValuePairs(pairs)
	if err != nil {
		return fmt.Errorf("%w: %v", nexgen.ErrInvalidConfig, err)
	}
	flagOverrides, err := params.FromPairs(parsed)
	if err != nil {
		return err
	}
	params.Apply(exp, flagOverrides, log)
	return nil
}

// confirmOverwrite guards an existing output file: without --force it is an
// error, with --force an interactive user still gets one prompt.
func confirmOverwrite(output string, force bool) error {
	if _, err := os.Stat(output); os.IsNotExist(err) {
		return nil
	}
	if !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", output)
	}
	if !tui.PromptContinue(fmt.Sprintf("Overwrite %s?", output)) {
		return fmt.Errorf("overwrite of %s declined", output)
	}
	return nil
}
