package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MattPrit/nexgen/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <template> [target]",
	Short: "Write a starter experiment config from a beamline template",
	Long: `Init writes a ready-to-edit experiment config from one of the embedded
beamline templates. The target defaults to experiment.yaml in the current
directory; existing files are never overwritten.

Examples:
  # See what is available
  nexgen init --list

  # Start from the I24 Eiger rotation template
  nexgen init i24-eiger

  # Write to a specific path
  nexgen init i19-2-tristan configs/tristan.yaml`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolP("list", "l", false, "List available templates")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list"); list {
		return listTemplates()
	}

	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <template>

Usage: %s

Use 'nexgen init --list' to see available templates.`, cmd.UseLine())
	}
	if len(args) > 2 {
		return fmt.Errorf("accepts at most 2 arg(s), received %d", len(args))
	}

	target := "experiment.yaml"
	if len(args) == 2 {
		target = args[1]
	}
	return scaffold.NewScaffolder(newLogger(cmd)).Write(args[0], target)
}

func listTemplates() error {
	templates, err := scaffold.ListTemplates()
	if err != nil {
		return err
	}
	fmt.Println("Available templates:")
	for _, name := range templates {
		description, err := scaffold.Describe(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %-16s %s\n", name, description)
	}
	return nil
}
