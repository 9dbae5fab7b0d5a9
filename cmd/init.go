package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const initLongDescription = `Write clooze.yaml to the current directory with every setting at its
current value, ready to edit:
  run.test_command     shell command running a namespace's tests
  run.reload_command   optional command run after each mutant is written
  run.mutation_timeout per-mutant timeout in milliseconds
  run.preset           operator preset (minimal, fast, standard, comprehensive)
  paths.source         source roots scanned for namespaces
  paths.test           roots searched for the matching *-test namespaces
  scan.skip_forms      call heads whose forms are never mutated

An existing clooze.yaml is left untouched.`

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a clooze.yaml with the current settings",
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := filepath.Join(configFolderPath, configFileName)

			if err := viper.SafeWriteConfigAs(target); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}

			cmd.Println("wrote", target)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
