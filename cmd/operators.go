package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/clooze/internal/controller"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
)

var operatorsPresetFlag string

// operatorsCmd represents the operators command.
var operatorsCmd = newOperatorsCmd()

func newOperatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operators",
		Short: "List the mutation operator catalog",
		Long:  "List every mutation operator with its category and the presets that include it.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := operatorInfos(mutagens.Default(), operatorsPresetFlag)
			if err != nil {
				return err
			}

			return controller.RenderOperators(cmd.OutOrStdout(), infos)
		},
	}

	cmd.Flags().StringVar(&operatorsPresetFlag, runPresetFlagName, "", "only list operators of this preset")

	return cmd
}

// operatorInfos returns the catalog, filtered to preset when one is named.
func operatorInfos(registry *mutagens.Registry, preset string) ([]m.OperatorInfo, error) {
	infos := registry.Info()
	if preset == "" {
		return infos, nil
	}

	ids, ok := registry.Preset(preset)
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", mutagens.ErrUnknownPreset, preset, registry.Presets())
	}

	return slices.DeleteFunc(infos, func(info m.OperatorInfo) bool {
		return !slices.Contains(ids, info.ID)
	}), nil
}

func init() {
	rootCmd.AddCommand(operatorsCmd)
}
