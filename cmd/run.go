package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/clooze/internal/domain"
	m "gooze.dev/pkg/clooze/internal/model"
)

var (
	runParallelFlag       int
	runShardFlag          string
	runTimeoutFlag        int64
	runPresetFlag         string
	runOperatorsFlag      []string
	runThresholdFlag      float64
	runDryRunFlag         bool
	runSkipEquivalentFlag bool
	runTestCommandFlag    string
	runReloadCommandFlag  string
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			shardIndex, totalShards, err := parseShardFlag(runShardFlag)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			_, err = newWorkflow(cmd, cancel).Test(ctx, domain.TestArgs{
				EstimateArgs:   estimateArgs(args),
				Reports:        m.Path(viper.GetString(outputFlagName)),
				Parallel:       viper.GetInt(runParallelConfigKey),
				ShardIndex:     shardIndex,
				TotalShards:    totalShards,
				Timeout:        mutationTimeout(),
				Threshold:      viper.GetFloat64(runThresholdConfigKey),
				DryRun:         viper.GetBool(runDryRunConfigKey),
				SkipEquivalent: viper.GetBool(runSkipEquivalentConfigKey),
			})

			return err
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of units tested in parallel")
	bindFlagToConfig(flags.Lookup(runParallelFlagName), runParallelConfigKey)

	flags.StringVarP(&runShardFlag, runShardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")

	flags.Int64Var(&runTimeoutFlag, runTimeoutFlagName, viper.GetInt64(mutationTimeoutKey), "per-mutation test timeout in milliseconds")
	bindFlagToConfig(flags.Lookup(runTimeoutFlagName), mutationTimeoutKey)

	flags.StringVar(&runPresetFlag, runPresetFlagName, viper.GetString(runPresetConfigKey), "operator preset: minimal, fast, standard or comprehensive")
	bindFlagToConfig(flags.Lookup(runPresetFlagName), runPresetConfigKey)

	flags.StringSliceVar(&runOperatorsFlag, runOperatorsFlagName, nil, "explicit operator ids, overriding the preset (comma-separated)")
	bindFlagToConfig(flags.Lookup(runOperatorsFlagName), runOperatorsConfigKey)

	flags.Float64Var(&runThresholdFlag, runThresholdFlagName, viper.GetFloat64(runThresholdConfigKey), "fail when the mutation score is below this percentage")
	bindFlagToConfig(flags.Lookup(runThresholdFlagName), runThresholdConfigKey)

	flags.BoolVar(&runDryRunFlag, runDryRunFlagName, viper.GetBool(runDryRunConfigKey), "plan mutations without running tests")
	bindFlagToConfig(flags.Lookup(runDryRunFlagName), runDryRunConfigKey)

	flags.BoolVar(&runSkipEquivalentFlag, runSkipEquivalentFlagName, viper.GetBool(runSkipEquivalentConfigKey), "skip mutants detected as equivalent")
	bindFlagToConfig(flags.Lookup(runSkipEquivalentFlagName), runSkipEquivalentConfigKey)

	flags.StringVar(&runTestCommandFlag, runTestCommandFlagName, viper.GetString(runTestCommandConfigKey), "shell command running the unit's tests")
	bindFlagToConfig(flags.Lookup(runTestCommandFlagName), runTestCommandConfigKey)

	flags.StringVar(&runReloadCommandFlag, runReloadCommandFlagName, viper.GetString(runReloadCommandConfigKey), "shell command run after each mutation is written")
	bindFlagToConfig(flags.Lookup(runReloadCommandFlagName), runReloadCommandConfigKey)
}

// parseShardFlag parses INDEX/TOTAL. An empty value means a single shard.
func parseShardFlag(shard string) (int, int, error) {
	if shard == "" {
		return 0, 1, nil
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 0, &domain.ConfigError{
			Field: "shard",
			Err:   fmt.Errorf("invalid value %q, want INDEX/TOTAL with 0 <= INDEX < TOTAL", shard),
		}
	}

	return index, total, nil
}
