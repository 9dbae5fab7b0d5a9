// Package cmd provides the root command and CLI setup for clooze.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/clooze/internal/adapter"
	"gooze.dev/pkg/clooze/internal/controller"
	"gooze.dev/pkg/clooze/internal/domain"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
)

// workflowFactory builds the workflow for a command. The interrupt func is
// handed to the UI so it can cancel the run.
type workflowFactory func(cmd *cobra.Command, interrupt func()) domain.Workflow

// newWorkflow is replaced in tests.
var newWorkflow workflowFactory = buildWorkflow

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var verboseFlag bool
var logFileFlag string

// buildWorkflow wires the production adapters into a workflow.
func buildWorkflow(cmd *cobra.Command, interrupt func()) domain.Workflow {
	registry := mutagens.Default()
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	launcher := adapter.NewCommandLauncher(adapter.CommandSandboxConfig{
		TestCommand:   viper.GetString(runTestCommandConfigKey),
		ReloadCommand: viper.GetString(runReloadCommandConfigKey),
	})
	ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()), interrupt)

	return domain.NewWorkflow(
		fsAdapter,
		adapter.NewLocalReportStore(),
		ui,
		domain.NewOrchestrator(fsAdapter, launcher, domain.NewMutator(registry)),
		domain.NewMutagen(fsAdapter),
		registry,
	)
}

const pathPatternsHelp = `Paths are source roots holding Clojure namespaces (default: paths.source,
which is "src"). Test namespaces are looked up under paths.test ("test"):
  - clooze run                 scan ./src
  - clooze run src/app         scan a single subtree
  - clooze run src other/src   scan several roots`

const rootLongDescription = `Clooze is a mutation testing tool for Clojure that helps you assess the
quality of your test suite by introducing small changes (mutations) to your
code and verifying that your tests catch them.

` + pathPatternsHelp

const runLongDescription = `Run mutation testing for the given source roots.

Every mutation is written into the namespace's file, the configured test
command runs against its test namespace and the original text is restored.

` + pathPatternsHelp

const listLongDescription = `List namespaces with tests and the number of applicable mutations.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clooze",
		Short:        "Clojure mutation testing tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default: log.filename)")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// commandContext returns a cancellable context derived from the command's.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithCancel(ctx)
}

// sourcePaths returns the positional paths or the configured source roots.
func sourcePaths(args []string) []m.Path {
	if len(args) == 0 {
		return parsePaths(viper.GetStringSlice(sourcePathsConfigKey))
	}

	return parsePaths(args)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func parseOperatorIDs(ids []string) []m.OperatorID {
	if len(ids) == 0 {
		return nil
	}

	out := make([]m.OperatorID, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.OperatorID(id))
	}

	return out
}

func estimateArgs(args []string) domain.EstimateArgs {
	return domain.EstimateArgs{
		Paths:     sourcePaths(args),
		TestPaths: parsePaths(viper.GetStringSlice(testPathsConfigKey)),
		Exclude:   viper.GetStringSlice(excludeConfigKey),
		Preset:    viper.GetString(runPresetConfigKey),
		Operators: parseOperatorIDs(operatorIDs()),
		SkipForms: viper.GetStringSlice(skipFormsConfigKey),
	}
}
