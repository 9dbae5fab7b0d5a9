package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "gooze.dev/pkg/clooze/internal/model"
)

// SimpleUI implements UI by printing plain text to the command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait returns immediately; SimpleUI never blocks.
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayEstimation prints the per-unit table and the operator breakdown.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, estimations []Estimation, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	planned, failed := splitEstimations(estimations)

	if len(planned) == 0 {
		s.printf("No units with tests found.\n")
	} else {
		s.printf("\n%s", renderEstimationTable(planned))

		if counts := operatorBreakdown(planned); len(counts) > 0 {
			s.printf("\n%s", renderOperatorTable(counts))
		}
	}

	if len(failed) > 0 {
		s.printf("\n%s", renderUnitErrors(failed))
	}

	return nil
}

// DisplayConcurrencyInfo shows worker and shard settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, workers int, shardIndex int, shardCount int) {
	if ctx.Err() != nil {
		return
	}

	if shardCount > 1 {
		s.printf("Running with %d worker(s) (shard %d/%d)\n", workers, shardIndex, shardCount)
		return
	}

	s.printf("Running with %d worker(s)\n", workers)
}

// DisplayUpcomingTestsInfo shows the number of mutations about to be tested.
func (s *SimpleUI) DisplayUpcomingTestsInfo(ctx context.Context, count int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Upcoming mutations: %d\n", count)
}

// DisplayStartingTestInfo announces a mutation test.
func (s *SimpleUI) DisplayStartingTestInfo(ctx context.Context, instance m.Instance, workerID int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("[worker %d] testing %s\n", workerID, describeInstance(instance))
}

// DisplayCompletedTestInfo prints the outcome, with the diff for survivors.
func (s *SimpleUI) DisplayCompletedTestInfo(ctx context.Context, instance m.Instance, result m.Result) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%s -> %s\n", describeResult(result), result.Status)

	switch result.Status {
	case m.Survived:
		if result.Diff != "" {
			s.printf("%s\n", result.Diff)
		} else if instance.Original != "" {
			s.printf("  original: %s\n", instance.Original)
		}
	case m.Errored, m.TimedOut:
		if result.Diagnostic != "" {
			s.printf("  %s\n", result.Diagnostic)
		}
	case m.Killed:
	}
}

// DisplayRunSummary prints the per-namespace table, the score and every survivor.
func (s *SimpleUI) DisplayRunSummary(ctx context.Context, report m.RunReport) {
	if ctx.Err() != nil {
		return
	}

	if len(report.Results) > 0 {
		s.printf("\n%s", renderSummaryTable(report))
	}

	s.printf("\n%s\n", summaryLine(report))

	if len(report.UnitErrors) > 0 {
		s.printf("\n%s", renderUnitErrors(report.UnitErrors))
	}

	left := survivors(report)
	if len(left) == 0 {
		return
	}

	s.printf("\nSurvived mutations (%d):\n", len(left))

	for _, result := range left {
		s.printf("\n%s\n", describeResult(result))

		if result.Diff != "" {
			s.printf("%s", result.Diff)
		}
	}
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
