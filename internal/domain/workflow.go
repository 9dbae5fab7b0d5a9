package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/clooze/internal/adapter"
	"gooze.dev/pkg/clooze/internal/controller"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
	pkg "gooze.dev/pkg/clooze/pkg"
)

// EstimateArgs contains the arguments for planning mutations.
type EstimateArgs struct {
	Paths     []m.Path
	TestPaths []m.Path
	Exclude   []string
	Preset    string
	Operators []m.OperatorID
	// SkipForms replaces DefaultSkipForms when non-nil.
	SkipForms []string
}

// TestArgs contains the arguments for running mutation tests.
type TestArgs struct {
	EstimateArgs
	Reports        m.Path
	Parallel       int
	ShardIndex     int
	TotalShards    int
	Timeout        time.Duration
	Threshold      float64
	DryRun         bool
	SkipEquivalent bool
}

// ViewArgs contains the arguments for displaying a saved report.
type ViewArgs struct {
	Reports m.Path
}

// Workflow ties discovery, scanning, execution and reporting together.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	Test(ctx context.Context, args TestArgs) (m.RunReport, error)
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Orchestrator
	Mutagen
	registry *mutagens.Registry
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	orchestrator Orchestrator,
	mutagen Mutagen,
	registry *mutagens.Registry,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Orchestrator:    orchestrator,
		Mutagen:         mutagen,
		registry:        registry,
	}
}

// Estimate scans the units and displays how many mutations each would get.
func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	scanner, err := w.scannerFor(args)
	if err != nil {
		return err
	}

	_, _, err = w.estimate(ctx, args, scanner, m.Shard{})

	return err
}

func (w *workflow) estimate(ctx context.Context, args EstimateArgs, scanner *Scanner, shard m.Shard) ([]UnitPlan, []error, error) {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return nil, nil, err
	}

	plans, unitErrs, err := w.plan(ctx, args, scanner, shard)
	if err != nil {
		_ = w.DisplayEstimation(ctx, nil, err)

		w.Close(ctx)
		slog.Error("Failed to plan mutations", "error", err)

		return nil, nil, fmt.Errorf("plan mutations: %w", err)
	}

	if err := w.DisplayEstimation(ctx, estimationsFor(plans, unitErrs), nil); err != nil {
		w.Close(ctx)
		slog.Error("Failed to display estimation", "error", err)

		return nil, nil, fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)
	w.Close(ctx)

	return plans, unitErrs, nil
}

// Test runs every planned mutation of the shard and saves the report. It
// returns ErrThresholdNotMet when the score is below the threshold.
func (w *workflow) Test(ctx context.Context, args TestArgs) (m.RunReport, error) {
	scanner, err := w.validate(args)
	if err != nil {
		return m.RunReport{}, err
	}

	startedAt := time.Now()
	shard := m.Shard{Index: args.ShardIndex, Total: args.TotalShards}
	report := m.RunReport{Config: runConfig(args, scanner), Shard: shard}

	if args.SkipEquivalent {
		slog.Debug("Equivalent mutant detection is not available; running every mutant")
	}

	if args.DryRun {
		plans, unitErrs, err := w.estimate(ctx, args.EstimateArgs, scanner, shard)
		report.Units = len(plans)
		report.UnitErrors = unitErrorMessages(unitErrs)
		report.Score = MutationScore(nil)
		report.Elapsed = time.Since(startedAt)

		return report, err
	}

	if err := w.Start(ctx, controller.WithTestMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.RunReport{}, err
	}
	defer w.Close(ctx)

	plans, unitErrs, err := w.plan(ctx, args.EstimateArgs, scanner, shard)
	if err != nil {
		return m.RunReport{}, fmt.Errorf("plan mutations: %w", err)
	}

	total := 0
	for _, plan := range plans {
		total += len(plan.Instances)
	}

	w.DisplayConcurrencyInfo(ctx, args.Parallel, shard.Index, shard.Total)
	w.DisplayUpcomingTestsInfo(ctx, total)

	results, runErrs, runErr := w.runPlans(ctx, plans, args)

	report.Results = results
	report.UnitErrors = unitErrorMessages(append(unitErrs, runErrs...))
	report.Units = len(plans)
	report.Skipped = total - len(results)
	report.Score = MutationScore(results)
	report.Elapsed = time.Since(startedAt)

	if err := w.SaveReport(ctx, args.Reports, report); err != nil {
		slog.Error("Failed to save report", "path", args.Reports, "error", err)
		return report, fmt.Errorf("save report: %w", errors.Join(err, runErr))
	}

	w.DisplayRunSummary(ctx, report)

	if runErr != nil {
		return report, runErr
	}

	if report.Score < args.Threshold {
		return report, fmt.Errorf("%w: %.2f%% < %.2f%%", ErrThresholdNotMet, report.Score, args.Threshold)
	}

	return report, nil
}

// View loads the last saved report and displays it.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(ctx, args.Reports)
	if err != nil {
		slog.Error("Failed to load report", "path", args.Reports, "error", err)
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.Start(ctx, controller.WithTestMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	w.DisplayRunSummary(ctx, report)
	w.Wait(ctx)
	w.Close(ctx)

	return nil
}

func (w *workflow) validate(args TestArgs) (*Scanner, error) {
	if args.Timeout <= 0 {
		return nil, configErrorf("run.mutation_timeout", "must be positive, got %s", args.Timeout)
	}

	if args.Parallel < 1 {
		return nil, configErrorf("run.parallel", "must be at least 1, got %d", args.Parallel)
	}

	if args.Threshold < 0 || args.Threshold > 100 {
		return nil, configErrorf("run.threshold", "must be within 0..100, got %g", args.Threshold)
	}

	if args.TotalShards < 0 || (args.TotalShards > 0 && (args.ShardIndex < 0 || args.ShardIndex >= args.TotalShards)) {
		return nil, configErrorf("shard", "index %d is outside 0..%d", args.ShardIndex, args.TotalShards-1)
	}

	return w.scannerFor(args.EstimateArgs)
}

func (w *workflow) scannerFor(args EstimateArgs) (*Scanner, error) {
	operators, err := w.registry.Resolve(args.Preset, args.Operators)
	if err != nil {
		field := "run.preset"
		if errors.Is(err, mutagens.ErrUnknownOperator) {
			field = "run.operators"
		}

		return nil, &ConfigError{Field: field, Err: err}
	}

	skipForms := args.SkipForms
	if skipForms == nil {
		skipForms = DefaultSkipForms
	}

	return NewScanner(operators, skipForms), nil
}

// plan discovers the shard's units and scans them. Units that fail to scan
// are returned as errors next to the plans.
func (w *workflow) plan(ctx context.Context, args EstimateArgs, scanner *Scanner, shard m.Shard) ([]UnitPlan, []error, error) {
	units, err := w.Get(ctx, args.Paths, args.TestPaths, args.Exclude...)
	if err != nil {
		return nil, nil, fmt.Errorf("discover units: %w", err)
	}

	units = ShardUnits(units, shard.Index, shard.Total)
	slog.Debug("Discovered units", "count", len(units), "shard", shard.Index, "shards", shard.Total)

	plans, unitErrs, err := collectPlans(ctx, w.Mutagen, units, scanner)
	if err != nil {
		return nil, nil, err
	}

	for _, unitErr := range unitErrs {
		slog.Warn("Unit skipped", "error", unitErr)
	}

	return plans, unitErrs, nil
}

// runPlans tests the units concurrently. Results travel through a spill file
// that is removed once read back. Units that failed are also returned one by
// one next to their joined error.
func (w *workflow) runPlans(ctx context.Context, plans []UnitPlan, args TestArgs) ([]m.Result, []error, error) {
	spill, err := pkg.NewTempSpill[m.Result]()
	if err != nil {
		return nil, nil, fmt.Errorf("create result spill: %w", err)
	}

	defer func() {
		if err := spill.Remove(); err != nil {
			slog.Warn("Failed to remove result spill", "path", spill.Path(), "error", err)
		}
	}()

	workers := make(chan int, args.Parallel)
	for id := range args.Parallel {
		workers <- id
	}

	var (
		group    errgroup.Group
		mu       sync.Mutex
		unitErrs []error
	)

	group.SetLimit(args.Parallel)

	for _, plan := range plans {
		if len(plan.Instances) == 0 {
			continue
		}

		group.Go(func() error {
			workerID := <-workers
			defer func() { workers <- workerID }()

			results, err := w.TestUnit(ctx, plan.Unit, plan.Instances, w.runOptions(ctx, plan, args.Timeout, workerID))
			if err != nil {
				slog.Error("Unit run failed", "unit", plan.Unit.Namespace, "error", err)

				mu.Lock()
				unitErrs = append(unitErrs, &UnitError{Unit: plan.Unit.SourcePath(), Err: err})
				mu.Unlock()
			}

			if err := spill.Append(results...); err != nil {
				return fmt.Errorf("spill results: %w", err)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	results, err := spill.Items()
	if err != nil {
		return nil, nil, fmt.Errorf("read results: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	return results, unitErrs, errors.Join(unitErrs...)
}

func unitErrorMessages(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}

	return messages
}

func (w *workflow) runOptions(ctx context.Context, plan UnitPlan, timeout time.Duration, workerID int) RunOptions {
	byIndex := make(map[int]m.Instance, len(plan.Instances))
	for _, instance := range plan.Instances {
		byIndex[instance.Index] = instance
	}

	return RunOptions{
		Timeout: timeout,
		OnStart: func(instance m.Instance) {
			w.DisplayStartingTestInfo(ctx, instance, workerID)
		},
		OnComplete: func(result m.Result) {
			w.DisplayCompletedTestInfo(ctx, byIndex[result.Index], result)
		},
	}
}

// ShardUnits keeps the units of one shard, assigned round robin by position.
// A total of zero or one keeps every unit.
func ShardUnits(units []m.Unit, index, total int) []m.Unit {
	if total <= 1 {
		return units
	}

	var shard []m.Unit

	for i, unit := range units {
		if i%total == index {
			shard = append(shard, unit)
		}
	}

	return shard
}

func runConfig(args TestArgs, scanner *Scanner) m.RunConfig {
	preset := args.Preset
	if preset == "" && len(args.Operators) == 0 {
		preset = mutagens.PresetStandard
	}

	operators := make([]m.OperatorID, 0, len(scanner.Operators()))
	for _, op := range scanner.Operators() {
		operators = append(operators, op.ID)
	}

	skipForms := args.SkipForms
	if skipForms == nil {
		skipForms = DefaultSkipForms
	}

	return m.RunConfig{
		Preset:         preset,
		Operators:      operators,
		Timeout:        args.Timeout,
		SkipEquivalent: args.SkipEquivalent,
		Threshold:      args.Threshold,
		DryRun:         args.DryRun,
		Parallel:       args.Parallel,
		SkipForms:      slices.Clone(skipForms),
	}
}

func estimationsFor(plans []UnitPlan, unitErrs []error) []controller.Estimation {
	estimations := make([]controller.Estimation, 0, len(plans)+len(unitErrs))

	for _, plan := range plans {
		estimation := controller.Estimation{
			Namespace: plan.Unit.Namespace,
			Sites:     len(plan.Sites),
			Mutations: len(plan.Instances),
			Operators: make(map[m.OperatorID]int),
		}

		if plan.Unit.Source != nil {
			estimation.Path = plan.Unit.Source.ShortPath
		}

		for _, instance := range plan.Instances {
			estimation.Operators[instance.Operator]++
		}

		estimations = append(estimations, estimation)
	}

	for _, err := range unitErrs {
		estimation := controller.Estimation{Error: err.Error()}

		var unitErr *UnitError
		if errors.As(err, &unitErr) {
			estimation.Path = unitErr.Unit
		}

		estimations = append(estimations, estimation)
	}

	return estimations
}
