package domain_test

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/clooze/internal/adapter"
	adaptermocks "gooze.dev/pkg/clooze/internal/adapter/mocks"
	"gooze.dev/pkg/clooze/internal/controller"
	controllermocks "gooze.dev/pkg/clooze/internal/controller/mocks"
	"gooze.dev/pkg/clooze/internal/domain"
	domainmocks "gooze.dev/pkg/clooze/internal/domain/mocks"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
)

type workflowFixture struct {
	ui    *controllermocks.MockUI
	store *adaptermocks.MockReportStore
	orch  *domainmocks.MockOrchestrator
	wf    domain.Workflow
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	return newWorkflowFixtureWith(t, nil)
}

// newWorkflowFixtureWith adds extra files to the fixture project.
func newWorkflowFixtureWith(t *testing.T, extra map[string]string) *workflowFixture {
	t.Helper()

	fs := memfs.New()
	files := map[string]string{
		"/proj/deps.edn":                 "{:paths [\"src\"]}\n",
		"/proj/src/app/core.clj":         coreSource,
		"/proj/src/app/math.clj":         "(ns app.math)\n\n(defn half [x]\n  (/ x 2))\n",
		"/proj/test/app/core_test.clj":   "(ns app.core-test)\n",
		"/proj/test/app/math_test.clj":   "(ns app.math-test)\n",
		"/proj/src/app/no_tests_yet.clj": "(ns app.no-tests-yet)\n(defn f [] (inc 1))\n",
	}

	maps.Copy(files, extra)

	for path, content := range files {
		require.NoError(t, util.WriteFile(fs, path, []byte(content), 0o644))
	}

	fsAdapter := adapter.NewSourceFSAdapter(fs, adapter.NewLocalClojureFileAdapter())

	f := &workflowFixture{
		ui:    controllermocks.NewMockUI(t),
		store: adaptermocks.NewMockReportStore(t),
		orch:  domainmocks.NewMockOrchestrator(t),
	}

	f.wf = domain.NewWorkflow(fsAdapter, f.store, f.ui, f.orch, domain.NewMutagen(fsAdapter), mutagens.Default())

	return f
}

func (f *workflowFixture) expectTestUI() {
	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().Close(mock.Anything).Return().Once()
	f.ui.EXPECT().DisplayConcurrencyInfo(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return().Once()
	f.ui.EXPECT().DisplayUpcomingTestsInfo(mock.Anything, mock.Anything).Return().Once()
	f.ui.EXPECT().DisplayStartingTestInfo(mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	f.ui.EXPECT().DisplayCompletedTestInfo(mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	f.ui.EXPECT().DisplayRunSummary(mock.Anything, mock.Anything).Return().Maybe()
}

func baseTestArgs() domain.TestArgs {
	return domain.TestArgs{
		EstimateArgs: domain.EstimateArgs{
			Paths:     []m.Path{"/proj/src"},
			TestPaths: []m.Path{"/proj/test"},
		},
		Reports:  "/proj/.clooze",
		Parallel: 2,
		Timeout:  time.Second,
	}
}

// runAll classifies every instance as killed except the survivor index.
func runAll(survivor int) func(context.Context, m.Unit, []m.Instance, domain.RunOptions) ([]m.Result, error) {
	return func(_ context.Context, _ m.Unit, instances []m.Instance, opts domain.RunOptions) ([]m.Result, error) {
		results := make([]m.Result, 0, len(instances))

		for _, instance := range instances {
			opts.OnStart(instance)

			status := m.Killed
			if instance.Index == survivor {
				status = m.Survived
			}

			result := m.Result{
				Index:     instance.Index,
				Position:  instance.Position,
				Operator:  instance.Operator,
				Source:    instance.Source,
				Namespace: instance.Namespace,
				Status:    status,
			}

			opts.OnComplete(result)
			results = append(results, result)
		}

		return results, nil
	}
}

func TestWorkflow_Estimate(t *testing.T) {
	f := newWorkflowFixture(t)

	var estimations []controller.Estimation

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, nil).
		Run(func(_ context.Context, got []controller.Estimation, _ error) { estimations = got }).
		Return(nil).Once()
	f.ui.EXPECT().Wait(mock.Anything).Return().Once()
	f.ui.EXPECT().Close(mock.Anything).Return().Once()

	err := f.wf.Estimate(context.Background(), baseTestArgs().EstimateArgs)
	require.NoError(t, err)

	require.Len(t, estimations, 2)
	assert.Equal(t, "app.core", estimations[0].Namespace)
	assert.Equal(t, m.Path("src/app/core.clj"), estimations[0].Path)
	assert.Equal(t, "app.math", estimations[1].Namespace)

	for _, estimation := range estimations {
		total := 0
		for _, count := range estimation.Operators {
			total += count
		}

		assert.Equal(t, estimation.Mutations, total)
		assert.LessOrEqual(t, estimation.Sites, estimation.Mutations)
	}

	assert.Equal(t, 1, estimations[0].Operators["arith-add-sub"])
	assert.Equal(t, 1, estimations[0].Operators["cmp-lt-lte"])
}

func TestWorkflow_Estimate_DiscoveryError(t *testing.T) {
	f := newWorkflowFixture(t)

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().Close(mock.Anything).Return().Once()

	args := baseTestArgs().EstimateArgs
	args.Paths = []m.Path{"/missing"}

	err := f.wf.Estimate(context.Background(), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discover units")
}

func TestWorkflow_Estimate_UnknownPreset(t *testing.T) {
	f := newWorkflowFixture(t)

	args := baseTestArgs().EstimateArgs
	args.Preset = "everything"

	err := f.wf.Estimate(context.Background(), args)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "run.preset", cfgErr.Field)
	require.ErrorIs(t, err, mutagens.ErrUnknownPreset)
}

func TestWorkflow_Test(t *testing.T) {
	f := newWorkflowFixture(t)
	f.expectTestUI()

	f.orch.EXPECT().TestUnit(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(runAll(0)).Times(2)

	var saved m.RunReport

	f.store.EXPECT().SaveReport(mock.Anything, m.Path("/proj/.clooze"), mock.Anything).
		Run(func(_ context.Context, _ m.Path, report m.RunReport) { saved = report }).
		Return(nil).Once()

	report, err := f.wf.Test(context.Background(), baseTestArgs())
	require.NoError(t, err)

	assert.Equal(t, saved.Results, report.Results)
	assert.Equal(t, 2, report.Units)
	assert.Equal(t, 0, report.Skipped)
	require.NotEmpty(t, report.Results)

	for i, result := range report.Results {
		assert.Equal(t, i, result.Index)
	}

	assert.Equal(t, 1, report.Count(m.Survived))
	assert.InDelta(t, domain.MutationScore(report.Results), report.Score, 1e-9)
	assert.Less(t, report.Score, 100.0)

	assert.Equal(t, mutagens.PresetStandard, report.Config.Preset)
	assert.Equal(t, 2, report.Config.Parallel)
	assert.Equal(t, time.Second, report.Config.Timeout)
	assert.Equal(t, domain.DefaultSkipForms, report.Config.SkipForms)
	assert.Len(t, report.Config.Operators, len(mutagens.Catalog()))
}

func TestWorkflow_Test_ThresholdNotMet(t *testing.T) {
	f := newWorkflowFixture(t)
	f.expectTestUI()

	f.orch.EXPECT().TestUnit(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ m.Unit, instances []m.Instance, _ domain.RunOptions) ([]m.Result, error) {
			results := make([]m.Result, 0, len(instances))
			for _, instance := range instances {
				results = append(results, m.Result{Index: instance.Index, Status: m.Survived})
			}

			return results, nil
		}).Times(2)
	f.store.EXPECT().SaveReport(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	args := baseTestArgs()
	args.Threshold = 50

	report, err := f.wf.Test(context.Background(), args)
	require.ErrorIs(t, err, domain.ErrThresholdNotMet)
	assert.InDelta(t, 0.0, report.Score, 1e-9)
}

func TestWorkflow_Test_ExplicitOperators(t *testing.T) {
	f := newWorkflowFixture(t)
	f.expectTestUI()

	var instances []m.Instance

	f.orch.EXPECT().TestUnit(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, unit m.Unit, got []m.Instance, opts domain.RunOptions) ([]m.Result, error) {
			instances = append(instances, got...)
			return runAll(-1)(ctx, unit, got, opts)
		}).Once()
	f.store.EXPECT().SaveReport(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	args := baseTestArgs()
	args.Parallel = 1
	args.Preset = mutagens.PresetMinimal
	args.Operators = []m.OperatorID{"arith-add-sub"}

	report, err := f.wf.Test(context.Background(), args)
	require.NoError(t, err)

	require.Len(t, instances, 1)
	assert.Equal(t, m.OperatorID("arith-add-sub"), instances[0].Operator)
	assert.Equal(t, []m.OperatorID{"arith-add-sub"}, report.Config.Operators)
	assert.Equal(t, 2, report.Units)
	assert.InDelta(t, 100.0, report.Score, 1e-9)
}

func TestWorkflow_Test_Shard(t *testing.T) {
	f := newWorkflowFixture(t)
	f.expectTestUI()

	var tested []string

	f.orch.EXPECT().TestUnit(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, unit m.Unit, instances []m.Instance, opts domain.RunOptions) ([]m.Result, error) {
			tested = append(tested, unit.Namespace)
			return runAll(-1)(ctx, unit, instances, opts)
		}).Once()
	f.store.EXPECT().SaveReport(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	args := baseTestArgs()
	args.ShardIndex = 1
	args.TotalShards = 2

	report, err := f.wf.Test(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, []string{"app.math"}, tested)
	assert.Equal(t, m.Shard{Index: 1, Total: 2}, report.Shard)
	assert.Equal(t, 1, report.Units)
}

func TestWorkflow_Test_UnitFailureKeepsOtherResults(t *testing.T) {
	f := newWorkflowFixture(t)
	f.expectTestUI()

	restoreErr := errors.New("restore failed")

	f.orch.EXPECT().TestUnit(mock.Anything, mock.MatchedBy(func(u m.Unit) bool { return u.Namespace == "app.core" }), mock.Anything, mock.Anything).
		Return(nil, restoreErr).Once()
	f.orch.EXPECT().TestUnit(mock.Anything, mock.MatchedBy(func(u m.Unit) bool { return u.Namespace == "app.math" }), mock.Anything, mock.Anything).
		RunAndReturn(runAll(-1)).Once()

	var saved bool

	f.store.EXPECT().SaveReport(mock.Anything, mock.Anything, mock.Anything).
		Run(func(context.Context, m.Path, m.RunReport) { saved = true }).
		Return(nil).Once()

	report, err := f.wf.Test(context.Background(), baseTestArgs())
	require.ErrorIs(t, err, restoreErr)

	var unitErr *domain.UnitError
	require.ErrorAs(t, err, &unitErr)
	assert.Equal(t, m.Path("/proj/src/app/core.clj"), unitErr.Unit)

	assert.True(t, saved)
	assert.NotEmpty(t, report.Results)
	assert.Positive(t, report.Skipped)
	require.Len(t, report.UnitErrors, 1)
	assert.Contains(t, report.UnitErrors[0], "restore failed")

	for _, result := range report.Results {
		assert.Equal(t, "app.math", result.Namespace)
	}
}

var brokenUnitFiles = map[string]string{
	"/proj/src/app/broken.clj":       "(ns app.broken)\n(defn f [a b]\n  (+ a b)\n",
	"/proj/test/app/broken_test.clj": "(ns app.broken-test)\n",
}

func TestWorkflow_Estimate_ReportsUnparseableUnit(t *testing.T) {
	f := newWorkflowFixtureWith(t, brokenUnitFiles)

	var estimations []controller.Estimation

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, nil).
		Run(func(_ context.Context, got []controller.Estimation, _ error) { estimations = got }).
		Return(nil).Once()
	f.ui.EXPECT().Wait(mock.Anything).Return().Once()
	f.ui.EXPECT().Close(mock.Anything).Return().Once()

	require.NoError(t, f.wf.Estimate(context.Background(), baseTestArgs().EstimateArgs))

	require.Len(t, estimations, 3)
	assert.Equal(t, "app.core", estimations[0].Namespace)
	assert.Equal(t, "app.math", estimations[1].Namespace)

	failed := estimations[2]
	assert.Equal(t, m.Path("/proj/src/app/broken.clj"), failed.Path)
	assert.Contains(t, failed.Error, "syntax error at 2:1")
	assert.Zero(t, failed.Mutations)
}

func TestWorkflow_Test_ReportsUnparseableUnit(t *testing.T) {
	f := newWorkflowFixtureWith(t, brokenUnitFiles)
	f.expectTestUI()

	f.orch.EXPECT().TestUnit(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(runAll(-1)).Times(2)

	var saved m.RunReport

	f.store.EXPECT().SaveReport(mock.Anything, mock.Anything, mock.Anything).
		Run(func(_ context.Context, _ m.Path, report m.RunReport) { saved = report }).
		Return(nil).Once()

	report, err := f.wf.Test(context.Background(), baseTestArgs())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Units)
	require.Len(t, report.UnitErrors, 1)
	assert.Contains(t, report.UnitErrors[0], "/proj/src/app/broken.clj")
	assert.Contains(t, report.UnitErrors[0], "syntax error at 2:1")
	assert.Equal(t, report.UnitErrors, saved.UnitErrors)

	for _, result := range report.Results {
		assert.NotEqual(t, "app.broken", result.Namespace)
	}
}

func TestWorkflow_Test_DryRun(t *testing.T) {
	f := newWorkflowFixture(t)

	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayEstimation(mock.Anything, mock.Anything, nil).Return(nil).Once()
	f.ui.EXPECT().Wait(mock.Anything).Return().Once()
	f.ui.EXPECT().Close(mock.Anything).Return().Once()

	args := baseTestArgs()
	args.DryRun = true

	report, err := f.wf.Test(context.Background(), args)
	require.NoError(t, err)

	assert.Empty(t, report.Results)
	assert.Equal(t, 2, report.Units)
	assert.True(t, report.Config.DryRun)
}

func TestWorkflow_Test_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*domain.TestArgs)
		field  string
	}{
		{"zero timeout", func(a *domain.TestArgs) { a.Timeout = 0 }, "run.mutation_timeout"},
		{"no workers", func(a *domain.TestArgs) { a.Parallel = 0 }, "run.parallel"},
		{"negative threshold", func(a *domain.TestArgs) { a.Threshold = -1 }, "run.threshold"},
		{"threshold above 100", func(a *domain.TestArgs) { a.Threshold = 100.5 }, "run.threshold"},
		{"shard index out of range", func(a *domain.TestArgs) { a.ShardIndex, a.TotalShards = 2, 2 }, "shard"},
		{"negative shard index", func(a *domain.TestArgs) { a.ShardIndex, a.TotalShards = -1, 3 }, "shard"},
		{"unknown operator", func(a *domain.TestArgs) { a.Operators = []m.OperatorID{"arith-pow"} }, "run.operators"},
		{"unknown preset", func(a *domain.TestArgs) { a.Preset = "nope" }, "run.preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWorkflowFixture(t)

			args := baseTestArgs()
			tt.modify(&args)

			_, err := f.wf.Test(context.Background(), args)

			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestWorkflow_View(t *testing.T) {
	f := newWorkflowFixture(t)

	stored := m.RunReport{
		Results: []m.Result{{Index: 0, Status: m.Killed}, {Index: 1, Status: m.Survived}},
		Units:   1,
		Score:   50,
	}

	f.store.EXPECT().LoadReport(mock.Anything, m.Path("/proj/.clooze")).Return(stored, nil).Once()
	f.ui.EXPECT().Start(mock.Anything, mock.Anything).Return(nil).Once()
	f.ui.EXPECT().DisplayRunSummary(mock.Anything, stored).Return().Once()
	f.ui.EXPECT().Wait(mock.Anything).Return().Once()
	f.ui.EXPECT().Close(mock.Anything).Return().Once()

	require.NoError(t, f.wf.View(context.Background(), domain.ViewArgs{Reports: "/proj/.clooze"}))
}

func TestWorkflow_View_NoReport(t *testing.T) {
	f := newWorkflowFixture(t)

	f.store.EXPECT().LoadReport(mock.Anything, mock.Anything).Return(m.RunReport{}, adapter.ErrNoReport).Once()

	err := f.wf.View(context.Background(), domain.ViewArgs{Reports: "/proj/.clooze"})
	require.ErrorIs(t, err, adapter.ErrNoReport)
}

func TestShardUnits(t *testing.T) {
	units := []m.Unit{{Namespace: "a"}, {Namespace: "b"}, {Namespace: "c"}, {Namespace: "d"}, {Namespace: "e"}}

	names := func(units []m.Unit) []string {
		out := make([]string, 0, len(units))
		for _, unit := range units {
			out = append(out, unit.Namespace)
		}

		return out
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(domain.ShardUnits(units, 0, 0)))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(domain.ShardUnits(units, 0, 1)))
	assert.Equal(t, []string{"a", "c", "e"}, names(domain.ShardUnits(units, 0, 2)))
	assert.Equal(t, []string{"b", "d"}, names(domain.ShardUnits(units, 1, 2)))

	seen := 0
	for i := range 3 {
		seen += len(domain.ShardUnits(units, i, 3))
	}

	assert.Equal(t, len(units), seen)
}
