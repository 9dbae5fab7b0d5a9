package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/clooze/internal/adapter"
	adaptermocks "gooze.dev/pkg/clooze/internal/adapter/mocks"
	"gooze.dev/pkg/clooze/internal/domain"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
)

const coreSource = `(ns app.core)

(defn add [a b]
  (+ a b))

(defn negative? [x]
  (< x 0))
`

func coreUnit() m.Unit {
	return m.Unit{
		Namespace: "app.core",
		Source:    &m.File{ShortPath: "src/app/core.clj", FullPath: "/proj/src/app/core.clj"},
		Tests: []m.TestUnit{{
			Namespace: "app.core-test",
			File:      &m.File{ShortPath: "test/app/core_test.clj", FullPath: "/proj/test/app/core_test.clj"},
		}},
		Root: "/proj",
	}
}

func coreInstances() []m.Instance {
	return []m.Instance{
		{Index: 0, Position: m.Position{Row: 4, Col: 3}, Operator: "arith-add-sub", Original: "(+ a b)", Source: "/proj/src/app/core.clj", Namespace: "app.core"},
		{Index: 1, Position: m.Position{Row: 7, Col: 3}, Operator: "cmp-lt-lte", Original: "(< x 0)", Source: "/proj/src/app/core.clj", Namespace: "app.core"},
	}
}

type orchestratorFixture struct {
	fs       billy.Filesystem
	launcher *adaptermocks.MockSandboxLauncher
	sandbox  *adaptermocks.MockSandbox
	orch     domain.Orchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/proj/deps.edn", []byte("{}\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/proj/src/app/core.clj", []byte(coreSource), 0o644))

	launcher := adaptermocks.NewMockSandboxLauncher(t)
	sandbox := adaptermocks.NewMockSandbox(t)

	fsAdapter := adapter.NewSourceFSAdapter(fs, adapter.NewLocalClojureFileAdapter())

	return &orchestratorFixture{
		fs:       fs,
		launcher: launcher,
		sandbox:  sandbox,
		orch:     domain.NewOrchestrator(fsAdapter, launcher, domain.NewMutator(mutagens.Default())),
	}
}

func (f *orchestratorFixture) source(t *testing.T) string {
	t.Helper()

	content, err := util.ReadFile(f.fs, "/proj/src/app/core.clj")
	require.NoError(t, err)

	return string(content)
}

func (f *orchestratorFixture) expectSandbox() {
	f.launcher.EXPECT().Launch(mock.Anything, mock.Anything).Return(f.sandbox, nil).Once()
	f.sandbox.EXPECT().Reload(mock.Anything).Return(nil)
	f.sandbox.EXPECT().Close().Return(nil).Once()
}

func statuses(results []m.Result) []m.TestStatus {
	out := make([]m.TestStatus, 0, len(results))
	for _, result := range results {
		out = append(out, result.Status)
	}

	return out
}

func TestOrchestrator_TestUnit_ClassifiesAndRestores(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	var seen []string

	f.sandbox.EXPECT().RunTests(mock.Anything).RunAndReturn(func(context.Context) (m.TestOutcome, error) {
		seen = append(seen, f.source(t))
		return m.TestOutcome{Tests: 2, Assertions: 4, Failures: 1}, nil
	}).Once()
	f.sandbox.EXPECT().RunTests(mock.Anything).RunAndReturn(func(context.Context) (m.TestOutcome, error) {
		seen = append(seen, f.source(t))
		return m.TestOutcome{Tests: 2, Assertions: 4}, nil
	}).Once()

	var started, completed []int

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{
		Timeout:    time.Second,
		OnStart:    func(instance m.Instance) { started = append(started, instance.Index) },
		OnComplete: func(result m.Result) { completed = append(completed, result.Index) },
	})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Killed, m.Survived}, statuses(results))
	assert.Equal(t, []int{0, 1}, started)
	assert.Equal(t, []int{0, 1}, completed)

	require.Len(t, seen, 2)
	assert.Contains(t, seen[0], "(- a b)")
	assert.Contains(t, seen[0], "(< x 0)")
	assert.Contains(t, seen[1], "(+ a b)")
	assert.Contains(t, seen[1], "(<= x 0)")

	assert.Empty(t, results[0].Diff)
	assert.Contains(t, results[1].Diff, "+  (<= x 0))")
	assert.Equal(t, "app.core", results[1].Namespace)
	assert.Equal(t, m.Position{Row: 7, Col: 3}, results[1].Position)

	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_TestErrorCountsAsKilled(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	f.sandbox.EXPECT().RunTests(mock.Anything).Return(m.TestOutcome{}, errors.New("tests exited with status 1")).Times(2)

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Killed, m.Killed}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "status 1")
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_Timeout(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	f.sandbox.EXPECT().RunTests(mock.Anything).RunAndReturn(func(ctx context.Context) (m.TestOutcome, error) {
		<-ctx.Done()
		return m.TestOutcome{}, ctx.Err()
	}).Once()
	f.sandbox.EXPECT().RunTests(mock.Anything).Return(m.TestOutcome{Failures: 1}, nil).Once()

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.TimedOut, m.Killed}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "exceeded")
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_EnvironmentFailureAbortsUnit(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	f.sandbox.EXPECT().RunTests(mock.Anything).
		Return(m.TestOutcome{}, fmt.Errorf("%w: clojure: command not found", adapter.ErrEnvironment)).Once()

	var completed int

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{
		Timeout:    time.Second,
		OnComplete: func(m.Result) { completed++ },
	})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Errored, m.Errored}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "command not found")
	assert.Contains(t, results[1].Diagnostic, "unit aborted")
	assert.Equal(t, 2, completed)
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_LaunchFailure(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.launcher.EXPECT().Launch(mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: test command is empty", adapter.ErrEnvironment)).Once()

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Errored, m.Errored}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "sandbox launch failed")
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_Cancelled(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.sandbox.EXPECT().RunTests(mock.Anything).RunAndReturn(func(context.Context) (m.TestOutcome, error) {
		cancel()
		return m.TestOutcome{}, nil
	}).Once()

	results, err := f.orch.TestUnit(ctx, coreUnit(), coreInstances(), domain.RunOptions{Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Errored, m.Errored}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "cancelled")
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_SkipsInstancesThatDoNotApply(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	f.sandbox.EXPECT().RunTests(mock.Anything).Return(m.TestOutcome{Failures: 1}, nil).Once()

	instances := coreInstances()
	instances[0].Position = m.Position{Row: 42, Col: 1}

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), instances, domain.RunOptions{Timeout: time.Second})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, m.Killed, results[0].Status)
}

func TestOrchestrator_TestUnit_PanicRestoresSource(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.expectSandbox()

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{
		Timeout: time.Second,
		OnStart: func(m.Instance) { panic("display crashed") },
	})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Errored, m.Errored}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "display crashed")
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_ReloadFailureIsKilled(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.launcher.EXPECT().Launch(mock.Anything, mock.Anything).Return(f.sandbox, nil).Once()
	f.sandbox.EXPECT().Reload(mock.Anything).Return(errors.New("CompilerException")).Times(3)
	f.sandbox.EXPECT().Close().Return(nil).Once()

	results, err := f.orch.TestUnit(context.Background(), coreUnit(), coreInstances(), domain.RunOptions{Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, []m.TestStatus{m.Killed, m.Killed}, statuses(results))
	assert.Contains(t, results[0].Diagnostic, "reload")
	assert.Equal(t, coreSource, f.source(t))
}

func TestOrchestrator_TestUnit_UnreadableSource(t *testing.T) {
	f := newOrchestratorFixture(t)

	unit := coreUnit()
	unit.Source.FullPath = "/proj/src/app/missing.clj"

	_, err := f.orch.TestUnit(context.Background(), unit, coreInstances(), domain.RunOptions{Timeout: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read pristine source")
}
