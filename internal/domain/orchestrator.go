package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gooze.dev/pkg/clooze/internal/adapter"
	m "gooze.dev/pkg/clooze/internal/model"
)

const diagnosticLimit = 2048

// RunOptions tune a unit run.
type RunOptions struct {
	// Timeout bounds reload plus test run of each instance. Zero disables it.
	Timeout time.Duration
	// OnStart is called before an instance's tests start.
	OnStart func(instance m.Instance)
	// OnComplete is called with every result as soon as it is classified.
	OnComplete func(result m.Result)
}

// Orchestrator runs the instances of one unit against its tests, one live
// mutant at a time, and always puts the pristine text back.
type Orchestrator interface {
	// TestUnit returns one result per instance in input order. Instances
	// that could not be applied produce no result. The error is non-nil only
	// when the unit could not be read or its pristine text not restored.
	TestUnit(ctx context.Context, unit m.Unit, instances []m.Instance, opts RunOptions) ([]m.Result, error)
}

type orchestrator struct {
	fsAdapter adapter.SourceFSAdapter
	launcher  adapter.SandboxLauncher
	mutator   Mutator
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem adapter, sandbox launcher and mutator.
func NewOrchestrator(fsAdapter adapter.SourceFSAdapter, launcher adapter.SandboxLauncher, mutator Mutator) Orchestrator {
	return &orchestrator{
		fsAdapter: fsAdapter,
		launcher:  launcher,
		mutator:   mutator,
	}
}

// execution is what the test goroutine hands back.
type execution struct {
	outcome m.TestOutcome
	err     error
}

func (o *orchestrator) TestUnit(ctx context.Context, unit m.Unit, instances []m.Instance, opts RunOptions) (results []m.Result, err error) {
	path := unit.SourcePath()
	if path == "" {
		return nil, fmt.Errorf("unit %s has no source file", unit.Namespace)
	}

	pristine, err := o.fsAdapter.ReadFile(ctx, path)
	if err != nil {
		slog.Error("Failed to read unit source", "path", path, "error", err)
		return nil, fmt.Errorf("read pristine source: %w", err)
	}

	sandbox, launchErr := o.launcher.Launch(ctx, unit)

	defer func() {
		if restoreErr := o.release(ctx, path, pristine, sandbox, opts.Timeout); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
	}()

	if launchErr != nil {
		slog.Error("Failed to launch sandbox", "unit", unit.Namespace, "error", launchErr)
		return o.abort(instances, fmt.Sprintf("sandbox launch failed: %v", launchErr), opts), nil
	}

	results = make([]m.Result, 0, len(instances))

	for i, instance := range instances {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return append(results, o.abort(instances[i:], fmt.Sprintf("run cancelled: %v", ctxErr), opts)...), nil
		}

		result, applied, fatal := o.testInstance(ctx, unit, sandbox, pristine, instance, opts)
		if !applied {
			continue
		}

		results = append(results, result)
		notify(opts.OnComplete, result)

		if fatal {
			return append(results, o.abort(instances[i+1:], "unit aborted: "+result.Diagnostic, opts)...), nil
		}
	}

	return results, nil
}

// testInstance applies, writes and tests one instance. applied is false
// when the instance was skipped; fatal reports that the unit must stop.
func (o *orchestrator) testInstance(
	ctx context.Context,
	unit m.Unit,
	sandbox adapter.Sandbox,
	pristine []byte,
	instance m.Instance,
	opts RunOptions,
) (result m.Result, applied bool, fatal bool) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while testing mutation", "unit", unit.Namespace, "operator", instance.Operator, "panic", r)

			result = newResult(instance, m.Errored, fmt.Sprintf("panic: %v", r), time.Since(start))
			applied = true
			fatal = true
		}
	}()

	mutated, err := o.mutator.Apply(pristine, instance.Position, instance.Operator)
	if err != nil {
		slog.Warn("Skipping mutation that could not be applied",
			"unit", unit.Namespace, "position", instance.Position.String(), "operator", instance.Operator, "error", err)

		return m.Result{}, false, false
	}

	if err := o.fsAdapter.WriteFile(ctx, unit.SourcePath(), mutated); err != nil {
		slog.Error("Failed to write mutated source", "path", unit.SourcePath(), "error", err)
		return newResult(instance, m.Errored, fmt.Sprintf("write mutant: %v", err), time.Since(start)), true, true
	}

	notifyStart(opts.OnStart, instance)

	status, diagnostic, fatal := o.execute(ctx, sandbox, opts.Timeout)

	result = newResult(instance, status, diagnostic, time.Since(start))
	if status == m.Survived {
		result.Diff = Diff(string(unit.Source.ShortPath), pristine, mutated)
	}

	return result, true, fatal
}

// execute reloads and runs the tests under the timeout and classifies the
// outcome. On timeout the test goroutine is abandoned.
func (o *orchestrator) execute(ctx context.Context, sandbox adapter.Sandbox, timeout time.Duration) (m.TestStatus, string, bool) {
	runCtx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	done := make(chan execution, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- execution{err: fmt.Errorf("test run panicked: %v", r)}
			}
		}()

		if err := sandbox.Reload(runCtx); err != nil {
			done <- execution{err: fmt.Errorf("reload: %w", err)}
			return
		}

		outcome, err := sandbox.RunTests(runCtx)
		done <- execution{outcome: outcome, err: err}
	}()

	var (
		run      execution
		received bool
	)

	select {
	case run = <-done:
		received = true
	case <-runCtx.Done():
	}

	switch {
	case ctx.Err() != nil:
		return m.Errored, fmt.Sprintf("run cancelled: %v", ctx.Err()), true
	case received && run.err == nil:
		if run.outcome.Passed() {
			return m.Survived, "", false
		}

		return m.Killed, fmt.Sprintf("%d failures, %d errors", run.outcome.Failures, run.outcome.Errors), false
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return m.TimedOut, fmt.Sprintf("exceeded %s", timeout), false
	case errors.Is(run.err, adapter.ErrEnvironment):
		return m.Errored, adapter.Tail(run.err.Error(), diagnosticLimit), true
	default:
		return m.Killed, adapter.Tail(run.err.Error(), diagnosticLimit), false
	}
}

// release writes the pristine text back and reloads it. Only a failed
// write-back is reported.
func (o *orchestrator) release(ctx context.Context, path m.Path, pristine []byte, sandbox adapter.Sandbox, timeout time.Duration) error {
	restoreCtx := context.WithoutCancel(ctx)

	var restoreErr error
	if err := o.fsAdapter.WriteFile(restoreCtx, path, pristine); err != nil {
		slog.Error("Failed to restore pristine source", "path", path, "error", err)
		restoreErr = fmt.Errorf("restore %s: %w", path, err)
	}

	if sandbox == nil {
		return restoreErr
	}

	reloadCtx, cancel := withTimeout(restoreCtx, timeout)
	defer cancel()

	if err := sandbox.Reload(reloadCtx); err != nil {
		slog.Warn("Failed to reload pristine source", "path", path, "error", err)
	}

	if err := sandbox.Close(); err != nil {
		slog.Warn("Failed to close sandbox", "path", path, "error", err)
	}

	return restoreErr
}

// abort marks every instance errored.
func (o *orchestrator) abort(instances []m.Instance, diagnostic string, opts RunOptions) []m.Result {
	results := make([]m.Result, 0, len(instances))

	for _, instance := range instances {
		result := newResult(instance, m.Errored, diagnostic, 0)
		results = append(results, result)
		notify(opts.OnComplete, result)
	}

	return results
}

func newResult(instance m.Instance, status m.TestStatus, diagnostic string, duration time.Duration) m.Result {
	return m.Result{
		Index:      instance.Index,
		Position:   instance.Position,
		Operator:   instance.Operator,
		Source:     instance.Source,
		Namespace:  instance.Namespace,
		Status:     status,
		Diagnostic: diagnostic,
		Duration:   duration,
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

func notify(fn func(m.Result), result m.Result) {
	if fn != nil {
		fn(result)
	}
}

func notifyStart(fn func(m.Instance), instance m.Instance) {
	if fn != nil {
		fn(instance)
	}
}
