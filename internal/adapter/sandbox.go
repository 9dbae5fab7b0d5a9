package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	m "gooze.dev/pkg/clooze/internal/model"
)

// ErrEnvironment marks failures of the execution environment itself, as
// opposed to failures caused by the code under test.
var ErrEnvironment = errors.New("execution environment failure")

const (
	defaultShell     = "sh"
	defaultWaitDelay = 5 * time.Second
	diagnosticLimit  = 2048
)

// Exit codes the shell uses for commands it could not find or execute.
const (
	exitNotExecutable = 126
	exitNotFound      = 127
)

var (
	ranPattern     = regexp.MustCompile(`Ran (\d+) tests containing (\d+) assertions\.`)
	failurePattern = regexp.MustCompile(`(\d+) failures, (\d+) errors\.`)
)

// Sandbox is an execution context bound to one compilation unit.
type Sandbox interface {
	// Reload makes the runtime pick up the current unit text. A returned
	// error that does not wrap ErrEnvironment is a compile fault.
	Reload(ctx context.Context) error

	// RunTests runs the unit's test namespaces and reports their outcome.
	RunTests(ctx context.Context) (m.TestOutcome, error)

	// Close releases the sandbox.
	Close() error
}

// SandboxLauncher acquires a Sandbox for a unit.
type SandboxLauncher interface {
	Launch(ctx context.Context, unit m.Unit) (Sandbox, error)
}

// CommandSandboxConfig configures the shell commands a CommandSandbox runs.
// Commands may reference {ns}, {file}, {tests}, {test-files} and
// {test-ns-flags}.
type CommandSandboxConfig struct {
	TestCommand   string
	ReloadCommand string
	Shell         string
	WaitDelay     time.Duration
}

// CommandLauncher launches CommandSandbox instances.
type CommandLauncher struct {
	config CommandSandboxConfig
}

// NewCommandLauncher constructs a CommandLauncher with defaults applied.
func NewCommandLauncher(config CommandSandboxConfig) *CommandLauncher {
	if config.Shell == "" {
		config.Shell = defaultShell
	}

	if config.WaitDelay <= 0 {
		config.WaitDelay = defaultWaitDelay
	}

	return &CommandLauncher{config: config}
}

// Launch checks the environment and returns a sandbox for unit.
func (l *CommandLauncher) Launch(ctx context.Context, unit m.Unit) (Sandbox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.TrimSpace(l.config.TestCommand) == "" {
		return nil, fmt.Errorf("%w: no test command configured", ErrEnvironment)
	}

	if _, err := exec.LookPath(l.config.Shell); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvironment, err)
	}

	info, err := os.Stat(string(unit.Root))
	if err != nil {
		return nil, fmt.Errorf("%w: project root: %w", ErrEnvironment, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: project root %s is not a directory", ErrEnvironment, unit.Root)
	}

	return &CommandSandbox{
		config: l.config,
		dir:    string(unit.Root),
		vars:   placeholders(unit),
	}, nil
}

// CommandSandbox runs one-shot shell commands in the project root. Every
// test run starts a fresh process, so Reload only runs the optional reload
// command.
type CommandSandbox struct {
	config CommandSandboxConfig
	dir    string
	vars   *strings.Replacer
}

// Reload runs the reload command when one is configured.
func (s *CommandSandbox) Reload(ctx context.Context) error {
	if s.config.ReloadCommand == "" {
		return nil
	}

	output, exitCode, err := s.run(ctx, s.config.ReloadCommand)
	if err != nil {
		return err
	}

	if exitCode != 0 {
		return fmt.Errorf("reload exited with status %d: %s", exitCode, Tail(output, diagnosticLimit))
	}

	return nil
}

// RunTests runs the test command and parses the clojure.test summary.
func (s *CommandSandbox) RunTests(ctx context.Context) (m.TestOutcome, error) {
	output, exitCode, err := s.run(ctx, s.config.TestCommand)
	if err != nil {
		return m.TestOutcome{Output: output}, err
	}

	outcome, parsed := ParseTestSummary(output)
	outcome.Output = output

	if exitCode != 0 && (!parsed || outcome.Passed()) {
		return outcome, fmt.Errorf("test command exited with status %d: %s", exitCode, Tail(output, diagnosticLimit))
	}

	return outcome, nil
}

// Close is a no-op; no process outlives a command.
func (s *CommandSandbox) Close() error {
	return nil
}

// run executes command and returns its combined output and exit code. Only
// failures to run the command at all are returned as errors.
func (s *CommandSandbox) run(ctx context.Context, command string) (string, int, error) {
	cmd := exec.CommandContext(ctx, s.config.Shell, "-c", s.vars.Replace(command))
	cmd.Dir = s.dir
	cmd.WaitDelay = s.config.WaitDelay
	configureProcess(cmd)

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return output.String(), -1, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code == exitNotFound || code == exitNotExecutable {
			return output.String(), code, fmt.Errorf("%w: %s", ErrEnvironment, Tail(output.String(), diagnosticLimit))
		}

		return output.String(), code, nil
	}

	if err != nil {
		return output.String(), -1, fmt.Errorf("%w: %w", ErrEnvironment, err)
	}

	return output.String(), 0, nil
}

func placeholders(unit m.Unit) *strings.Replacer {
	namespaces := unit.TestNamespaces()

	tests := make([]string, 0, len(namespaces))
	flags := make([]string, 0, 2*len(namespaces))

	for _, ns := range namespaces {
		tests = append(tests, ShellQuote(ns))
		flags = append(flags, "-n", ShellQuote(ns))
	}

	paths := unit.TestPaths()
	files := make([]string, 0, len(paths))

	for _, path := range paths {
		files = append(files, ShellQuote(string(path)))
	}

	return strings.NewReplacer(
		"{ns}", ShellQuote(unit.Namespace),
		"{file}", ShellQuote(string(unit.SourcePath())),
		"{tests}", strings.Join(tests, " "),
		"{test-files}", strings.Join(files, " "),
		"{test-ns-flags}", strings.Join(flags, " "),
	)
}

var safeShellWord = regexp.MustCompile(`^[A-Za-z0-9_./:=@%+-]+$`)

// ShellQuote quotes s for a POSIX shell when needed.
func ShellQuote(s string) string {
	if safeShellWord.MatchString(s) {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ParseTestSummary reads the clojure.test summary lines from output. When a
// runner prints several summaries the counts are summed.
func ParseTestSummary(output string) (m.TestOutcome, bool) {
	var outcome m.TestOutcome

	for _, match := range ranPattern.FindAllStringSubmatch(output, -1) {
		outcome.Tests += atoi(match[1])
		outcome.Assertions += atoi(match[2])
	}

	failures := failurePattern.FindAllStringSubmatch(output, -1)
	for _, match := range failures {
		outcome.Failures += atoi(match[1])
		outcome.Errors += atoi(match[2])
	}

	return outcome, len(failures) > 0
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}

// Tail returns at most the last limit bytes of s, trimmed.
func Tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}

	return "..." + s[len(s)-limit:]
}
