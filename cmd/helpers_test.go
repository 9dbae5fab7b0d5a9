package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"gooze.dev/pkg/clooze/internal/domain"
)

// newTestCmd builds a root command with subs attached whose commands use wf.
// Logs go to a temporary file.
func newTestCmd(t *testing.T, wf domain.Workflow, subs ...*cobra.Command) (*cobra.Command, func(args ...string) error, *bytes.Buffer) {
	t.Helper()

	original := newWorkflow
	newWorkflow = func(*cobra.Command, func()) domain.Workflow { return wf }
	t.Cleanup(func() { newWorkflow = original })

	cmd := newRootCmd()
	cmd.AddCommand(subs...)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	logFile := filepath.Join(t.TempDir(), "clooze.log")

	execute := func(args ...string) error {
		cmd.SetArgs(append([]string{"--" + logFileFlagName, logFile}, args...))
		return cmd.Execute()
	}

	return cmd, execute, out
}
