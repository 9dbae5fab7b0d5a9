// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/clooze/internal/model"
)

// Estimation summarizes the mutations planned for one unit.
type Estimation struct {
	Namespace string
	Path      m.Path
	Sites     int
	Mutations int
	// Operators counts instances per operator id.
	Operators map[m.OperatorID]int
	// Error is set for a unit that could not be scanned; it has no counts.
	Error string
}

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeTest
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

// UI defines the interface for displaying mutation runs.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayEstimation(ctx context.Context, estimations []Estimation, err error) error
	DisplayConcurrencyInfo(ctx context.Context, workers int, shardIndex int, shardCount int)
	DisplayUpcomingTestsInfo(ctx context.Context, count int)
	DisplayStartingTestInfo(ctx context.Context, instance m.Instance, workerID int)
	DisplayCompletedTestInfo(ctx context.Context, instance m.Instance, result m.Result)
	DisplayRunSummary(ctx context.Context, report m.RunReport)
}

// NewUI returns the TUI when useTTY is set and the SimpleUI otherwise.
// interrupt is called when the user stops a run from the TUI.
func NewUI(cmd *cobra.Command, useTTY bool, interrupt func()) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout(), cmd.InOrStdin(), interrupt)
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
