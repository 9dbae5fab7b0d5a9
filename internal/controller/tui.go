package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "gooze.dev/pkg/clooze/internal/model"
)

const (
	recentSurvivorLimit = 5
	maxProgressWidth    = 60
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	killedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	survivedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	timedOutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	erroredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EC4899"))
)

func statusStyle(status m.TestStatus) lipgloss.Style {
	switch status {
	case m.Killed:
		return killedStyle
	case m.Survived:
		return survivedStyle
	case m.TimedOut:
		return timedOutStyle
	case m.Errored:
		return erroredStyle
	}

	return mutedStyle
}

// TUI implements UI with a Bubble Tea program showing live progress.
// Estimations are printed once; test runs and summaries are rendered by the
// program until Close, or until the user quits when Wait is called.
type TUI struct {
	output    io.Writer
	input     io.Reader
	interrupt func()

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a TUI writing to output and reading keys from input.
// interrupt, when set, is called if the user presses ctrl+c mid-run.
func NewTUI(output io.Writer, input io.Reader, interrupt func()) *TUI {
	return &TUI{output: output, input: input, interrupt: interrupt}
}

// Start launches the program in test mode. Estimate mode prints statically.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := &StartConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	if cfg.mode == ModeEstimate {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	program := tea.NewProgram(
		newRunModel(t.interrupt),
		tea.WithOutput(t.output),
		tea.WithInput(t.input),
		tea.WithContext(ctx),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			slog.Error("TUI program failed", "error", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close stops the program and restores the terminal.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait(ctx context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(waitMsg{})

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return false
	}

	program.Send(msg)

	return true
}

// DisplayEstimation prints the estimation tables with a styled heading.
func (t *TUI) DisplayEstimation(ctx context.Context, estimations []Estimation, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		_, _ = fmt.Fprintln(t.output, survivedStyle.Render("estimation error: "+err.Error()))
		return err
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("clooze - mutation estimate"))
	b.WriteString("\n\n")

	planned, failed := splitEstimations(estimations)

	if len(planned) == 0 {
		b.WriteString(mutedStyle.Render("No units with tests found."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderEstimationTable(planned))

		if counts := operatorBreakdown(planned); len(counts) > 0 {
			b.WriteString("\n")
			b.WriteString(renderOperatorTable(counts))
		}
	}

	if len(failed) > 0 {
		b.WriteString("\n")
		b.WriteString(survivedStyle.Render(renderUnitErrors(failed)))
	}

	_, writeErr := io.WriteString(t.output, b.String())

	return writeErr
}

// DisplayConcurrencyInfo forwards worker and shard settings to the program.
func (t *TUI) DisplayConcurrencyInfo(_ context.Context, workers int, shardIndex int, shardCount int) {
	t.send(concurrencyMsg{workers: workers, shardIndex: shardIndex, shardCount: shardCount})
}

// DisplayUpcomingTestsInfo sets the progress total.
func (t *TUI) DisplayUpcomingTestsInfo(_ context.Context, count int) {
	t.send(upcomingMsg{total: count})
}

// DisplayStartingTestInfo marks a worker busy.
func (t *TUI) DisplayStartingTestInfo(_ context.Context, instance m.Instance, workerID int) {
	t.send(startedMsg{instance: instance, workerID: workerID})
}

// DisplayCompletedTestInfo advances the progress bar.
func (t *TUI) DisplayCompletedTestInfo(_ context.Context, instance m.Instance, result m.Result) {
	t.send(completedMsg{instance: instance, result: result})
}

// DisplayRunSummary shows the final report, printing it when no program runs.
func (t *TUI) DisplayRunSummary(_ context.Context, report m.RunReport) {
	if t.send(summaryMsg{report: report}) {
		return
	}

	_, _ = io.WriteString(t.output, renderReport(report))
}

type (
	concurrencyMsg struct{ workers, shardIndex, shardCount int }
	upcomingMsg    struct{ total int }
	startedMsg     struct {
		instance m.Instance
		workerID int
	}
	completedMsg struct {
		instance m.Instance
		result   m.Result
	}
	summaryMsg struct{ report m.RunReport }
	waitMsg    struct{}
)

// runModel is the Bubble Tea model of a mutation run.
type runModel struct {
	progress  progress.Model
	interrupt func()

	workers    int
	shardIndex int
	shardCount int
	total      int
	completed  int
	counts     map[m.TestStatus]int
	running    map[int]m.Instance
	recent     []m.Result

	report  *m.RunReport
	waiting bool
}

func newRunModel(interrupt func()) runModel {
	return runModel{
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		interrupt: interrupt,
		counts:    make(map[m.TestStatus]int),
		running:   make(map[int]m.Instance),
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.progress.Width = min(max(msg.Width-20, 10), maxProgressWidth)
		return rm, nil

	case tea.KeyMsg:
		return rm.handleKeyPress(msg)

	case concurrencyMsg:
		rm.workers, rm.shardIndex, rm.shardCount = msg.workers, msg.shardIndex, msg.shardCount

	case upcomingMsg:
		rm.total = msg.total

	case startedMsg:
		rm.running[msg.workerID] = msg.instance

	case completedMsg:
		rm.completed++
		rm.counts[msg.result.Status]++

		for worker, instance := range rm.running {
			if instance.Index == msg.result.Index {
				delete(rm.running, worker)
			}
		}

		if msg.result.Status == m.Survived {
			rm.recent = append(rm.recent, msg.result)
			if len(rm.recent) > recentSurvivorLimit {
				rm.recent = rm.recent[len(rm.recent)-recentSurvivorLimit:]
			}
		}

	case summaryMsg:
		report := msg.report
		rm.report = &report
		rm.running = make(map[int]m.Instance)

	case waitMsg:
		rm.waiting = true
	}

	return rm, nil
}

func (rm runModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if rm.report == nil && rm.interrupt != nil {
			rm.interrupt()
		}

		return rm, tea.Quit

	case "q", "esc":
		if rm.report != nil || rm.waiting {
			return rm, tea.Quit
		}
	}

	return rm, nil
}

func (rm runModel) percent() float64 {
	if rm.total == 0 {
		return 0
	}

	return float64(rm.completed) / float64(rm.total)
}

func (rm runModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("clooze - mutation testing"))
	b.WriteString("\n\n")

	if rm.report != nil {
		b.WriteString(renderReport(*rm.report))

		if rm.waiting {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render("q: quit"))
			b.WriteString("\n")
		}

		return b.String()
	}

	if rm.workers > 0 {
		line := fmt.Sprintf("%d worker(s)", rm.workers)
		if rm.shardCount > 1 {
			line += fmt.Sprintf(", shard %d/%d", rm.shardIndex, rm.shardCount)
		}

		b.WriteString(mutedStyle.Render(line))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s %d/%d\n", rm.progress.ViewAs(rm.percent()), rm.completed, rm.total)

	parts := make([]string, 0, len(reportedStatuses))
	for _, status := range reportedStatuses {
		parts = append(parts, statusStyle(status).Render(fmt.Sprintf("%s %d", status, rm.counts[status])))
	}

	b.WriteString(strings.Join(parts, mutedStyle.Render(" | ")))
	b.WriteString("\n")

	workers := make([]int, 0, len(rm.running))
	for worker := range rm.running {
		workers = append(workers, worker)
	}

	sort.Ints(workers)

	if len(workers) > 0 {
		b.WriteString("\n")
	}

	for _, worker := range workers {
		fmt.Fprintf(&b, "  worker %d: %s\n", worker, describeInstance(rm.running[worker]))
	}

	if len(rm.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(survivedStyle.Render("recent survivors"))
		b.WriteString("\n")

		for _, result := range rm.recent {
			fmt.Fprintf(&b, "  %s\n", describeResult(result))
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("ctrl+c: stop run"))
	b.WriteString("\n")

	return b.String()
}

// renderReport renders the summary table, score line and survivor diffs.
func renderReport(report m.RunReport) string {
	var b strings.Builder

	if len(report.Results) > 0 {
		b.WriteString(renderSummaryTable(report))
		b.WriteString("\n")
	}

	style := killedStyle
	if len(survivors(report)) > 0 {
		style = survivedStyle
	}

	b.WriteString(style.Render(summaryLine(report)))
	b.WriteString("\n")

	if len(report.UnitErrors) > 0 {
		b.WriteString("\n")
		b.WriteString(survivedStyle.Render(renderUnitErrors(report.UnitErrors)))
	}

	for _, result := range survivors(report) {
		b.WriteString("\n")
		b.WriteString(survivedStyle.Render(describeResult(result)))
		b.WriteString("\n")
		b.WriteString(result.Diff)
	}

	return b.String()
}
