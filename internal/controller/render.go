package controller

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	m "gooze.dev/pkg/clooze/internal/model"
)

// reportedStatuses is the column order of result tables.
var reportedStatuses = []m.TestStatus{m.Killed, m.Survived, m.TimedOut, m.Errored}

type operatorCount struct {
	id    m.OperatorID
	count int
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderEstimationTable(estimations []Estimation) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Namespace", "Path", "Sites", "Mutations"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	sites, mutations := 0, 0

	for _, estimation := range estimations {
		table.Append([]string{
			estimation.Namespace,
			string(estimation.Path),
			fmt.Sprintf("%d", estimation.Sites),
			fmt.Sprintf("%d", estimation.Mutations),
		})

		sites += estimation.Sites
		mutations += estimation.Mutations
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d units", len(estimations)),
		"",
		fmt.Sprintf("%d", sites),
		fmt.Sprintf("%d", mutations),
	})
	table.Render()

	return buf.String()
}

// splitEstimations separates planned units from the errors of units that
// could not be scanned.
func splitEstimations(estimations []Estimation) ([]Estimation, []string) {
	var (
		planned []Estimation
		failed  []string
	)

	for _, estimation := range estimations {
		if estimation.Error != "" {
			failed = append(failed, estimation.Error)
			continue
		}

		planned = append(planned, estimation)
	}

	return planned, failed
}

func renderUnitErrors(errs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Skipped units (%d):\n", len(errs))

	for _, err := range errs {
		fmt.Fprintf(&b, "  - %s\n", err)
	}

	return b.String()
}

// operatorBreakdown sums instances per operator, most frequent first.
func operatorBreakdown(estimations []Estimation) []operatorCount {
	totals := make(map[m.OperatorID]int)

	for _, estimation := range estimations {
		for id, count := range estimation.Operators {
			totals[id] += count
		}
	}

	counts := make([]operatorCount, 0, len(totals))
	for id, count := range totals {
		counts = append(counts, operatorCount{id: id, count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}

		return counts[i].id < counts[j].id
	})

	return counts
}

func renderOperatorTable(counts []operatorCount) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Operator", "Mutations"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, c := range counts {
		table.Append([]string{string(c.id), fmt.Sprintf("%d", c.count)})
	}

	table.Render()

	return buf.String()
}

type namespaceStats struct {
	namespace string
	counts    map[m.TestStatus]int
}

func statsByNamespace(results []m.Result) []namespaceStats {
	index := make(map[string]int)

	var stats []namespaceStats

	for _, result := range results {
		i, ok := index[result.Namespace]
		if !ok {
			i = len(stats)
			index[result.Namespace] = i
			stats = append(stats, namespaceStats{namespace: result.Namespace, counts: make(map[m.TestStatus]int)})
		}

		stats[i].counts[result.Status]++
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].namespace < stats[j].namespace
	})

	return stats
}

func renderSummaryTable(report m.RunReport) string {
	var buf bytes.Buffer

	header := []string{"Namespace"}
	alignment := []int{tablewriter.ALIGN_LEFT}

	for _, status := range reportedStatuses {
		header = append(header, status.String())
		alignment = append(alignment, tablewriter.ALIGN_RIGHT)
	}

	table := newTable(&buf, header)
	table.SetColumnAlignment(alignment)

	for _, stat := range statsByNamespace(report.Results) {
		row := []string{stat.namespace}
		for _, status := range reportedStatuses {
			row = append(row, fmt.Sprintf("%d", stat.counts[status]))
		}

		table.Append(row)
	}

	footer := []string{"total"}
	for _, status := range reportedStatuses {
		footer = append(footer, fmt.Sprintf("%d", report.Count(status)))
	}

	table.SetFooter(footer)
	table.Render()

	return buf.String()
}

// summaryLine is the one-line outcome of a run.
func summaryLine(report m.RunReport) string {
	line := fmt.Sprintf("Mutation score: %.2f%% (%d mutations, %d units", report.Score, len(report.Results), report.Units)

	if report.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", report.Skipped)
	}

	if report.Shard.Total > 1 {
		line += fmt.Sprintf(", shard %d/%d", report.Shard.Index, report.Shard.Total)
	}

	return line + fmt.Sprintf(", %s)", report.Elapsed.Round(time.Millisecond))
}

func survivors(report m.RunReport) []m.Result {
	var out []m.Result

	for _, result := range report.Results {
		if result.Status == m.Survived {
			out = append(out, result)
		}
	}

	return out
}

func describeInstance(instance m.Instance) string {
	return fmt.Sprintf("#%d %s %s:%s", instance.Index, instance.Operator, instance.Namespace, instance.Position)
}

func describeResult(result m.Result) string {
	return fmt.Sprintf("#%d %s %s:%s", result.Index, result.Operator, result.Namespace, result.Position)
}

// RenderOperators writes the operator catalog as a table.
func RenderOperators(w io.Writer, infos []m.OperatorInfo) error {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Operator", "Category", "Presets", "Description"})

	for _, info := range infos {
		table.Append([]string{
			string(info.ID),
			info.Category,
			strings.Join(info.Presets, ","),
			info.Description,
		})
	}

	table.SetFooter([]string{fmt.Sprintf("%d operators", len(infos)), "", "", ""})
	table.Render()

	_, err := io.Copy(w, &buf)

	return err
}
