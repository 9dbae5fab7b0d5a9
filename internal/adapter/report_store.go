package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/clooze/internal/model"
)

// ReportFileName is the file a run report is stored in.
const ReportFileName = "report.yaml"

// ErrNoReport is returned when the reports directory holds no report.
var ErrNoReport = errors.New("no saved report")

// ReportStore persists run reports.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error
	LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error)
}

// YAMLReportStore stores reports as YAML on a billy.Filesystem.
type YAMLReportStore struct {
	fs billy.Filesystem
}

// NewReportStore constructs a YAMLReportStore over filesystem.
func NewReportStore(filesystem billy.Filesystem) *YAMLReportStore {
	return &YAMLReportStore{fs: filesystem}
}

// NewLocalReportStore constructs a YAMLReportStore on the OS filesystem.
func NewLocalReportStore() *YAMLReportStore {
	return NewReportStore(osfs.New(string(filepath.Separator)))
}

// SaveReport writes report to dir/report.yaml, creating dir when needed.
func (s *YAMLReportStore) SaveReport(ctx context.Context, dir m.Path, report m.RunReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.reportPath(dir)

	if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create reports directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := util.WriteFile(s.fs, target, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", target, err)
	}

	return nil
}

// LoadReport reads the report saved in dir.
func (s *YAMLReportStore) LoadReport(ctx context.Context, dir m.Path) (m.RunReport, error) {
	if err := ctx.Err(); err != nil {
		return m.RunReport{}, err
	}

	target := s.reportPath(dir)

	data, err := util.ReadFile(s.fs, target)
	if errors.Is(err, os.ErrNotExist) {
		return m.RunReport{}, fmt.Errorf("%w in %s", ErrNoReport, dir)
	}

	if err != nil {
		return m.RunReport{}, fmt.Errorf("read report %s: %w", target, err)
	}

	var report m.RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return m.RunReport{}, fmt.Errorf("decode report %s: %w", target, err)
	}

	return report, nil
}

func (s *YAMLReportStore) reportPath(dir m.Path) string {
	abs, err := filepath.Abs(string(dir))
	if err != nil {
		abs = string(dir)
	}

	return filepath.Join(abs, ReportFileName)
}
