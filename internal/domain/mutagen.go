// Package domain contains the core mutation testing workflow and logic.
package domain

import (
	"context"
	"errors"
	"log/slog"

	"gooze.dev/pkg/clooze/internal/adapter"
	m "gooze.dev/pkg/clooze/internal/model"
)

// UnitPlan is the scan outcome of one unit: its sites and the instances
// expanded from them.
type UnitPlan struct {
	Unit      m.Unit
	Sites     []m.Site
	Instances []m.Instance
}

// Mutagen turns units into mutation instances.
type Mutagen interface {
	// ScanUnit reads the unit source and returns its mutation sites.
	ScanUnit(ctx context.Context, unit m.Unit, scanner *Scanner) ([]m.Site, error)
	// StreamPlans scans units in order and streams one plan per unit with
	// instance indices numbered across all units. A unit that cannot be read
	// or parsed yields a *UnitError on the error channel and is skipped.
	StreamPlans(ctx context.Context, units []m.Unit, scanner *Scanner) (<-chan UnitPlan, <-chan error)
}

type mutagen struct {
	adapter.SourceFSAdapter
}

// NewMutagen creates a new Mutagen instance.
func NewMutagen(sourceFSAdapter adapter.SourceFSAdapter) Mutagen {
	return &mutagen{SourceFSAdapter: sourceFSAdapter}
}

func (mg *mutagen) ScanUnit(ctx context.Context, unit m.Unit, scanner *Scanner) ([]m.Site, error) {
	path := unit.SourcePath()

	content, err := mg.ReadFile(ctx, path)
	if err != nil {
		return nil, &UnitError{Unit: path, Err: err}
	}

	sites, err := scanner.Scan(path, content)
	if err != nil {
		return nil, &UnitError{Unit: path, Err: err}
	}

	return sites, nil
}

func (mg *mutagen) StreamPlans(ctx context.Context, units []m.Unit, scanner *Scanner) (<-chan UnitPlan, <-chan error) {
	planCh := make(chan UnitPlan)
	errCh := make(chan error, len(units)+1)

	go func() {
		defer close(planCh)
		defer close(errCh)

		next := 0

		for _, unit := range units {
			if err := ctx.Err(); err != nil {
				errCh <- err
				return
			}

			sites, err := mg.ScanUnit(ctx, unit, scanner)
			if err != nil {
				slog.Warn("Skipping unit that could not be scanned", "unit", unit.SourcePath(), "error", err)

				errCh <- err

				continue
			}

			plan := UnitPlan{
				Unit:      unit,
				Sites:     sites,
				Instances: Expand(sites, unit.Namespace, next),
			}
			next += len(plan.Instances)

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case planCh <- plan:
			}
		}
	}()

	return planCh, errCh
}

// collectPlans drains StreamPlans. Unit errors are returned alongside the
// plans; a context error aborts the collection.
func collectPlans(ctx context.Context, mg Mutagen, units []m.Unit, scanner *Scanner) ([]UnitPlan, []error, error) {
	planCh, errCh := mg.StreamPlans(ctx, units, scanner)

	var plans []UnitPlan
	for plan := range planCh {
		plans = append(plans, plan)
	}

	var unitErrs []error

	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}

		unitErrs = append(unitErrs, err)
	}

	return plans, unitErrs, nil
}
