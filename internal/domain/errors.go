package domain

import (
	"errors"
	"fmt"

	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
)

var (
	// ErrSiteNotFound is returned when no node at the position accepts the operator.
	ErrSiteNotFound = errors.New("mutation site not found")
	// ErrUnknownOperator is returned for operator ids missing from the catalog.
	ErrUnknownOperator = mutagens.ErrUnknownOperator
	// ErrTransformFailed is returned when an operator transform errors or panics.
	ErrTransformFailed = errors.New("transform failed")
	// ErrThresholdNotMet is returned when the mutation score is below the threshold.
	ErrThresholdNotMet = errors.New("mutation score below threshold")
)

// ConfigError reports an invalid run configuration. It is raised before any
// mutation is applied.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// UnitError reports a unit that could not be scanned or tested. It never
// aborts the run.
type UnitError struct {
	Unit m.Path
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("unit %s: %v", e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}
