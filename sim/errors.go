package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is wrapped by every *ConfigError.
	ErrConfiguration = errors.New("invalid scenario configuration")

	// ErrInvalidDelay is raised when a continuation is scheduled with a
	// negative or non-finite delay.
	ErrInvalidDelay = errors.New("invalid scheduling delay")

	// ErrClockBackward is raised when the scheduler pops an event that is due
	// before the current clock.
	ErrClockBackward = errors.New("clock moved backward")

	// ErrNotHolder is raised when a process releases a resource it does not hold.
	ErrNotHolder = errors.New("release by non-holder")

	// ErrOverCapacity is raised if a resource ever has more holders than slots.
	ErrOverCapacity = errors.New("resource over capacity")

	// ErrFailureOverdue is raised when a job finds its machine Up past its
	// scheduled failure time, i.e. no monitor is driving the machine.
	ErrFailureOverdue = errors.New("machine failure overdue")
)

// ConfigError reports a single invalid scenario field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// EngineError is a violated engine invariant. It indicates a logic defect,
// not bad input, and always aborts the replication it occurred in.
type EngineError struct {
	Clock float64
	Err   error
	Msg   string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine invariant violated at t=%.6f: %v: %s", e.Clock, e.Err, e.Msg)
}

func (e *EngineError) Unwrap() error { return e.Err }

// fail aborts the current run. The panic is recovered at the RunSingle boundary.
func fail(clock float64, err error, format string, args ...any) {
	panic(&EngineError{Clock: clock, Err: err, Msg: fmt.Sprintf(format, args...)})
}
