package sim

import "errors"

var (
	// ErrInvalidScheduleTime is returned when an event would be scheduled
	// before the current clock, or a run is asked to end in the past.
	ErrInvalidScheduleTime = errors.New("invalid schedule time")

	// ErrCapacityViolation means a resource's held count left [0, capacity].
	// It indicates an engine defect, never a recoverable condition.
	ErrCapacityViolation = errors.New("resource capacity violation")

	// ErrNotHeld is returned when a process releases a resource it does not hold.
	ErrNotHeld = errors.New("resource not held by process")

	// ErrProcessPanicked wraps a panic raised inside Process.Resume.
	ErrProcessPanicked = errors.New("process panicked")
)

// isEngineFault reports whether err must abort the whole run rather than
// just the process that surfaced it.
func isEngineFault(err error) bool {
	return errors.Is(err, ErrInvalidScheduleTime) || errors.Is(err, ErrCapacityViolation)
}
