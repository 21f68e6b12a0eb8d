package gpa

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports an unknown scale, a letter outside the scale, or a non-positive unit count.
	ErrConfiguration = errors.New("gpa: invalid configuration")
	// ErrNoData reports a computation with zero total units.
	ErrNoData = errors.New("gpa: no valid entries")
	// ErrScoreRange reports a combined raw score outside 0..100.
	ErrScoreRange = errors.New("gpa: score out of range")
	// ErrInfeasibleTarget reports a target that needs more than the scale maximum.
	ErrInfeasibleTarget = errors.New("gpa: target not achievable")
)

// Rejection describes a single skipped course entry.
type Rejection struct {
	Index int
	Title string
	Err   error
}

// Error implements the error interface.
func (r Rejection) Error() string {
	if r.Title != "" {
		return fmt.Sprintf("entry %d (%s): %v", r.Index, r.Title, r.Err)
	}
	return fmt.Sprintf("entry %d: %v", r.Index, r.Err)
}

// Unwrap exposes the underlying sentinel.
func (r Rejection) Unwrap() error {
	return r.Err
}

func configErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func fmtScoreErr(total float64) error {
	return fmt.Errorf("%w: combined score %g must be between 0 and %g", ErrScoreRange, total, MaxScore)
}
