package analysis

import (
	"fmt"
	"time"
)

// AnalysisError reports input that is too degenerate to analyze, such as a
// track shorter than one analysis window.
type AnalysisError struct {
	Op     string
	Reason string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// OutOfRangeError is returned by FrameMapper.Map for a negative playback
// position. The indices returned alongside it are still valid (clamped to 0).
type OutOfRangeError struct {
	Position time.Duration
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("playback position %v is negative", e.Position)
}

func analysisErrorf(op, format string, args ...any) *AnalysisError {
	return &AnalysisError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
