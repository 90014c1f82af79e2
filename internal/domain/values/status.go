package values

import "fmt"

// Status is the outcome of checking one series, or of a whole run.
type Status string

const (
	// StatusPass indicates the series is within both tolerances
	StatusPass Status = "pass"
	// StatusFail indicates the series breached the active-substance margin or the impurity limit
	StatusFail Status = "fail"
	// StatusError indicates the series could not be evaluated (e.g. no units of that series)
	StatusError Status = "error"
	// StatusSkipped indicates the series was filtered out of the run
	StatusSkipped Status = "skipped"
)

// Precedence returns the numeric precedence of this status.
// Higher values win when statuses are aggregated.
//
// Precedence: Fail (3) > Error (2) > Skipped (1) > Pass (0)
func (s Status) Precedence() int {
	switch s {
	case StatusFail:
		return 3
	case StatusError:
		return 2
	case StatusSkipped:
		return 1
	case StatusPass:
		return 0
	default:
		return -1
	}
}

// StatusFromCheck maps a boolean check outcome to pass or fail.
func StatusFromCheck(passed bool) Status {
	if passed {
		return StatusPass
	}
	return StatusFail
}

// IsFailure returns true if this status represents a failure or error
func (s Status) IsFailure() bool {
	return s == StatusFail || s == StatusError
}

// IsSuccess returns true if this status represents success
func (s Status) IsSuccess() bool {
	return s == StatusPass
}

// IsSkipped returns true if this status represents a skip
func (s Status) IsSkipped() bool {
	return s == StatusSkipped
}

// Validate returns an error if the status value is invalid
func (s Status) Validate() error {
	switch s {
	case StatusPass, StatusFail, StatusError, StatusSkipped:
		return nil
	default:
		return fmt.Errorf("invalid status: %s", s)
	}
}
