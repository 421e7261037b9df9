package meal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned for meal types outside breakfast, lunch and dinner.
	ErrUnknownType = errors.New("unknown meal type")

	// ErrInvalidDate is returned when a date string matches neither
	// yyyy-MM-dd nor DD-MM-YYYY as required by the call.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidCutoff is returned when a configured cutoff is not a
	// 12-hour clock time such as "8:00am" or "12pm".
	ErrInvalidCutoff = errors.New("invalid cutoff time")
)

// ContractError describes one raw meal that Normalize skipped because the
// backend payload broke the data contract.
type ContractError struct {
	EntryIndex int
	MealIndex  int
	Err        error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("meal entry %d/%d: %v", e.EntryIndex, e.MealIndex, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }
