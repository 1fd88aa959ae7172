package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExercises is returned for plans with an empty exercise list
	ErrNoExercises = errors.New("plan has no exercises")

	// ErrInvalidExercise is wrapped by every InvalidExerciseError
	ErrInvalidExercise = errors.New("invalid exercise")

	// ErrPlanNotFound is returned when the store has no plan with the requested id
	ErrPlanNotFound = errors.New("plan not found")
)

// InvalidExerciseError identifies the exercise that failed validation.
type InvalidExerciseError struct {
	Index  int
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidExerciseError) Error() string {
	return fmt.Sprintf("exercise %d (%q): %s", e.Index+1, e.Name, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidExercise.
func (e *InvalidExerciseError) Unwrap() error {
	return ErrInvalidExercise
}

// LoadError reports a plan that could not be fetched or did not validate.
type LoadError struct {
	ID  string
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading plan %q: %v", e.ID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}
