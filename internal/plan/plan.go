// Package plan holds the workout plan records handed to a session and the
// loaders that fetch and validate them.
package plan

import (
	"fmt"
	"strings"
	"time"
)

// Kind says how an exercise's target is measured
type Kind int

const (
	KindReps     Kind = iota // Sets and reps, no timer
	KindDuration             // Countdown in seconds
)

func (k Kind) String() string {
	if k == KindDuration {
		return "duration"
	}
	return "reps"
}

// Exercise is a single step of a plan. Exactly one of Reps or Duration is set.
type Exercise struct {
	Name     string
	Sets     int    // Optional, 0 when absent
	Reps     string // Free-form, e.g. "10" or "8-12"
	Duration int    // Seconds, 0 for rep-based exercises
}

// Kind reports whether the exercise is rep-based or duration-based
func (e Exercise) Kind() Kind {
	if e.Duration > 0 {
		return KindDuration
	}
	return KindReps
}

// IsTimed is true for duration-based exercises
func (e Exercise) IsTimed() bool {
	return e.Kind() == KindDuration
}

// DurationTime returns the exercise duration as a time.Duration
func (e Exercise) DurationTime() time.Duration {
	return time.Duration(e.Duration) * time.Second
}

// Target describes the exercise target the way the plan list shows it,
// e.g. "3 sets × 10" or "30 sec".
func (e Exercise) Target() string {
	var b strings.Builder
	if e.Sets > 0 {
		fmt.Fprintf(&b, "%d sets × ", e.Sets)
	}
	if e.IsTimed() {
		fmt.Fprintf(&b, "%d sec", e.Duration)
	} else {
		b.WriteString(e.Reps)
	}
	return b.String()
}

// WorkoutPlan is an ordered sequence of exercises plus the descriptive fields
// the plan store keeps alongside it.
type WorkoutPlan struct {
	ID          string
	Title       string
	Difficulty  string // Beginner, Intermediate, Advanced, All Levels
	Focus       string // Strength, Cardio, Flexibility, Full Body, ...
	Description string
	CreatedBy   string
	Exercises   []Exercise
}

// Names returns the exercise names in plan order
func (p *WorkoutPlan) Names() []string {
	names := make([]string, len(p.Exercises))
	for i, e := range p.Exercises {
		names[i] = e.Name
	}
	return names
}

// TotalDuration sums the durations of the timed exercises
func (p *WorkoutPlan) TotalDuration() time.Duration {
	var total time.Duration
	for _, e := range p.Exercises {
		total += e.DurationTime()
	}
	return total
}

// Validate rejects plans a session cannot run
func (p *WorkoutPlan) Validate() error {
	if p == nil || len(p.Exercises) == 0 {
		return ErrNoExercises
	}
	for i, e := range p.Exercises {
		if err := validateExercise(i, e); err != nil {
			return err
		}
	}
	return nil
}

func validateExercise(i int, e Exercise) error {
	invalid := func(reason string) error {
		return &InvalidExerciseError{Index: i, Name: e.Name, Reason: reason}
	}

	switch {
	case strings.TrimSpace(e.Name) == "":
		return invalid("missing name")
	case e.Duration < 0:
		return invalid("duration must be positive")
	case e.Sets < 0:
		return invalid("sets must be positive")
	case e.Duration > 0 && e.Reps != "":
		return invalid("has both reps and duration")
	case e.Duration == 0 && strings.TrimSpace(e.Reps) == "":
		return invalid("needs reps or a duration")
	}
	return nil
}
