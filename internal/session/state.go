package session

import (
	"time"

	"workout_progress/internal/plan"
)

// EventKind names a session state change
type EventKind int

const (
	EventTimerStarted EventKind = iota // Countdown (re)started from the full duration
	EventTimerPaused                   // Countdown frozen
	EventTimerResumed                  // Countdown continues from where it was paused
	EventTick                          // One second of countdown elapsed
	EventClock                         // Session stopwatch advanced
	EventCompleted                     // Current exercise logged as completed
	EventSkipped                       // Current exercise skipped
	EventAdvanced                      // Moved on to the next exercise
	EventFinished                      // Terminal state reached
)

var eventNames = map[EventKind]string{
	EventTimerStarted: "timer_started",
	EventTimerPaused:  "timer_paused",
	EventTimerResumed: "timer_resumed",
	EventTick:         "tick",
	EventClock:        "clock",
	EventCompleted:    "completed",
	EventSkipped:      "skipped",
	EventAdvanced:     "advanced",
	EventFinished:     "finished",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is delivered to observers synchronously after each mutation
type Event struct {
	Kind     EventKind
	Exercise string   // Exercise the event refers to, empty for clock events
	State    Snapshot // State after the mutation
}

// Observer receives session events
type Observer func(Event)

// Snapshot is a read-only copy of the session state
type Snapshot struct {
	Title            string
	Exercises        []plan.Exercise
	CurrentIndex     int      // len(Exercises) once the session is finished
	Completed        []string // Names in completion order
	Skipped          []string // Names in skip order
	TimeRemaining    int      // Seconds, meaningful for timed exercises only
	TimerRunning     bool
	ExerciseProgress float64 // 0-100 for the current timed exercise
	StartedAt        time.Time
	ElapsedSeconds   int
}

// Done reports whether the session reached its terminal state
func (s Snapshot) Done() bool {
	return s.CurrentIndex >= len(s.Exercises)
}

// Current returns the active exercise, or false once the session is done
func (s Snapshot) Current() (plan.Exercise, bool) {
	if s.Done() || s.CurrentIndex < 0 {
		return plan.Exercise{}, false
	}
	return s.Exercises[s.CurrentIndex], true
}

// WorkoutProgress is the share of exercises already behind the user (0-100)
func (s Snapshot) WorkoutProgress() float64 {
	if len(s.Exercises) == 0 {
		return 0
	}
	return float64(s.CurrentIndex) / float64(len(s.Exercises)) * 100
}

// ExerciseElapsed is the number of countdown seconds already spent on the
// current timed exercise
func (s Snapshot) ExerciseElapsed() int {
	ex, ok := s.Current()
	if !ok || !ex.IsTimed() {
		return 0
	}
	return ex.Duration - s.TimeRemaining
}
