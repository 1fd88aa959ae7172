// Package session walks a user through a workout plan: it owns the session
// state, the per-exercise countdown, the session stopwatch and the
// transitions between exercises.
//
// An Engine is not safe for concurrent use. Every mutation is expected to
// come from a single goroutine; Runner provides that goroutine together with
// the two one-second tickers.
package session

import (
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"workout_progress/internal/plan"
)

var (
	// ErrNotTimed is returned by StartTimer for rep-based exercises
	ErrNotTimed = errors.New("exercise has no duration")

	// ErrSessionFinished is returned by StartTimer once every exercise is done
	ErrSessionFinished = errors.New("session already finished")
)

// Engine holds the state of one workout session
type Engine struct {
	plan      *plan.WorkoutPlan
	exercises []plan.Exercise

	index     int
	completed []string
	skipped   []string

	remaining int
	running   bool
	progress  float64

	startedAt time.Time
	elapsed   int

	observers []Observer
	now       func() time.Time
	log       *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver registers an observer before the session starts
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithLogger sets the logger used for transition tracing
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New starts a session for p. Invalid plans are rejected and no session is
// created.
func New(p *plan.WorkoutPlan, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		plan:      p,
		exercises: slices.Clone(p.Exercises),
		completed: []string{},
		skipped:   []string{},
		now:       time.Now,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.startedAt = e.now()
	e.prime()

	e.log.Debug("session started", "plan_id", p.ID, "exercises", len(e.exercises))
	return e, nil
}

// Subscribe adds an observer
func (e *Engine) Subscribe(o Observer) {
	e.observers = append(e.observers, o)
}

// Plan returns the plan the session runs
func (e *Engine) Plan() *plan.WorkoutPlan {
	return e.plan
}

// Finished reports whether the terminal state was reached
func (e *Engine) Finished() bool {
	return e.index >= len(e.exercises)
}

// TimerRunning reports whether the countdown is ticking
func (e *Engine) TimerRunning() bool {
	return e.running
}

// Snapshot copies the current state
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Title:            e.plan.Title,
		Exercises:        slices.Clone(e.exercises),
		CurrentIndex:     e.index,
		Completed:        slices.Clone(e.completed),
		Skipped:          slices.Clone(e.skipped),
		TimeRemaining:    e.remaining,
		TimerRunning:     e.running,
		ExerciseProgress: e.progress,
		StartedAt:        e.startedAt,
		ElapsedSeconds:   e.elapsed,
	}
}

// current returns the active exercise; callers check Finished first
func (e *Engine) current() plan.Exercise {
	return e.exercises[e.index]
}

// prime resets the countdown baseline for the current exercise without
// starting it
func (e *Engine) prime() {
	e.running = false
	e.progress = 0
	e.remaining = 0
	if !e.Finished() && e.current().IsTimed() {
		e.remaining = e.current().Duration
	}
}

// StartTimer (re)starts the countdown of the current exercise from its full
// duration. Rep-based exercises have no countdown; asking for one is a caller
// bug and reported as ErrNotTimed.
func (e *Engine) StartTimer() error {
	if e.Finished() {
		return ErrSessionFinished
	}
	ex := e.current()
	if !ex.IsTimed() {
		return ErrNotTimed
	}

	e.remaining = ex.Duration
	e.progress = 0
	e.running = true
	e.emit(EventTimerStarted, ex.Name)
	return nil
}

// Toggle pauses or resumes the countdown. It does nothing for rep-based
// exercises or after the session finished and reports whether anything
// changed.
func (e *Engine) Toggle() bool {
	if e.Finished() || !e.current().IsTimed() || e.remaining <= 0 {
		return false
	}

	e.running = !e.running
	if e.running {
		e.emit(EventTimerResumed, e.current().Name)
	} else {
		e.emit(EventTimerPaused, e.current().Name)
	}
	return true
}

// Tick advances the countdown by one second. Reaching zero stops the timer
// and completes the exercise in the same call.
func (e *Engine) Tick() bool {
	if e.Finished() || !e.running || e.remaining <= 0 {
		return false
	}

	ex := e.current()
	e.remaining--
	e.progress = float64(ex.Duration-e.remaining) / float64(ex.Duration) * 100

	if e.remaining > 0 {
		e.emit(EventTick, ex.Name)
		return true
	}

	e.running = false
	e.log.Debug("countdown expired", "exercise", ex.Name, "index", e.index)
	e.complete()
	return true
}

// SyncClock recomputes the session stopwatch from now. Elapsed seconds never
// go backwards, so a late or early tick can only undercount.
func (e *Engine) SyncClock(now time.Time) bool {
	secs := int(now.Sub(e.startedAt) / time.Second)
	if secs <= e.elapsed {
		return false
	}
	e.elapsed = secs
	e.emit(EventClock, "")
	return true
}

// Complete logs the current exercise as done and moves on
func (e *Engine) Complete() bool {
	if e.Finished() {
		return false
	}
	e.complete()
	return true
}

func (e *Engine) complete() {
	name := e.current().Name
	e.running = false
	e.completed = append(e.completed, name)
	e.log.Debug("exercise completed", "exercise", name, "index", e.index)
	e.emit(EventCompleted, name)
	e.advance()
}

// Skip moves on without counting the current exercise as completed. Skipping
// the last exercise ends the session.
func (e *Engine) Skip() bool {
	if e.Finished() {
		return false
	}

	name := e.current().Name
	e.running = false
	e.skipped = append(e.skipped, name)
	e.log.Debug("exercise skipped", "exercise", name, "index", e.index)
	e.emit(EventSkipped, name)
	e.advance()
	return true
}

// advance is the only place the index moves
func (e *Engine) advance() {
	if e.index+1 < len(e.exercises) {
		e.index++
		e.prime()
		e.emit(EventAdvanced, e.current().Name)
		return
	}

	e.index = len(e.exercises)
	e.prime()
	e.log.Debug("session finished",
		"plan_id", e.plan.ID,
		"completed", len(e.completed),
		"skipped", len(e.skipped),
	)
	e.emit(EventFinished, "")
}

func (e *Engine) emit(kind EventKind, exercise string) {
	if len(e.observers) == 0 {
		return
	}
	ev := Event{Kind: kind, Exercise: exercise, State: e.Snapshot()}
	for _, o := range e.observers {
		o(ev)
	}
}
