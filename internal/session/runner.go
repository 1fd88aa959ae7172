package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Ticker is the part of *time.Ticker the runner needs
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// action is a user request queued for the loop goroutine
type action int

const (
	actionStartTimer action = iota
	actionToggle
	actionComplete
	actionSkip
)

func (a action) String() string {
	switch a {
	case actionStartTimer:
		return "start_timer"
	case actionToggle:
		return "toggle"
	case actionComplete:
		return "complete"
	case actionSkip:
		return "skip"
	}
	return "unknown"
}

// Runner drives an Engine from a single goroutine. It owns two periodic
// processes: the session clock, which runs until the session ends, and the
// exercise timer, which only exists while the countdown is running.
type Runner struct {
	engine    *Engine
	interval  time.Duration
	newTicker func(time.Duration) Ticker
	log       *slog.Logger

	actions chan action
	pending []Event // events raised while handling the current input

	Events chan Event

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithInterval sets the tick period of both processes (default one second)
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

// WithTicker replaces time.NewTicker, mainly for tests
func WithTicker(f func(time.Duration) Ticker) RunnerOption {
	return func(r *Runner) { r.newTicker = f }
}

// WithRunnerLogger sets the runner's logger
func WithRunnerLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// NewRunner wraps e. The runner subscribes to the engine; from now on only
// the runner's goroutine may touch e.
func NewRunner(e *Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:    e,
		interval:  time.Second,
		newTicker: NewTimeTicker,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		actions:   make(chan action, 16),
		Events:    make(chan Event, 64),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	e.Subscribe(func(ev Event) {
		r.pending = append(r.pending, ev)
	})
	return r
}

// Start launches the loop goroutine. The loop ends when the session
// finishes, ctx is canceled or Stop is called; Events is closed afterwards.
func (r *Runner) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.loop(ctx)
}

// Stop ends the loop and waits for it to release both tickers. Start and Stop
// may be called from any goroutine.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
	if r.started.Load() {
		<-r.stopped
	}
}

// Done is closed once the loop has exited
func (r *Runner) Done() <-chan struct{} {
	return r.stopped
}

// StartTimer restarts the current countdown from its full duration
func (r *Runner) StartTimer() { r.send(actionStartTimer) }

// Toggle pauses or resumes the countdown
func (r *Runner) Toggle() { r.send(actionToggle) }

// Complete marks the current exercise done
func (r *Runner) Complete() { r.send(actionComplete) }

// Skip moves past the current exercise without completing it
func (r *Runner) Skip() { r.send(actionSkip) }

// send hands an action to the loop. Actions after the loop ended are
// dropped, same as any other request against a finished session.
func (r *Runner) send(a action) {
	select {
	case r.actions <- a:
	case <-r.stopped:
	case <-r.done:
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.stopped)
	defer close(r.Events)

	clock := r.newTicker(r.interval)
	defer clock.Stop()

	var timer Ticker
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}
	defer stopTimer()

	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		// A restart (start or resume) must get a fresh one-second baseline
		// even if the countdown was already running.
		restart := false

		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return

		case now := <-clock.C():
			r.engine.SyncClock(now)

		case <-timerC:
			r.engine.Tick()

		case a := <-r.actions:
			restart = r.apply(a)
		}

		// The countdown ticker only lives while the engine says it runs; an
		// index change always stops the countdown, so the ticker never
		// carries over into the next exercise.
		switch {
		case r.engine.TimerRunning() && (timer == nil || restart):
			stopTimer()
			timer = r.newTicker(r.interval)
		case !r.engine.TimerRunning():
			stopTimer()
		}

		if !r.flush(ctx) {
			return
		}
		if r.engine.Finished() {
			r.log.Debug("runner exiting, session finished")
			return
		}
	}
}

func (r *Runner) apply(a action) bool {
	r.log.Debug("action", "action", a.String())

	switch a {
	case actionStartTimer:
		if err := r.engine.StartTimer(); err != nil {
			r.log.Debug("start timer ignored", "error", err)
			return false
		}
		return true
	case actionToggle:
		return r.engine.Toggle() && r.engine.TimerRunning()
	case actionComplete:
		r.engine.Complete()
	case actionSkip:
		r.engine.Skip()
	}
	return false
}

// flush delivers the events raised while handling one input. It returns
// false if the runner was stopped while a consumer was not reading.
func (r *Runner) flush(ctx context.Context) bool {
	events := r.pending
	r.pending = nil
	for _, ev := range events {
		select {
		case r.Events <- ev:
		case <-ctx.Done():
			return false
		case <-r.done:
			return false
		}
	}
	return true
}
