package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"workout_progress/internal/plan"
	"workout_progress/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTicker only fires when the test sends on it
type manualTicker struct {
	c chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               {}

// tickers records every ticker a runner creates; the first is the session clock
type tickers struct {
	created chan *manualTicker
}

func newTickers() *tickers {
	return &tickers{created: make(chan *manualTicker, 16)}
}

func (tk *tickers) New(time.Duration) session.Ticker {
	m := &manualTicker{c: make(chan time.Time)}
	tk.created <- m
	return m
}

func (tk *tickers) next(t *testing.T) *manualTicker {
	t.Helper()
	select {
	case m := <-tk.created:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no ticker created")
		return nil
	}
}

func repPlan() *plan.WorkoutPlan {
	return &plan.WorkoutPlan{
		ID:    "legs",
		Title: "Leg Day",
		Exercises: []plan.Exercise{
			{Name: "Pushups", Sets: 3, Reps: "10"},
			{Name: "Squats", Reps: "15"},
		},
	}
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	require.True(t, ok)
	return model, cmd
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// loadedModel returns a model whose session runner is already started
func loadedModel(t *testing.T, p *plan.WorkoutPlan, tk *tickers) (Model, tea.Cmd) {
	t.Helper()
	m := NewModel(plan.Static(p), p.ID, Options{Ticker: tk.New, FinishDelay: 10 * time.Millisecond})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})

	msg := runCmd(t, m.Init())
	require.IsType(t, planLoadedMsg{}, msg)

	m, wait := update(t, m, msg)
	require.NotNil(t, m.runner)
	t.Cleanup(m.stop)
	tk.next(t) // session clock
	return m, wait
}

func statuses(m Model) []exerciseStatus {
	var out []exerciseStatus
	for _, item := range m.exerciseList.Items() {
		out = append(out, item.(exerciseItem).status)
	}
	return out
}

func TestNewModel_Loading(t *testing.T) {
	m := NewModel(plan.Static(repPlan()), "legs", Options{})
	assert.Equal(t, "Loading workout plan...", m.View())
	assert.Nil(t, m.Err())
	assert.False(t, m.Summary().Finished)
}

func TestPlanLoadError(t *testing.T) {
	loadErr := &plan.LoadError{ID: "missing", Err: plan.ErrPlanNotFound}
	m := NewModel(plan.LoaderFunc(func(_ context.Context, _ string) (*plan.WorkoutPlan, error) {
		return nil, loadErr
	}), "missing", Options{})

	msg := runCmd(t, m.Init())
	m, cmd := update(t, m, msg)

	assert.True(t, errors.Is(m.Err(), plan.ErrPlanNotFound))
	assert.Nil(t, m.runner, "no session is started for a failed load")
	assert.IsType(t, tea.QuitMsg{}, runCmd(t, cmd))
	assert.Contains(t, m.View(), "Error:")
}

func TestSession_CompleteThenSkipFinishes(t *testing.T) {
	m, wait := loadedModel(t, repPlan(), newTickers())
	assert.Equal(t, []exerciseStatus{statusCurrent, statusUpcoming}, statuses(m))
	assert.Contains(t, m.View(), "Pushups")
	assert.Contains(t, m.View(), "0% (0/2)")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	for _, want := range []session.EventKind{session.EventCompleted, session.EventAdvanced} {
		msg := runCmd(t, wait)
		require.Equal(t, want, session.Event(msg.(sessionEventMsg)).Kind)
		m, wait = update(t, m, msg)
	}
	assert.Equal(t, []exerciseStatus{statusCompleted, statusCurrent}, statuses(m))
	assert.Contains(t, m.View(), "50% (1/2)")

	m, _ = update(t, m, key('n'))
	msg := runCmd(t, wait)
	require.Equal(t, session.EventSkipped, session.Event(msg.(sessionEventMsg)).Kind)
	m, wait = update(t, m, msg)

	msg = runCmd(t, wait)
	require.Equal(t, session.EventFinished, session.Event(msg.(sessionEventMsg)).Kind)
	m, cmd = update(t, m, msg)
	require.NotNil(t, cmd, "finishing schedules the quit")

	assert.Equal(t, []exerciseStatus{statusCompleted, statusSkipped}, statuses(m))
	assert.Contains(t, m.View(), CompletionMessage)

	s := m.Summary()
	assert.True(t, s.Finished)
	assert.Equal(t, "legs", s.PlanID)
	assert.Equal(t, "Leg Day", s.Title)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, []string{"Pushups"}, s.Completed)
	assert.Equal(t, []string{"Squats"}, s.Skipped)
}

func TestSession_TimedCountdown(t *testing.T) {
	tk := newTickers()
	m, wait := loadedModel(t, &plan.WorkoutPlan{
		ID:    "core",
		Title: "Core",
		Exercises: []plan.Exercise{
			{Name: "Plank", Duration: 3},
			{Name: "Pushups", Reps: "10"},
		},
	}, tk)
	assert.Contains(t, m.View(), "00:03")
	assert.Contains(t, m.View(), "ready")
	assert.Contains(t, m.View(), "space:start")

	m, _ = update(t, m, key(' '))
	msg := runCmd(t, wait)
	require.Equal(t, session.EventTimerResumed, session.Event(msg.(sessionEventMsg)).Kind)
	m, wait = update(t, m, msg)
	timer := tk.next(t)
	assert.Contains(t, m.View(), "space:pause")

	timer.c <- time.Now()
	msg = runCmd(t, wait)
	m, wait = update(t, m, msg)
	assert.Contains(t, m.View(), "00:02")
	assert.Contains(t, m.View(), "running")
	assert.Contains(t, m.View(), "33% (00:01/00:03)")

	timer.c <- time.Now()
	m, wait = update(t, m, runCmd(t, wait))
	timer.c <- time.Now()

	for _, want := range []session.EventKind{session.EventCompleted, session.EventAdvanced} {
		msg := runCmd(t, wait)
		require.Equal(t, want, session.Event(msg.(sessionEventMsg)).Kind)
		m, wait = update(t, m, msg)
	}
	assert.Equal(t, []string{"Plank"}, m.Summary().Completed)
	assert.Contains(t, m.View(), "Reps 10")
	assert.NotContains(t, m.View(), "Current Exercise Progress")
}

func TestSession_QuitStopsRunner(t *testing.T) {
	m, _ := loadedModel(t, repPlan(), newTickers())

	m, cmd := update(t, m, key('q'))
	assert.True(t, m.quitting)
	assert.IsType(t, tea.QuitMsg{}, runCmd(t, cmd))

	select {
	case <-m.runner.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner still running after quit")
	}
	assert.False(t, m.Summary().Finished)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "60:00"},
		{-1, "00:00"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.seconds); got != tt.want {
			t.Errorf("formatTime(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatWorkoutDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{59, "59s"},
		{60, "1m 0s"},
		{125, "2m 5s"},
		{3723, "1h 2m 3s"},
	}
	for _, tt := range tests {
		if got := FormatWorkoutDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatWorkoutDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Plank", truncate("Plank", 10))
	assert.Equal(t, "Mountai...", truncate("Mountain Climbers", 10))
	assert.Equal(t, "Mou", truncate("Mountain Climbers", 3))
}

func TestNewStyles_UnknownFlavourFallsBack(t *testing.T) {
	mocha := NewStyles("mocha")
	assert.Equal(t, mocha.WorkoutFill, NewStyles("does-not-exist").WorkoutFill)
	assert.NotEqual(t, mocha.WorkoutFill, NewStyles("latte").WorkoutFill)
	assert.True(t, strings.HasPrefix(mocha.ExerciseFill, "#"))
}
