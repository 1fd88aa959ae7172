package tui

import (
	"context"
	"log/slog"
	"time"

	"workout_progress/internal/logging"
	"workout_progress/internal/plan"
	"workout_progress/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// CompletionMessage is shown once every exercise has been completed or skipped
const CompletionMessage = "Workout completed! Great job!"

// Options configures a Model
type Options struct {
	// Theme is the catppuccin flavour name
	Theme string

	// Interval is the tick period of the session clock and exercise timer
	Interval time.Duration

	// FinishDelay is how long the completion message stays up before quitting
	FinishDelay time.Duration

	// Ticker replaces the wall-clock ticker (tests)
	Ticker func(time.Duration) session.Ticker

	Logger *slog.Logger
}

// Summary is the outcome of a session, read after the program exits
type Summary struct {
	PlanID         string
	Title          string
	Total          int
	Completed      []string
	Skipped        []string
	StartedAt      time.Time
	ElapsedSeconds int
	Finished       bool
}

// Model represents the application state
type Model struct {
	loader plan.Loader
	planID string
	opts   Options
	log    *slog.Logger
	styles *Styles

	ctx    context.Context
	cancel context.CancelFunc

	// Session state; runner is nil until the plan has loaded
	plan    *plan.WorkoutPlan
	runner  *session.Runner
	state   session.Snapshot
	skipped map[int]bool // plan positions that were skipped

	// UI components
	exerciseList     list.Model
	exerciseDelegate *exerciseDelegate
	workoutBar       progress.Model
	exerciseBar      progress.Model

	// UI dimensions
	width  int
	height int

	finished bool
	quitting bool

	// Error state
	err error
}

// NewModel creates a Model that loads planID from loader when the program starts
func NewModel(loader plan.Loader, planID string, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.FinishDelay <= 0 {
		opts.FinishDelay = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	styles := NewStyles(opts.Theme)
	delegate := newExerciseDelegate(&styles)
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		loader:           loader,
		planID:           planID,
		opts:             opts,
		log:              opts.Logger,
		styles:           &styles,
		ctx:              ctx,
		cancel:           cancel,
		exerciseDelegate: delegate,
		skipped:          make(map[int]bool),
	}

	m.exerciseList = list.New([]list.Item{}, delegate, 0, 0)
	m.exerciseList.SetShowTitle(false)
	m.exerciseList.SetShowHelp(false)
	m.exerciseList.SetShowStatusBar(false)
	m.exerciseList.SetFilteringEnabled(false)
	m.exerciseList.SetShowPagination(false)
	m.exerciseList.DisableQuitKeybindings()

	m.workoutBar = newBar(styles.WorkoutFill, styles.EmptyFill)
	m.exerciseBar = newBar(styles.ExerciseFill, styles.EmptyFill)

	return m
}

func newBar(fill, empty string) progress.Model {
	bar := progress.New(progress.WithSolidFill(fill), progress.WithoutPercentage())
	bar.EmptyColor = empty
	return bar
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.loadPlanCmd()
}

// Message types
type (
	planLoadedMsg   struct{ plan *plan.WorkoutPlan }
	planErrorMsg    struct{ error }
	sessionEventMsg session.Event
	eventsClosedMsg struct{}
	finishDelayMsg  struct{}
)

// loadPlanCmd fetches the plan off the UI goroutine
func (m Model) loadPlanCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.loader.Load(m.ctx, m.planID)
		if err != nil {
			return planErrorMsg{err}
		}
		return planLoadedMsg{plan: p}
	}
}

// waitForEventCmd returns a command that waits for the next session event
func waitForEventCmd(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return sessionEventMsg(ev)
	}
}

// startSession builds the engine and its runner for a loaded plan
func (m Model) startSession(p *plan.WorkoutPlan) (Model, tea.Cmd) {
	engine, err := session.New(p, session.WithLogger(m.log))
	if err != nil {
		m.err = err
		return m, tea.Quit
	}

	runnerOpts := []session.RunnerOption{
		session.WithInterval(m.opts.Interval),
		session.WithRunnerLogger(m.log),
	}
	if m.opts.Ticker != nil {
		runnerOpts = append(runnerOpts, session.WithTicker(m.opts.Ticker))
	}

	m.plan = p
	m.state = engine.Snapshot()
	m.runner = session.NewRunner(engine, runnerOpts...)
	m.runner.Start(m.ctx)
	m = m.updateExerciseList()

	m.log.Info("session started", "plan_id", p.ID, "title", p.Title, "exercises", len(p.Exercises))
	return m, waitForEventCmd(m.runner.Events)
}

// stop ends the runner and releases its tickers
func (m Model) stop() {
	if m.runner != nil {
		m.runner.Stop()
	}
	m.cancel()
}

// updateExerciseList rebuilds the exercise list from the latest snapshot
func (m Model) updateExerciseList() Model {
	items := make([]list.Item, len(m.state.Exercises))
	for i, ex := range m.state.Exercises {
		status := statusUpcoming
		switch {
		case i == m.state.CurrentIndex:
			status = statusCurrent
		case i < m.state.CurrentIndex && m.skipped[i]:
			status = statusSkipped
		case i < m.state.CurrentIndex:
			status = statusCompleted
		}
		items[i] = exerciseItem{exercise: ex, status: status}
	}
	m.exerciseList.SetItems(items)
	if m.state.CurrentIndex < len(items) {
		m.exerciseList.Select(m.state.CurrentIndex)
	}
	return m
}

// updateSizes updates component dimensions based on terminal size
func (m Model) updateSizes() Model {
	// Reserve space for header (2), progress (4), card (9), list title (2), help (2)
	listHeight := m.height - 19
	if listHeight < 3 {
		listHeight = 3
	}
	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	m.exerciseDelegate.SetWidth(contentWidth)
	m.exerciseList.SetSize(contentWidth, listHeight)
	m.workoutBar.Width = contentWidth
	m.exerciseBar.Width = contentWidth
	return m
}

// Err returns the error that ended the program, if any
func (m Model) Err() error {
	return m.err
}

// Summary returns the outcome of the session
func (m Model) Summary() Summary {
	s := Summary{
		Total:          len(m.state.Exercises),
		Completed:      append([]string(nil), m.state.Completed...),
		Skipped:        append([]string(nil), m.state.Skipped...),
		StartedAt:      m.state.StartedAt,
		ElapsedSeconds: m.state.ElapsedSeconds,
		Finished:       m.finished,
	}
	if m.plan != nil {
		s.PlanID = m.plan.ID
		s.Title = m.plan.Title
	}
	return s
}
