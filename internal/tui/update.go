package tui

import (
	"time"

	"workout_progress/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.updateSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case planLoadedMsg:
		return m.startSession(msg.plan)

	case planErrorMsg:
		m.err = msg.error
		m.log.Error("plan load failed", "plan_id", m.planID, "error", msg.error)
		m.cancel()
		return m, tea.Quit

	case sessionEventMsg:
		ev := session.Event(msg)
		m.state = ev.State
		if ev.Kind == session.EventSkipped {
			m.skipped[ev.State.CurrentIndex] = true
		}
		m = m.updateExerciseList()

		if ev.Kind == session.EventFinished {
			m.finished = true
			m.log.Info("session finished",
				"plan_id", m.planID,
				"completed", len(ev.State.Completed),
				"skipped", len(ev.State.Skipped),
				"elapsed", ev.State.ElapsedSeconds,
			)
			return m, tea.Tick(m.opts.FinishDelay, func(_ time.Time) tea.Msg {
				return finishDelayMsg{}
			})
		}
		return m, waitForEventCmd(m.runner.Events)

	case eventsClosedMsg:
		// The runner stopped without finishing; nothing left to drive the screen.
		if !m.finished {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case finishDelayMsg:
		m.stop()
		return m, tea.Quit
	}

	return m, nil
}

// handleKey maps keys onto session actions
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		m.stop()
		return m, tea.Quit
	}

	if m.runner == nil {
		return m, nil
	}
	if m.finished {
		// Any key dismisses the completion message.
		m.stop()
		return m, tea.Quit
	}

	ex, ok := m.state.Current()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case " ", "s":
		if ex.IsTimed() {
			m.runner.Toggle()
		}
	case "r":
		if ex.IsTimed() {
			m.runner.StartTimer()
		}
	case "enter", "c":
		m.runner.Complete()
	case "n", "tab":
		m.runner.Skip()
	}
	return m, nil
}
