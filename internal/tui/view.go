package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI based on the model state
func (m Model) View() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.plan == nil {
		return "Loading workout plan..."
	}

	if m.finished {
		return m.renderFinished()
	}

	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderWorkoutProgress())
	b.WriteString("\n")

	if ex, ok := m.state.Current(); ok && ex.IsTimed() {
		b.WriteString(m.renderExerciseProgress())
		b.WriteString("\n")
	}

	b.WriteString(m.renderCard())
	b.WriteString("\n\n")

	b.WriteString(m.styles.Section.Render("Workout Exercises"))
	b.WriteString("\n")
	b.WriteString(m.exerciseList.View())
	b.WriteString("\n")

	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the plan title and the session clock
func (m Model) renderHeader() string {
	title := m.styles.Title.Render(m.plan.Title)
	clock := m.styles.Clock.Render("⏱ " + FormatWorkoutDuration(m.state.ElapsedSeconds))

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(clock) - 4
	if spacing < 1 {
		spacing = 1
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacing),
		clock,
	)
}

// renderWorkoutProgress renders the overall bar with "NN% (i/N)"
func (m Model) renderWorkoutProgress() string {
	pct := m.state.WorkoutProgress()
	detail := fmt.Sprintf("%d%% (%d/%d)", round(pct), m.state.CurrentIndex, len(m.state.Exercises))
	return m.renderBar("Workout Progress", detail, m.workoutBar.ViewAs(pct/100))
}

// renderExerciseProgress renders the countdown bar with "NN% (mm:ss/mm:ss)"
func (m Model) renderExerciseProgress() string {
	ex, _ := m.state.Current()
	detail := fmt.Sprintf("%d%% (%s/%s)",
		round(m.state.ExerciseProgress),
		formatTime(m.state.ExerciseElapsed()),
		formatTime(ex.Duration),
	)
	return m.renderBar("Current Exercise Progress", detail, m.exerciseBar.ViewAs(m.state.ExerciseProgress/100))
}

func (m Model) renderBar(label, detail, bar string) string {
	left := m.styles.Label.Render(label)
	right := m.styles.Value.Render(detail)

	spacing := m.workoutBar.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	return left + strings.Repeat(" ", spacing) + right + "\n" + bar + "\n"
}

// renderCard renders the current exercise with its target and countdown
func (m Model) renderCard() string {
	ex, ok := m.state.Current()
	if !ok {
		return ""
	}

	var badges []string
	if ex.Sets > 0 {
		badges = append(badges, m.styles.Badge.Render(fmt.Sprintf("Sets %d", ex.Sets)))
	}
	if ex.IsTimed() {
		badges = append(badges, m.styles.Badge.Render("Duration "+formatTime(ex.Duration)))
	} else {
		badges = append(badges, m.styles.Badge.Render("Reps "+ex.Reps))
	}

	lines := []string{
		m.styles.CardName.Render(ex.Name),
		"",
		strings.Join(badges, "  "),
	}

	if ex.IsTimed() {
		countdown := formatTime(m.state.TimeRemaining)
		style := m.styles.Timer
		status := "running"
		if !m.state.TimerRunning {
			style = m.styles.Paused
			status = "paused"
			if m.state.TimeRemaining == ex.Duration {
				status = "ready"
			}
		}
		lines = append(lines, "", style.Render(countdown)+" "+m.styles.Label.Render(status))
	}

	width := m.width - 6
	if width < 20 {
		width = 20
	}
	return m.styles.Card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// renderHelp renders the help footer
func (m Model) renderHelp() string {
	help := []string{}
	if ex, ok := m.state.Current(); ok && ex.IsTimed() {
		action := "start"
		if m.state.TimerRunning {
			action = "pause"
		} else if m.state.TimeRemaining != ex.Duration {
			action = "resume"
		}
		help = append(help, "space:"+action, "r:restart")
	}
	help = append(help, "enter:complete", "n:skip", "q:quit")

	return m.styles.Help.Render(strings.Join(help, " | "))
}

// renderFinished renders the completion screen
func (m Model) renderFinished() string {
	var b strings.Builder
	b.WriteString(m.styles.Success.Render(CompletionMessage))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render(m.plan.Title))
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render(fmt.Sprintf(
		"%d of %d exercises completed in %s",
		len(m.state.Completed),
		len(m.state.Exercises),
		FormatWorkoutDuration(m.state.ElapsedSeconds),
	)))
	if len(m.state.Skipped) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("skipped: %s", strings.Join(m.state.Skipped, ", "))))
	}
	b.WriteString("\n")
	return b.String()
}

func round(pct float64) int {
	return int(math.Round(pct))
}
