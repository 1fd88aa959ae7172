package tui

import (
	"fmt"
	"io"
	"strings"

	"workout_progress/internal/plan"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// exerciseStatus is where an exercise stands relative to the session
type exerciseStatus int

const (
	statusUpcoming exerciseStatus = iota
	statusCurrent
	statusCompleted
	statusSkipped
)

// ============================================================================
// Exercise Item
// ============================================================================

// exerciseItem wraps a plan exercise for the list component
type exerciseItem struct {
	exercise plan.Exercise
	status   exerciseStatus
}

func (i exerciseItem) FilterValue() string { return i.exercise.Name }
func (i exerciseItem) Title() string       { return i.exercise.Name }
func (i exerciseItem) Description() string { return i.exercise.Target() }

// exerciseDelegate renders one exercise per line: marker, name, target
type exerciseDelegate struct {
	styles *Styles
	width  int
}

func newExerciseDelegate(styles *Styles) *exerciseDelegate {
	return &exerciseDelegate{styles: styles}
}

// SetWidth updates the width the target column is aligned to
func (d *exerciseDelegate) SetWidth(w int) {
	d.width = w
}

func (d *exerciseDelegate) Height() int                             { return 1 }
func (d *exerciseDelegate) Spacing() int                            { return 0 }
func (d *exerciseDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *exerciseDelegate) Render(w io.Writer, _ list.Model, _ int, item list.Item) {
	i, ok := item.(exerciseItem)
	if !ok {
		return
	}

	var marker string
	nameStyle := d.styles.NormalItem
	switch i.status {
	case statusCompleted:
		marker = d.styles.DoneMark.Render("✓")
		nameStyle = d.styles.MutedItem
	case statusSkipped:
		marker = d.styles.SkippedMark.Render("↷")
		nameStyle = d.styles.MutedItem
	case statusCurrent:
		marker = d.styles.CurrentMark.Render("●")
		nameStyle = d.styles.CurrentItem
	default:
		marker = d.styles.UpcomingMark.Render("○")
	}

	target := d.styles.Target.Render(i.exercise.Target())
	name := nameStyle.Render(truncate(i.exercise.Name, max(8, d.width-lipgloss.Width(target)-6)))

	gap := d.width - lipgloss.Width(marker) - lipgloss.Width(name) - lipgloss.Width(target) - 2
	if gap < 1 {
		gap = 1
	}

	fmt.Fprintf(w, "%s %s%s%s", marker, name, strings.Repeat(" ", gap), target)
}

// ============================================================================
// Helper Functions
// ============================================================================

// formatTime renders seconds as mm:ss
func formatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatWorkoutDuration renders the session clock, e.g. "1h 2m 3s", "4m 5s", "6s"
func FormatWorkoutDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// truncate shortens a string to max runes with an ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
