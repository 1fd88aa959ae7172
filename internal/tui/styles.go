package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds every style the workout screen renders with. All colors come
// from a single catppuccin flavour.
type Styles struct {
	Title    lipgloss.Style
	Clock    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Card     lipgloss.Style
	CardName lipgloss.Style
	Badge    lipgloss.Style
	Timer    lipgloss.Style
	Paused   lipgloss.Style
	Section  lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	// Exercise list
	DoneMark     lipgloss.Style
	SkippedMark  lipgloss.Style
	CurrentMark  lipgloss.Style
	UpcomingMark lipgloss.Style
	CurrentItem  lipgloss.Style
	NormalItem   lipgloss.Style
	MutedItem    lipgloss.Style
	Target       lipgloss.Style

	// Hex fills for the progress bars
	WorkoutFill  string
	ExerciseFill string
	EmptyFill    string
}

// NewStyles builds the styles for a catppuccin flavour name (mocha,
// macchiato, frappe, latte). Unknown names fall back to mocha.
func NewStyles(flavour string) Styles {
	f := catppuccin.Variant(flavour)
	if f == nil {
		f = catppuccin.Mocha
	}
	return stylesFor(f)
}

func stylesFor(f catppuccin.Flavor) Styles {
	color := func(c catppuccin.Color) lipgloss.Color { return lipgloss.Color(c.Hex) }

	text := color(f.Text())
	muted := color(f.Overlay1())
	surface := color(f.Surface0())

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(f.Mauve())),
		Clock: lipgloss.NewStyle().
			Foreground(color(f.Subtext0())),
		Label: lipgloss.NewStyle().
			Foreground(muted),
		Value: lipgloss.NewStyle().
			Foreground(text).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(surface).
			Padding(0, 2).
			Align(lipgloss.Center),
		CardName: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),
		Badge: lipgloss.NewStyle().
			Background(surface).
			Foreground(text).
			Padding(0, 1),
		Timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(f.Blue())),
		Paused: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(f.Yellow())),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(f.Lavender())),
		Help: lipgloss.NewStyle().
			Foreground(muted),
		Error: lipgloss.NewStyle().
			Foreground(color(f.Red())).
			Bold(true).
			Padding(1),
		Success: lipgloss.NewStyle().
			Foreground(color(f.Green())).
			Bold(true),

		DoneMark: lipgloss.NewStyle().
			Foreground(color(f.Green())).
			Bold(true),
		SkippedMark: lipgloss.NewStyle().
			Foreground(color(f.Peach())),
		CurrentMark: lipgloss.NewStyle().
			Foreground(color(f.Blue())).
			Bold(true),
		UpcomingMark: lipgloss.NewStyle().
			Foreground(muted),
		CurrentItem: lipgloss.NewStyle().
			Foreground(text).
			Bold(true),
		NormalItem: lipgloss.NewStyle().
			Foreground(text),
		MutedItem: lipgloss.NewStyle().
			Foreground(muted),
		Target: lipgloss.NewStyle().
			Foreground(color(f.Subtext0())),

		WorkoutFill:  f.Green().Hex,
		ExerciseFill: f.Blue().Hex,
		EmptyFill:    f.Surface1().Hex,
	}
}
