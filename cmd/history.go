package cmd

import (
	"fmt"
	"io"
	"strings"

	"workout_progress/internal/config"
	"workout_progress/internal/history"
	"workout_progress/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently finished workouts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of sessions to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	store, err := history.Open(config.Global().HistoryDB)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	printHistory(cmd.OutOrStdout(), entries)
	return nil
}

// printHistory renders sessions as a table, newest first
func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No finished workouts yet.")
		return
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Finished", "Plan", "Done", "Duration", "Skipped").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, e := range entries {
		total := len(e.Completed) + len(e.Skipped)
		t.Row(
			e.FinishedAt.Local().Format("2006-01-02 15:04"),
			e.Title,
			fmt.Sprintf("%d/%d", len(e.Completed), total),
			tui.FormatWorkoutDuration(e.ElapsedSeconds),
			strings.Join(e.Skipped, ", "),
		)
	}

	fmt.Fprintln(w, t.Render())
}
