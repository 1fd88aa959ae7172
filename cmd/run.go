package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"workout_progress/internal/config"
	"workout_progress/internal/history"
	"workout_progress/internal/plan"
	"workout_progress/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [plan-id]",
	Short: "Start a guided workout session",
	Long: `Load a workout plan and walk through its exercises.

The plan is looked up as <plans_dir>/<plan-id>.yaml (or .yml, .json) and, if it
is not there, fetched from the plan store API. Use --file to run a plan file
directly.

Keys: space start/pause, r restart timer, enter complete, n skip, q quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkout,
}

var (
	runFile string // Plan file to run instead of looking up an id
	runAPI  string // Plan store base URL override
)

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "run the plan in this YAML or JSON file")
	runCmd.Flags().StringVar(&runAPI, "api", "", "plan store base URL (overrides api.base_url)")
	rootCmd.AddCommand(runCmd)
}

func runWorkout(cmd *cobra.Command, args []string) error {
	cfg := config.Global()
	planID, loader, err := resolvePlan(cfg, args, runFile, runAPI)
	if err != nil {
		return err
	}

	model := tui.NewModel(loader, planID, tui.Options{
		Theme:  cfg.Theme,
		Logger: logger.With("plan_id", planID),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running workout: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return fmt.Errorf("unexpected model type %T", final)
	}
	if err := m.Err(); err != nil {
		return err
	}

	summary := m.Summary()
	if summary.Finished {
		if _, err := recordSession(cmd.Context(), cfg.HistoryDB, summary); err != nil {
			logger.Warn("could not record session", "error", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: session not saved to history: %v\n", err)
		}
	}

	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

// resolvePlan picks the plan id and the loader for a run
func resolvePlan(c *config.Config, args []string, file, api string) (string, plan.Loader, error) {
	if file != "" {
		id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if len(args) == 1 {
			id = args[0]
		}
		loader := plan.LoaderFunc(func(_ context.Context, _ string) (*plan.WorkoutPlan, error) {
			return plan.LoadFile(file)
		})
		return id, loader, nil
	}

	if len(args) == 0 {
		return "", nil, errors.New("a plan id or --file is required")
	}

	baseURL := c.API.BaseURL
	if api != "" {
		baseURL = api
	}

	var loaders []plan.Loader
	if c.PlansDir != "" {
		loaders = append(loaders, plan.FileLoader{Dir: c.PlansDir})
	}
	if baseURL != "" {
		loaders = append(loaders, plan.NewHTTPLoader(baseURL, c.API.Timeout))
	}
	if len(loaders) == 0 {
		return "", nil, errors.New("no plans_dir or api.base_url configured")
	}
	return args[0], plan.FirstOf(loaders...), nil
}

// recordSession saves a finished session in the history database
func recordSession(ctx context.Context, path string, s tui.Summary) (history.Entry, error) {
	store, err := history.Open(path)
	if err != nil {
		return history.Entry{}, err
	}
	defer store.Close()

	return store.Record(ctx, history.Entry{
		PlanID:         s.PlanID,
		Title:          s.Title,
		StartedAt:      s.StartedAt,
		ElapsedSeconds: s.ElapsedSeconds,
		Completed:      s.Completed,
		Skipped:        s.Skipped,
	})
}

// printSummary writes the post-session report
func printSummary(w io.Writer, s tui.Summary) {
	if s.Title == "" {
		return
	}

	if s.Finished {
		fmt.Fprintln(w, tui.CompletionMessage)
	} else {
		fmt.Fprintf(w, "Workout stopped after %d of %d exercises.\n", len(s.Completed)+len(s.Skipped), s.Total)
	}

	fmt.Fprintf(w, "%s: %d of %d exercises completed in %s\n",
		s.Title, len(s.Completed), s.Total, tui.FormatWorkoutDuration(s.ElapsedSeconds))
	if len(s.Completed) > 0 {
		fmt.Fprintf(w, "  completed: %s\n", strings.Join(s.Completed, ", "))
	}
	if len(s.Skipped) > 0 {
		fmt.Fprintf(w, "  skipped:   %s\n", strings.Join(s.Skipped, ", "))
	}
}
