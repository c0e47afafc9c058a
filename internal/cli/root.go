// Package cli wires the command line surface: flag parsing, scope
// resolution against the service directory, and report output.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dbarros/tally/internal/domain"
	"github.com/dbarros/tally/internal/render"
	"github.com/dbarros/tally/internal/report"
)

// styleDim mutes client-side progress lines so they stand apart from the
// report itself, which goes unstyled to stdout for pasting.
var styleDim = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))

// Service is what the commands need from the time-tracking client.
type Service interface {
	Login(ctx context.Context) error
	Directory() domain.Directory
	TasksForFilters(ctx context.Context, filters []domain.TaskFilter) ([][]domain.Task, error)
}

// App holds the dependencies the commands run against.
type App struct {
	Service Service

	// Out receives the rendered report; Err receives progress messages.
	Out io.Writer
	Err io.Writer

	// Now supplies the wall clock used to default the current year.
	Now func() time.Time

	// IsInteractive reports whether ambiguous scope matches may be
	// resolved with a prompt rather than an error.
	IsInteractive func() bool
}

type reportOptions struct {
	project  string
	customer string
	user     string
	taskType string

	timeRange string
	format    string
	noStory   bool
}

// NewRootCmd creates the top-level "tally" command.
func NewRootCmd(app *App) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "Weekly work reports from a PHPReport time tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "only consider tasks matching the given project search terms")
	cmd.Flags().StringVarP(&opts.customer, "customer", "c", "", "only consider tasks matching the given customer search terms")
	cmd.Flags().StringVarP(&opts.user, "user", "u", "", "only consider tasks logged by the given user")
	cmd.Flags().StringVar(&opts.taskType, "task-type", "", "only consider tasks with the given task type")
	cmd.Flags().StringVarP(&opts.timeRange, "time", "t", "", "time range for the report, a single token or a \"-\"-separated pair")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, wiki or markdown")
	cmd.Flags().BoolVar(&opts.noStory, "no-story", false, "omit the story tag from the output")

	return cmd
}

// validateOptions enforces the scope rules: some scope must be given, and
// without a time range only per-project reports make sense.
func validateOptions(opts reportOptions) error {
	if opts.project == "" && opts.customer == "" && opts.user == "" && opts.taskType == "" {
		return errors.New("must give a project (-p), customer (-c), user (-u) or task type (--task-type)")
	}
	if opts.timeRange == "" && opts.project == "" {
		return errors.New("must give either a time range (-t) or a project (-p)")
	}
	return nil
}

func runReport(ctx context.Context, app *App, opts reportOptions) error {
	if err := validateOptions(opts); err != nil {
		return err
	}

	fmt.Fprintln(app.Err, styleDim.Render("Logging in..."))
	if err := app.Service.Login(ctx); err != nil {
		return err
	}

	filter, err := resolveFilter(app, opts)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.Err, styleDim.Render("Fetching tasks..."))
	creator, err := report.NewCreator(ctx, app.Service, filter, report.Options{
		TimeRange:    opts.timeRange,
		CurrentYear:  app.Now().Year(),
		Format:       render.Format(opts.format),
		IncludeStory: !opts.noStory,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(app.Out, creator.Render())
	return err
}
