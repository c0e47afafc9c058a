package report

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
	"github.com/dbarros/tally/internal/period"
	"github.com/dbarros/tally/internal/render"
)

// ErrMissingResults means the task source returned fewer result lists
// than filters requested. Reports are never produced from partial data.
var ErrMissingResults = errors.New("task source returned fewer results than requested")

// ErrProjectScope means a whole-project report was requested without a
// project to scope it to.
var ErrProjectScope = errors.New("whole-project reports require a project scope")

// TaskSource fetches work records. For each filter it returns one task
// list; results are positional, so result i answers filter i.
type TaskSource interface {
	TasksForFilters(ctx context.Context, filters []domain.TaskFilter) ([][]domain.Task, error)
}

// Mode selects the report shape. It is decided once, at construction,
// from the presence of a time range and the number of weeks it spans.
type Mode string

const (
	// ModeProject covers a project's entire recorded history.
	ModeProject Mode = "project"
	// ModeAggregate shows per-week totals over a multi-week range.
	ModeAggregate Mode = "aggregate"
	// ModeDetail breaks a single week down per day and person.
	ModeDetail Mode = "detail"
)

// nonAlnum strips separators out of titles destined for wiki page names.
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Options configure report creation.
type Options struct {
	// TimeRange is the range expression, e.g. "w24/2019" or "q1-q2".
	// Empty means a whole-project report.
	TimeRange string
	// CurrentYear resolves range tokens with no explicit year.
	CurrentYear int
	// Format selects the output renderer.
	Format render.Format
	// IncludeStory prefixes descriptions with their story tag.
	IncludeStory bool
}

// Creator resolves the requested time span, fetches the matching tasks
// into week buckets and hands out the reports for them.
type Creator struct {
	Mode   Mode
	Filter domain.TaskFilter
	Weeks  []*period.Week

	includeStory bool
	newRenderer  func() render.Renderer
}

// NewCreator fetches everything the reports will need and fixes the
// report mode. Parse and placement failures abort: no partial report is
// ever produced.
func NewCreator(ctx context.Context, src TaskSource, filter domain.TaskFilter, opts Options) (*Creator, error) {
	if _, err := render.New(opts.Format); err != nil {
		return nil, err
	}
	c := &Creator{
		Filter:       filter,
		includeStory: opts.IncludeStory,
		newRenderer: func() render.Renderer {
			r, _ := render.New(opts.Format)
			return r
		},
	}

	if opts.TimeRange == "" {
		if filter.Project == nil {
			return nil, ErrProjectScope
		}
		weeks, err := fetchProjectWeeks(ctx, src, filter)
		if err != nil {
			return nil, err
		}
		c.Mode = ModeProject
		c.Weeks = weeks
		return c, nil
	}

	weeks, err := fetchRangeWeeks(ctx, src, filter, opts.TimeRange, opts.CurrentYear)
	if err != nil {
		return nil, err
	}
	c.Weeks = weeks
	if len(weeks) > 1 {
		c.Mode = ModeAggregate
	} else {
		c.Mode = ModeDetail
	}
	return c, nil
}

// fetchProjectWeeks discovers the project's date extent from the records
// themselves and partitions them into weeks.
func fetchProjectWeeks(ctx context.Context, src TaskSource, filter domain.TaskFilter) ([]*period.Week, error) {
	results, err := src.TasksForFilters(ctx, []domain.TaskFilter{filter})
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%w: got %d of 1", ErrMissingResults, len(results))
	}
	return period.WeeksCoveringTasks(results[0], filter)
}

// fetchRangeWeeks resolves the range expression, builds one bucket per
// week and fetches each bucket's tasks through its own date-narrowed
// filter. Results map to buckets positionally.
func fetchRangeWeeks(ctx context.Context, src TaskSource, filter domain.TaskFilter, timeRange string, currentYear int) ([]*period.Week, error) {
	r, err := dateutil.ParseRange(timeRange, currentYear)
	if err != nil {
		return nil, err
	}
	weeks, err := period.WeeksBetween(r.Start, r.End, filter)
	if err != nil {
		return nil, err
	}

	filters := make([]domain.TaskFilter, len(weeks))
	for i, w := range weeks {
		filters[i] = w.Filter
	}
	results, err := src.TasksForFilters(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(results) != len(weeks) {
		return nil, fmt.Errorf("%w: got %d of %d", ErrMissingResults, len(results), len(weeks))
	}
	for i, w := range weeks {
		w.SetTasks(results[i])
	}
	return weeks, nil
}

// ParentReport returns the aggregate report spanning all weeks, or nil in
// detail mode where the single week carries the whole report.
func (c *Creator) ParentReport() *AggregateReport {
	switch c.Mode {
	case ModeProject:
		desc := c.Filter.Project.Description
		return NewAggregateReport(c.Weeks, c.newRenderer, desc, nonAlnum.ReplaceAllString(desc, "")+"Report")
	case ModeAggregate:
		first, last := c.Weeks[0], c.Weeks[len(c.Weeks)-1]
		title := fmt.Sprintf("%s to %s for %s", first, last, c.Filter)
		return NewAggregateReport(c.Weeks, c.newRenderer, title, first.WikiKey()+"To"+last.WikiKey())
	default:
		return nil
	}
}

// Reports returns the parent report (nil in detail mode) and one detailed
// report per week.
func (c *Creator) Reports() (*AggregateReport, []*DetailedReport) {
	parent := c.ParentReport()
	details := make([]*DetailedReport, 0, len(c.Weeks))
	for _, w := range c.Weeks {
		details = append(details, NewDetailedReport(w, parent, c.newRenderer, c.includeStory))
	}
	return parent, details
}

// Render generates the parent and every detailed report and concatenates
// their output.
func (c *Creator) Render() string {
	parent, details := c.Reports()

	var out string
	if parent != nil {
		out += parent.Generate()
	}
	for _, d := range details {
		out += d.Generate()
	}
	return out
}
