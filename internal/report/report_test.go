package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
	"github.com/dbarros/tally/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = domain.User{ID: 1, Login: "alice"}
	bob     = domain.User{ID: 2, Login: "bob"}
	webkit  = domain.Project{ID: 10, Description: "WebKit maintenance"}
	scoped  = domain.TaskFilter{Project: &webkit}
	curYear = 2021
)

// fakeSource answers each filter with the stored tasks falling inside its
// date window, mirroring the positional contract of the real service.
type fakeSource struct {
	tasks []domain.Task
	calls int
}

func (s *fakeSource) TasksForFilters(_ context.Context, filters []domain.TaskFilter) ([][]domain.Task, error) {
	s.calls++
	results := make([][]domain.Task, len(filters))
	for i, f := range filters {
		for _, t := range s.tasks {
			if f.Start.IsZero() || (!t.Date.Before(f.Start) && !t.Date.After(f.End)) {
				results[i] = append(results[i], t)
			}
		}
	}
	return results, nil
}

// truncatedSource drops the last result list to simulate a partial fetch.
type truncatedSource struct{ inner fakeSource }

func (s *truncatedSource) TasksForFilters(ctx context.Context, filters []domain.TaskFilter) ([][]domain.Task, error) {
	results, err := s.inner.TasksForFilters(ctx, filters)
	if err != nil || len(results) == 0 {
		return results, err
	}
	return results[:len(results)-1], nil
}

func workTask(user domain.User, date time.Time, hours int, text string) domain.Task {
	return domain.Task{
		Date:  date,
		Start: 9 * time.Hour,
		End:   time.Duration(9+hours) * time.Hour,
		User:  user,
		Text:  text,
	}
}

func newCreator(t *testing.T, src TaskSource, filter domain.TaskFilter, opts Options) *Creator {
	t.Helper()
	if opts.CurrentYear == 0 {
		opts.CurrentYear = curYear
	}
	if opts.Format == "" {
		opts.Format = render.FormatText
	}
	c, err := NewCreator(context.Background(), src, filter, opts)
	require.NoError(t, err)
	return c
}

func TestModeSelection(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	src := &fakeSource{tasks: []domain.Task{workTask(alice, monday, 8, "hacking")}}

	c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019"})
	assert.Equal(t, ModeDetail, c.Mode)
	require.Len(t, c.Weeks, 1)

	c = newCreator(t, src, scoped, Options{TimeRange: "w24/2019-w26/2019"})
	assert.Equal(t, ModeAggregate, c.Mode)
	assert.Len(t, c.Weeks, 3)

	c = newCreator(t, src, scoped, Options{})
	assert.Equal(t, ModeProject, c.Mode)

	_, err := NewCreator(context.Background(), src, domain.TaskFilter{User: &alice}, Options{CurrentYear: curYear, Format: render.FormatText})
	assert.ErrorIs(t, err, ErrProjectScope)
}

func TestCreatorRejectsBadInput(t *testing.T) {
	src := &fakeSource{}

	_, err := NewCreator(context.Background(), src, scoped, Options{TimeRange: "bogus", CurrentYear: curYear, Format: render.FormatText})
	assert.ErrorIs(t, err, dateutil.ErrParse)

	_, err = NewCreator(context.Background(), src, scoped, Options{TimeRange: "w24/2019", CurrentYear: curYear, Format: "pdf"})
	assert.Error(t, err)
}

func TestCreatorMissingResults(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	src := &truncatedSource{inner: fakeSource{tasks: []domain.Task{workTask(alice, monday, 8, "hacking")}}}

	_, err := NewCreator(context.Background(), src, scoped, Options{TimeRange: "w24/2019-w26/2019", CurrentYear: curYear, Format: render.FormatText})
	assert.ErrorIs(t, err, ErrMissingResults)
}

func TestAggregateReport(t *testing.T) {
	week24 := dateutil.Date(2019, time.June, 10)
	week25 := dateutil.Date(2019, time.June, 17)
	onsiteTask := workTask(bob, week25, 4, "onsite visit")
	onsiteTask.Onsite = true

	src := &fakeSource{tasks: []domain.Task{
		workTask(alice, week24, 8, "hacking"),
		workTask(alice, week25, 6, "more hacking"),
		onsiteTask,
	}}

	c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019-w25/2019"})
	parent, details := c.Reports()
	require.NotNil(t, parent)
	assert.Len(t, details, 2)

	assert.Equal(t, "Week 24 of 2019 to Week 25 of 2019 for WebKit maintenance", parent.Title)
	assert.Equal(t, "Week24-2019ToWeek25-2019", parent.WikiKey)

	out := parent.Generate()
	assert.Contains(t, out, "Week 24/2019")
	assert.Contains(t, out, "08:00")
	assert.Contains(t, out, "10:00 (04:00 onsite)")
	assert.Contains(t, out, "Total hours worked: 18:00")
	assert.Contains(t, out, "Total onsite hours worked: 04:00")

	// Detail reports inherit the parent's title and key.
	assert.Equal(t, "Week 24 of 2019 for "+parent.Title, details[0].Title)
	assert.Equal(t, parent.WikiKey+"-Week24-2019", details[0].WikiKey)
}

func TestProjectReport(t *testing.T) {
	src := &fakeSource{tasks: []domain.Task{
		workTask(alice, dateutil.Date(2019, time.June, 12), 8, "hacking"),
		workTask(alice, dateutil.Date(2019, time.June, 21), 4, "still hacking"),
	}}

	c := newCreator(t, src, scoped, Options{})
	require.Equal(t, ModeProject, c.Mode)
	assert.Len(t, c.Weeks, 2)

	parent, _ := c.Reports()
	require.NotNil(t, parent)
	assert.Equal(t, "WebKit maintenance", parent.Title)
	assert.Equal(t, "WebKitmaintenanceReport", parent.WikiKey)
}

func TestDetailedReportHoursGrid(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	src := &fakeSource{tasks: []domain.Task{
		workTask(alice, monday, 8, "hacking"),
		workTask(bob, monday.AddDate(0, 0, 1), 4, "reviewing"),
	}}

	c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019"})
	_, details := c.Reports()
	require.Len(t, details, 1)

	assert.Equal(t, "Week 24 of 2019 for WebKit maintenance", details[0].Title)
	assert.Equal(t, "Week24-2019", details[0].WikiKey)

	out := details[0].Generate()
	assert.Contains(t, out, "10 Jun")
	assert.Contains(t, out, "16 Jun")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "everyone")
	assert.Contains(t, out, "12:00") // the everyone total
	assert.Contains(t, out, "Stories for alice")
	assert.Contains(t, out, "Stories for bob")
	assert.NotContains(t, out, "Onsite hours worked", "no onsite line when there is no onsite time")
}

func TestDetailedReportStories(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	first := workTask(alice, monday, 2, "fixed   the build")
	first.Story = "ci"
	duplicate := workTask(alice, monday, 3, "fixed   the build")
	duplicate.Story = "ci"
	other := workTask(alice, monday, 1, "triaged bugs")
	other.Story = "ci"

	src := &fakeSource{tasks: []domain.Task{first, duplicate, other}}

	c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019", IncludeStory: true})
	_, details := c.Reports()
	out := details[0].Generate()

	// Duplicate descriptions collapse to one, whitespace runs shrink to a
	// single space, and the story tag is prefixed in the text format.
	assert.Contains(t, out, "[ci] fixed the build [ci] triaged bugs")
	assert.Equal(t, 1, strings.Count(out, "fixed the build"))
}

func TestDetailedReportWithoutStoryTag(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	task := workTask(alice, monday, 2, "fixed the build")
	task.Story = "ci"
	src := &fakeSource{tasks: []domain.Task{task}}

	c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019"})
	_, details := c.Reports()
	out := details[0].Generate()

	assert.Contains(t, out, "fixed the build")
	assert.NotContains(t, out, "[ci]")
}

func TestRenderIdempotent(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	src := &fakeSource{tasks: []domain.Task{workTask(alice, monday, 8, "hacking")}}

	for _, format := range []render.Format{render.FormatText, render.FormatWiki, render.FormatMarkdown} {
		c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019-w25/2019", Format: format})
		assert.Equal(t, c.Render(), c.Render(), "format %s", format)
	}
}

func TestRenderConcatenatesParentAndDetails(t *testing.T) {
	monday := dateutil.Date(2019, time.June, 10)
	src := &fakeSource{tasks: []domain.Task{workTask(alice, monday, 8, "hacking")}}

	c := newCreator(t, src, scoped, Options{TimeRange: "w24/2019-w25/2019"})
	out := c.Render()

	parent, details := c.Reports()
	assert.True(t, strings.HasPrefix(out, parent.Generate()))
	for _, d := range details {
		assert.Contains(t, out, d.Generate())
	}
}
