// Package report builds aggregate and detailed worklog reports over
// week buckets and renders them through an output format strategy.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
	"github.com/dbarros/tally/internal/period"
	"github.com/dbarros/tally/internal/render"
)

// whitespaceRuns collapses duplicated whitespace in joined story text.
var whitespaceRuns = regexp.MustCompile(`\s+`)

// AggregateReport shows one row of totals per week across many weeks,
// with grand totals at the end. It holds no state of its own: everything
// is recomputed from the buckets at render time.
type AggregateReport struct {
	Title   string
	WikiKey string
	Weeks   []*period.Week

	newRenderer func() render.Renderer
}

// NewAggregateReport builds an aggregate view over the given weeks. The
// renderer factory is invoked once per Generate call so repeated renders
// are identical.
func NewAggregateReport(weeks []*period.Week, newRenderer func() render.Renderer, title, wikiKey string) *AggregateReport {
	return &AggregateReport{
		Title:       title,
		WikiKey:     wikiKey,
		Weeks:       weeks,
		newRenderer: newRenderer,
	}
}

// Generate renders the report and returns the flattened output.
func (r *AggregateReport) Generate() string {
	rd := r.newRenderer()
	rd.Header(r.Title)

	var rows [][]string
	var total, totalOnsite time.Duration
	for _, w := range r.Weeks {
		amount := w.TimeWorked(period.TaskQuery{})
		onsite := w.TimeWorked(period.TaskQuery{OnsiteOnly: true})

		cell := dateutil.FormatHours(amount)
		if onsite > 0 {
			cell += fmt.Sprintf(" (%s onsite)", dateutil.FormatHours(onsite))
		}
		rows = append(rows, []string{w.ShortString(), cell})

		total += amount
		totalOnsite += onsite
	}
	rd.Table(rows, false)

	rd.Header("Total hours worked: " + dateutil.FormatHours(total))
	rd.Header("Total onsite hours worked: " + dateutil.FormatHours(totalOnsite))
	return rd.Flatten()
}

// DetailedReport breaks a single week down per day and per person: an
// hours grid followed by each person's story descriptions for every day.
type DetailedReport struct {
	Title   string
	WikiKey string
	Week    *period.Week

	// IncludeStory prefixes descriptions with the formatted story tag.
	IncludeStory bool

	newRenderer func() render.Renderer
}

// NewDetailedReport builds a detail view of one week. When the week
// belongs to an aggregate parent, the parent's title and key prefix the
// report's own.
func NewDetailedReport(week *period.Week, parent *AggregateReport, newRenderer func() render.Renderer, includeStory bool) *DetailedReport {
	var title, wikiKey string
	if parent != nil {
		title = fmt.Sprintf("%s for %s", week, parent.Title)
		wikiKey = fmt.Sprintf("%s-%s", parent.WikiKey, week.WikiKey())
	} else {
		title = fmt.Sprintf("%s for %s", week, week.Filter)
		wikiKey = week.WikiKey()
	}
	return &DetailedReport{
		Title:        title,
		WikiKey:      wikiKey,
		Week:         week,
		IncludeStory: includeStory,
		newRenderer:  newRenderer,
	}
}

// Generate renders the report and returns the flattened output.
func (r *DetailedReport) Generate() string {
	rd := r.newRenderer()
	rd.Header(r.Title)
	r.generateHours(rd)
	for _, user := range r.Week.Users() {
		r.generateStories(rd, user)
	}
	return rd.Flatten()
}

func (r *DetailedReport) generateHours(rd render.Renderer) {
	dates := r.Week.Dates()

	header := []string{""}
	for _, d := range dates {
		header = append(header, d.Format("02 Jan"))
	}
	header = append(header, "Total")

	rows := [][]string{header}
	for _, user := range r.Week.Users() {
		rows = append(rows, r.hoursRow(user.Login, &user))
	}
	rows = append(rows, r.hoursRow("everyone", nil))
	rd.Table(rows, true)

	onsite := r.Week.TimeWorked(period.TaskQuery{OnsiteOnly: true})
	if onsite > 0 {
		rd.LargeText("Onsite hours worked: " + dateutil.FormatHours(onsite))
	}
}

func (r *DetailedReport) hoursRow(label string, user *domain.User) []string {
	row := []string{label}
	for _, d := range r.Week.Dates() {
		date := d
		row = append(row, dateutil.FormatHours(r.Week.TimeWorked(period.TaskQuery{Date: &date, User: user})))
	}
	return append(row, dateutil.FormatHours(r.Week.TimeWorked(period.TaskQuery{User: user})))
}

func (r *DetailedReport) generateStories(rd render.Renderer, user domain.User) {
	rd.SectionHeader("Stories for " + user.Login)

	var pairs [][2]string
	for _, d := range r.Week.Dates() {
		pairs = append(pairs, [2]string{d.Weekday().String(), r.storiesFor(rd, user, d)})
	}
	rd.AlignedList(pairs)
}

// storiesFor concatenates one person's descriptions for one day. People
// tend to log the same description many times, so duplicates collapse to
// a single occurrence (keeping first-seen order) and whitespace runs are
// squashed after joining.
func (r *DetailedReport) storiesFor(rd render.Renderer, user domain.User, date time.Time) string {
	tasks := r.Week.FilterTasks(period.TaskQuery{Date: &date, User: &user})

	seen := make(map[string]bool)
	var entries []string
	for _, t := range tasks {
		entry := t.Text
		if r.IncludeStory {
			if story := rd.FormatStory(t.Story); story != "" {
				entry = story + " " + t.Text
			}
		}
		if !seen[entry] {
			seen[entry] = true
			entries = append(entries, entry)
		}
	}

	joined := strings.Join(entries, " ")
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(joined, " "))
}
