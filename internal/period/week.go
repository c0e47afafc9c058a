package period

import (
	"errors"
	"fmt"
	"time"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
)

// ErrPlacement means a task could not be filed into any bucket of a
// partition. The bucket span is derived from the tasks themselves, so a
// miss is an internal invariant violation and aborts the run; silently
// dropping or re-homing the record would corrupt the report.
var ErrPlacement = errors.New("task does not fall within any week bucket")

// Week is a seven-day period aligned to an ISO week, Monday through Sunday.
type Week struct {
	Period
	Year int
	Num  int
}

// NewWeek creates an empty bucket for the given ISO week.
func NewWeek(year, num int, filter domain.TaskFilter) (*Week, error) {
	start, err := dateutil.FromWeekNumber(year, num, false)
	if err != nil {
		return nil, err
	}
	return &Week{Period: *NewPeriod(start, 7, filter), Year: year, Num: num}, nil
}

// String returns the week's display title, e.g. "Week 24 of 2019".
func (w *Week) String() string {
	return fmt.Sprintf("Week %d of %d", w.Num, w.Year)
}

// ShortString returns the compact row label used in aggregate tables.
func (w *Week) ShortString() string {
	return fmt.Sprintf("Week %d/%d ", w.Num, w.Year)
}

// WikiKey returns the week's cross-reference identifier, e.g. "Week24-2019".
func (w *Week) WikiKey() string {
	return fmt.Sprintf("Week%d-%d", w.Num, w.Year)
}

// WeeksBetween builds one empty bucket per ISO week touched by the
// inclusive date range, in ascending order. Buckets are contiguous and
// non-overlapping by construction.
func WeeksBetween(start, end time.Time, filter domain.TaskFilter) ([]*Week, error) {
	var weeks []*Week
	for _, monday := range dateutil.WeeksIn(start, end) {
		year, num := dateutil.YearAndWeekNumber(monday)
		week, err := NewWeek(year, num, filter)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week)
	}
	return weeks, nil
}

// WeeksCoveringTasks partitions an unordered task list whose date extent is
// not known up front: it scans once for the earliest and latest dates,
// builds buckets spanning them, and files each task into the first bucket
// that contains its date. A task that no bucket accepts yields
// ErrPlacement. An empty task list yields no buckets.
func WeeksCoveringTasks(tasks []domain.Task, filter domain.TaskFilter) ([]*Week, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	first, last := tasks[0].Date, tasks[0].Date
	for _, t := range tasks[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}

	weeks, err := WeeksBetween(first, last, filter)
	if err != nil {
		return nil, err
	}

	for _, t := range tasks {
		if err := placeTask(weeks, t); err != nil {
			return nil, err
		}
	}
	return weeks, nil
}

func placeTask(weeks []*Week, t domain.Task) error {
	for _, w := range weeks {
		if w.AddTaskIfInPeriod(t) {
			return nil
		}
	}
	return fmt.Errorf("%w: task %d on %s", ErrPlacement, t.ID, t.Date.Format("2006-01-02"))
}
