// Package period partitions work records into consecutive week-long
// buckets and aggregates worked time within them.
package period

import (
	"sort"
	"time"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
)

// Period is a contiguous run of calendar days holding the tasks that start
// within it. Tasks are appended in arrival order; the set of people who
// worked in the period is tracked as tasks are added.
type Period struct {
	Start  time.Time
	Days   int
	Filter domain.TaskFilter

	tasks []domain.Task
	users map[int]domain.User
}

// NewPeriod creates an empty period of the given length. The filter's date
// window is narrowed to exactly this period.
func NewPeriod(start time.Time, days int, filter domain.TaskFilter) *Period {
	return &Period{
		Start:  start,
		Days:   days,
		Filter: filter.WithDates(start, start.AddDate(0, 0, days-1)),
		users:  make(map[int]domain.User),
	}
}

// End returns the last day included in the period.
func (p *Period) End() time.Time {
	return p.Start.AddDate(0, 0, p.Days-1)
}

// AddTask appends a task to the period unconditionally.
func (p *Period) AddTask(t domain.Task) {
	p.tasks = append(p.tasks, t)
	p.users[t.User.ID] = t.User
}

// AddTaskIfInPeriod appends the task only when its date falls inside the
// period window, and reports whether it did.
func (p *Period) AddTaskIfInPeriod(t domain.Task) bool {
	if t.Date.Before(p.Start) {
		return false
	}
	if !t.Date.Before(p.Start.AddDate(0, 0, p.Days)) {
		return false
	}
	p.AddTask(t)
	return true
}

// SetTasks replaces the period's tasks wholesale. Used when the caller has
// already fetched exactly the records belonging to this period.
func (p *Period) SetTasks(tasks []domain.Task) {
	p.tasks = nil
	p.users = make(map[int]domain.User)
	for _, t := range tasks {
		p.AddTask(t)
	}
}

// Tasks returns the tasks in the period, in insertion order.
func (p *Period) Tasks() []domain.Task {
	return p.tasks
}

// Users returns everyone with at least one task in the period, sorted by
// login so that report layouts are deterministic.
func (p *Period) Users() []domain.User {
	users := make([]domain.User, 0, len(p.users))
	for _, u := range p.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Login < users[j].Login })
	return users
}

// Dates returns every calendar day of the period in order.
func (p *Period) Dates() []time.Time {
	dates := make([]time.Time, p.Days)
	for i := range dates {
		dates[i] = p.Start.AddDate(0, 0, i)
	}
	return dates
}

// TaskQuery narrows TimeWorked and FilterTasks to a single day, a single
// person, or onsite work only. Nil fields match everything.
type TaskQuery struct {
	Date       *time.Time
	User       *domain.User
	OnsiteOnly bool
}

// FilterTasks returns the period's tasks matching the query, in order.
func (p *Period) FilterTasks(q TaskQuery) []domain.Task {
	var matched []domain.Task
	for _, t := range p.tasks {
		if q.User != nil && t.User.ID != q.User.ID {
			continue
		}
		if q.Date != nil && !dateutil.SameDate(t.Date, *q.Date) {
			continue
		}
		if q.OnsiteOnly && !t.Onsite {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// TimeWorked sums the corrected lengths of the tasks matching the query.
// An empty match sums to zero. A task whose corrected end crosses midnight
// contributes its whole length here; it is never split across days.
func (p *Period) TimeWorked(q TaskQuery) time.Duration {
	var total time.Duration
	for _, t := range p.FilterTasks(q) {
		total += t.Length()
	}
	return total
}
