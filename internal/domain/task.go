package domain

import "time"

// Task is one work record reported by the time-tracking service: a single
// stretch of work by one person on one day. Start and End are wall-clock
// offsets from midnight of Date.
type Task struct {
	ID    int
	Date  time.Time
	Start time.Duration
	End   time.Duration

	UserID     int
	User       User
	ProjectID  int
	CustomerID int

	Type     string
	Phase    string
	Story    string
	Text     string
	Onsite   bool
	Telework bool
}

// Length returns the worked duration. An end time of exactly 00:00 means
// the task ran until midnight of the following day and counts as 24:00,
// unless the start time is also 00:00, which the service uses for
// legitimate zero-length entries. The asymmetry is a quirk of the
// upstream service, not a general rollover rule.
func (t Task) Length() time.Duration {
	end := t.End
	if end == 0 && t.Start != 0 {
		end = 24 * time.Hour
	}
	return end - t.Start
}
