package domain

import "time"

// TaskFilter scopes a fetch from the service: any combination of project,
// customer, user and task type, plus an inclusive date window. Scope fields
// are nil when unset.
type TaskFilter struct {
	Project  *Project
	Customer *Customer
	User     *User
	TaskType string

	Start time.Time
	End   time.Time
}

// WithDates returns a copy of the filter with the same scope but a
// different date window. Each week bucket fetches through its own
// date-narrowed copy of the report's filter.
func (f TaskFilter) WithDates(start, end time.Time) TaskFilter {
	f.Start = start
	f.End = end
	return f
}

// String describes the filter scope for report titles, preferring the most
// specific human-readable name.
func (f TaskFilter) String() string {
	switch {
	case f.Project != nil:
		return f.Project.Description
	case f.Customer != nil:
		return f.Customer.Name
	case f.User != nil:
		return f.User.Login
	default:
		return f.TaskType
	}
}
