package period

import (
	"testing"
	"time"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeek(t *testing.T) {
	w, err := NewWeek(2019, 24, domain.TaskFilter{})
	require.NoError(t, err)

	assert.Equal(t, dateutil.Date(2019, time.June, 10), w.Start)
	assert.Equal(t, dateutil.Date(2019, time.June, 16), w.End())
	assert.Equal(t, "Week 24 of 2019", w.String())
	assert.Equal(t, "Week 24/2019 ", w.ShortString())
	assert.Equal(t, "Week24-2019", w.WikiKey())

	_, err = NewWeek(2019, 54, domain.TaskFilter{})
	assert.ErrorIs(t, err, dateutil.ErrWeekRange)
}

func TestWeeksBetween(t *testing.T) {
	weeks, err := WeeksBetween(dateutil.Date(2019, time.June, 12), dateutil.Date(2019, time.June, 25), domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, weeks, 3)

	for i, w := range weeks {
		assert.Equal(t, time.Monday, w.Start.Weekday())
		if i > 0 {
			// Buckets are contiguous: each starts the day after the
			// previous one ends.
			assert.Equal(t, weeks[i-1].End().AddDate(0, 0, 1), w.Start)
		}
	}

	// Each bucket's filter window matches the bucket itself.
	assert.Equal(t, weeks[0].Start, weeks[0].Filter.Start)
	assert.Equal(t, weeks[0].End(), weeks[0].Filter.End)
}

func TestWeeksCoveringTasks(t *testing.T) {
	// Ten days of records crossing an ISO week boundary: Wednesday June
	// 12th through Friday June 21st 2019 spans weeks 24 and 25.
	var tasks []domain.Task
	for i := 0; i < 10; i++ {
		date := dateutil.Date(2019, time.June, 12).AddDate(0, 0, i)
		tasks = append(tasks, task(alice, date, 9*time.Hour, 10*time.Hour))
	}

	weeks, err := WeeksCoveringTasks(tasks, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	// Every record lands in exactly one bucket.
	total := 0
	for _, w := range weeks {
		total += len(w.Tasks())
	}
	assert.Equal(t, len(tasks), total)
	assert.Len(t, weeks[0].Tasks(), 5) // Wed 12th .. Sun 16th
	assert.Len(t, weeks[1].Tasks(), 5) // Mon 17th .. Fri 21st
}

func TestWeeksCoveringTasksUnordered(t *testing.T) {
	tasks := []domain.Task{
		task(alice, dateutil.Date(2019, time.June, 21), 9*time.Hour, 10*time.Hour),
		task(bob, dateutil.Date(2019, time.June, 12), 9*time.Hour, 10*time.Hour),
		task(alice, dateutil.Date(2019, time.June, 17), 9*time.Hour, 10*time.Hour),
	}

	weeks, err := WeeksCoveringTasks(tasks, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.True(t, weeks[0].Start.Before(weeks[1].Start))
	assert.Len(t, weeks[0].Tasks(), 1)
	assert.Len(t, weeks[1].Tasks(), 2)
}

func TestWeeksCoveringTasksEmpty(t *testing.T) {
	weeks, err := WeeksCoveringTasks(nil, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, weeks)
}

func TestPlacementMissIsFatal(t *testing.T) {
	// Buckets that do not cover a task's date are an internal
	// inconsistency: the record must not be dropped silently.
	w, err := NewWeek(2019, 24, domain.TaskFilter{})
	require.NoError(t, err)

	stray := task(alice, dateutil.Date(2019, time.July, 1), 9*time.Hour, 10*time.Hour)
	err = placeTask([]*Week{w}, stray)
	assert.ErrorIs(t, err, ErrPlacement)
	assert.Empty(t, w.Tasks())
}
