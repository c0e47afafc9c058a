package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbarros/tally/internal/dateutil"
	"github.com/dbarros/tally/internal/domain"
)

type fakeService struct {
	dir   domain.Directory
	tasks []domain.Task
}

func (f *fakeService) Login(context.Context) error { return nil }

func (f *fakeService) Directory() domain.Directory { return f.dir }

func (f *fakeService) TasksForFilters(_ context.Context, filters []domain.TaskFilter) ([][]domain.Task, error) {
	results := make([][]domain.Task, len(filters))
	for i, filter := range filters {
		for _, task := range f.tasks {
			if filter.Start.IsZero() || (!task.Date.Before(filter.Start) && !task.Date.After(filter.End)) {
				results[i] = append(results[i], task)
			}
		}
	}
	return results, nil
}

func testDirectory() domain.Directory {
	dir := domain.NewDirectory()
	dir.Users[1] = domain.User{ID: 1, Login: "alice"}
	dir.Projects[10] = domain.Project{ID: 10, Description: "WebKit maintenance", CustomerID: 7}
	dir.Projects[11] = domain.Project{ID: 11, Description: "WebKit upstreaming", CustomerID: 7}
	dir.Projects[12] = domain.Project{ID: 12, Description: "Compilers", CustomerID: 8}
	dir.Customers[7] = domain.Customer{ID: 7, Name: "Acme Corp"}
	dir.Customers[8] = domain.Customer{ID: 8, Name: "Initech"}
	return dir
}

func testApp(service Service) *App {
	return &App{
		Service:       service,
		Out:           &bytes.Buffer{},
		Err:           &bytes.Buffer{},
		Now:           func() time.Time { return dateutil.Date(2019, time.June, 14) },
		IsInteractive: func() bool { return false },
	}
}

func TestValidateOptions(t *testing.T) {
	cases := []struct {
		name    string
		opts    reportOptions
		wantErr string
	}{
		{"no scope at all", reportOptions{timeRange: "w24"}, "must give a project"},
		{"customer without time", reportOptions{customer: "acme"}, "must give either a time range"},
		{"user without time", reportOptions{user: "alice"}, "must give either a time range"},
		{"project alone is fine", reportOptions{project: "webkit, maintenance"}, ""},
		{"customer with time", reportOptions{customer: "acme", timeRange: "q2/2019"}, ""},
		{"task type with time", reportOptions{taskType: "implementation", timeRange: "2019"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateOptions(tc.opts)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

func TestResolveFilterSingleMatches(t *testing.T) {
	app := testApp(&fakeService{dir: testDirectory()})

	filter, err := resolveFilter(app, reportOptions{
		project:  "webkit, maintenance",
		customer: "initech",
		user:     "alice",
		taskType: "implementation",
	})
	require.NoError(t, err)
	require.NotNil(t, filter.Project)
	assert.Equal(t, 10, filter.Project.ID)
	require.NotNil(t, filter.Customer)
	assert.Equal(t, 8, filter.Customer.ID)
	require.NotNil(t, filter.User)
	assert.Equal(t, 1, filter.User.ID)
	assert.Equal(t, "implementation", filter.TaskType)
}

func TestResolveFilterNoMatch(t *testing.T) {
	app := testApp(&fakeService{dir: testDirectory()})

	_, err := resolveFilter(app, reportOptions{project: "gecko"})
	assert.ErrorContains(t, err, `no project matches "gecko"`)

	_, err = resolveFilter(app, reportOptions{customer: "globex"})
	assert.ErrorContains(t, err, `no customer matches "globex"`)
}

func TestResolveFilterAmbiguousWithoutTerminal(t *testing.T) {
	app := testApp(&fakeService{dir: testDirectory()})

	_, err := resolveFilter(app, reportOptions{project: "webkit"})
	assert.ErrorContains(t, err, "2 projects match")
	assert.ErrorContains(t, err, "narrow it down")
}

func TestResolveFilterUnknownUser(t *testing.T) {
	app := testApp(&fakeService{dir: testDirectory()})

	// Login matching is exact, not a search.
	_, err := resolveFilter(app, reportOptions{user: "ali"})
	assert.ErrorContains(t, err, `no user with login "ali"`)
}

func TestRunReportEndToEnd(t *testing.T) {
	service := &fakeService{
		dir: testDirectory(),
		tasks: []domain.Task{
			{
				ID:     1,
				Date:   dateutil.Date(2019, time.June, 10),
				Start:  9 * time.Hour,
				End:    17 * time.Hour,
				UserID: 1,
				User:   domain.User{ID: 1, Login: "alice"},
				Text:   "fixed the build",
			},
		},
	}
	app := testApp(service)

	err := runReport(context.Background(), app, reportOptions{
		user:      "alice",
		timeRange: "w24/2019",
		format:    "text",
	})
	require.NoError(t, err)

	out := app.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, "Week 24 of 2019 for alice")
	assert.Contains(t, out, "08:00")
	assert.Contains(t, out, "Stories for alice")
	assert.Contains(t, out, "fixed the build")

	status := app.Err.(*bytes.Buffer).String()
	assert.Contains(t, status, "Logging in")
}

func TestRunReportBadFormat(t *testing.T) {
	app := testApp(&fakeService{dir: testDirectory()})

	err := runReport(context.Background(), app, reportOptions{
		user:      "alice",
		timeRange: "w24/2019",
		format:    "pdf",
	})
	assert.Error(t, err)
}
